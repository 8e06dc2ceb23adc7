package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds the olm settings. Zero values in a config file mean
// "unspecified" and keep the defaults.
type Config struct {
	OllamaHost    string   `json:"ollama_host" yaml:"ollama_host" toml:"ollama_host"`
	LibraryURL    string   `json:"library_url" yaml:"library_url" toml:"library_url"`
	HubURL        string   `json:"hub_url" yaml:"hub_url" toml:"hub_url"`
	Limit         int      `json:"limit" yaml:"limit" toml:"limit"`
	ScreenPadding int      `json:"screen_padding" yaml:"screen_padding" toml:"screen_padding"`
	Timeout       Duration `json:"timeout" yaml:"timeout" toml:"timeout"`
	LogLevel      string   `json:"log_level" yaml:"log_level" toml:"log_level"`
}

// Duration is a time.Duration that decodes from strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		LibraryURL:    "https://ollama.com",
		HubURL:        "https://huggingface.co",
		Limit:         20,
		ScreenPadding: 100,
		Timeout:       Duration(30 * time.Second),
		LogLevel:      "warn",
	}
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve builds the effective configuration: defaults, then the config file
// (explicit path, $OLM_CONFIG, or the first file found in ConfigDir), then
// environment overrides. A missing default file is not an error.
func Resolve(path string) (*Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("OLM_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		for _, candidate := range configCandidates() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		fileCfg, err := Load(path)
		if err != nil {
			if !explicit && errors.Is(err, fs.ErrNotExist) {
				return applyEnv(cfg), nil
			}
			return nil, err
		}
		cfg.merge(fileCfg)
	}

	return applyEnv(cfg), nil
}

func (c *Config) merge(o Config) {
	if o.OllamaHost != "" {
		c.OllamaHost = o.OllamaHost
	}
	if o.LibraryURL != "" {
		c.LibraryURL = strings.TrimSuffix(o.LibraryURL, "/")
	}
	if o.HubURL != "" {
		c.HubURL = strings.TrimSuffix(o.HubURL, "/")
	}
	if o.Limit > 0 {
		c.Limit = o.Limit
	}
	if o.ScreenPadding > 0 {
		c.ScreenPadding = o.ScreenPadding
	}
	if o.Timeout > 0 {
		c.Timeout = o.Timeout
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
}

func applyEnv(c *Config) *Config {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		c.OllamaHost = host
	}
	if lvl := os.Getenv("OLM_LOG_LEVEL"); lvl != "" {
		c.LogLevel = lvl
	}
	return c
}
