package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the directory searched for olm config files.
// Windows: %APPDATA%\olm
// Linux/Mac: ~/.config/olm
func ConfigDir() string {
	if dir := os.Getenv("OLM_CONFIG_DIR"); dir != "" {
		return dir
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(os.Getenv("APPDATA"), "olm")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "olm")
}

// OllamaModelsDir returns the directory the local daemon stores blobs in.
func OllamaModelsDir() string {
	if dir := os.Getenv("OLLAMA_MODELS"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".ollama", "models")
}

// configCandidates lists the default config files in lookup order.
func configCandidates() []string {
	dir := ConfigDir()
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
		filepath.Join(dir, "config.json"),
	}
}
