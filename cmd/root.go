package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yankeexe/ollama-manager/internal/config"
	"github.com/yankeexe/ollama-manager/internal/daemon"
	"github.com/yankeexe/ollama-manager/internal/logging"
	"github.com/yankeexe/ollama-manager/internal/pull"
	"github.com/yankeexe/ollama-manager/internal/selection"
)

var (
	cfgPath  string
	hostURL  string
	logLevel string

	cfg = config.DefaultConfig()
	log = zerolog.Nop()
)

var (
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

var rootCmd = &cobra.Command{
	Use:   "olm",
	Short: "Manage Ollama models from the terminal",
	Long: "olm searches the Ollama library and Hugging Face for models, pulls the\n" +
		"chosen tag or quantization into the local Ollama daemon, and lists,\n" +
		"removes or runs local models.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Resolve(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			c.OllamaHost = hostURL
		}
		if cmd.Flags().Changed("log-level") {
			c.LogLevel = logLevel
		}
		cfg = c
		log = logging.New(os.Stderr, cfg.LogLevel)
		log.Debug().Str("host", cfg.OllamaHost).Str("library", cfg.LibraryURL).Str("hub", cfg.HubURL).Msg("config loaded")
		return nil
	},
}

// Execute runs the command tree under ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&hostURL, "host", "", "Ollama daemon URL (default $OLLAMA_HOST or "+daemon.DefaultHost+")")
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $OLM_CONFIG or "+config.ConfigDir()+"/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error or off")
}

func newDaemon() (*daemon.Client, error) {
	return daemon.New(cfg.OllamaHost, time.Duration(cfg.Timeout), log)
}

// ExitCode maps the error a command returned to the process exit status.
// An empty result or a cancelled selection is a clean exit.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, selection.ErrEmptyResult), errors.Is(err, selection.ErrSelectionCancelled):
		return 0
	default:
		return 1
	}
}

// Report prints err as a single line to w unless it needs no message.
func Report(w io.Writer, err error) {
	var dl *pull.DownloadError
	switch {
	case err == nil, errors.Is(err, selection.ErrSelectionCancelled), errors.As(err, &dl):
		return
	case errors.Is(err, selection.ErrEmptyResult):
		fmt.Fprintln(w, infoStyle.Render(err.Error()))
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
