package cmd

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/yankeexe/ollama-manager/internal/catalog"
	"github.com/yankeexe/ollama-manager/internal/config"
	"github.com/yankeexe/ollama-manager/internal/daemon"
	"github.com/yankeexe/ollama-manager/internal/pull"
	"github.com/yankeexe/ollama-manager/internal/selection"
	"github.com/yankeexe/ollama-manager/internal/ui"
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Search the Ollama library or Hugging Face and pull a model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		useHub, _ := cmd.Flags().GetBool("hf")
		query, _ := cmd.Flags().GetString("query")
		limit, _ := cmd.Flags().GetInt("limit")
		multimodal, _ := cmd.Flags().GetBool("multimodal")

		if useHub && query == "" {
			q, err := ui.Prompt("hf search:")
			if err != nil {
				return err
			}
			query = q
		}
		if limit <= 0 {
			limit = cfg.Limit
		}

		cat := newCatalog(useHub, multimodal, limit)
		flow := &selection.Flow{
			Catalog:  cat,
			Selector: &ui.Menu{},
			Status:   ui.Status,
			Log:      log,
		}
		res, err := flow.Resolve(cmd.Context(), query)
		if err != nil {
			return err
		}

		d, err := newDaemon()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if d.Local() {
			warnDiskSpace(out, config.OllamaModelsDir(), daemon.VariantSize(res.Variant))
		}

		o := &pull.Orchestrator{
			Fetcher: d,
			Sink:    pull.NewSink(out, cfg.ScreenPadding, ui.Interactive()),
			Out:     out,
			Log:     log,
		}
		return o.Pull(cmd.Context(), res.Reference)
	},
}

func newCatalog(useHub, multimodal bool, limit int) catalog.Client {
	opts := catalog.Options{
		HTTPClient: &http.Client{Timeout: time.Duration(cfg.Timeout)},
		Logger:     log,
		Multimodal: multimodal,
		Limit:      limit,
	}
	if useHub {
		opts.BaseURL = cfg.HubURL
		return catalog.NewHubClient(opts)
	}
	opts.BaseURL = cfg.LibraryURL
	return catalog.NewLibraryClient(opts)
}

// warnDiskSpace prints a warning when need bytes do not fit in the models
// directory. The pull goes ahead either way.
func warnDiskSpace(w io.Writer, dir string, need uint64) {
	err := daemon.CheckDisk(dir, need)
	if err == nil {
		return
	}
	if errors.Is(err, daemon.ErrInsufficientSpace) {
		fmt.Fprintln(w, warnStyle.Render("Warning: "+err.Error()))
		return
	}
	log.Debug().Err(err).Str("dir", dir).Msg("disk check skipped")
}

func init() {
	pullCmd.Flags().Bool("hf", false, "search Hugging Face GGUF repositories instead of the Ollama library")
	pullCmd.Flags().StringP("query", "q", "", "search query")
	pullCmd.Flags().IntP("limit", "l", 0, "maximum number of Hugging Face results (default from config, 20)")
	pullCmd.Flags().BoolP("multimodal", "m", false, "only show vision capable models")
	rootCmd.AddCommand(pullCmd)
}
