package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/yankeexe/ollama-manager/internal/catalog"
	"github.com/yankeexe/ollama-manager/internal/daemon"
	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List local models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sortBy, _ := cmd.Flags().GetString("sort")
		order, _ := cmd.Flags().GetString("order")

		key, err := daemon.ParseSortKey(sortBy)
		if err != nil {
			return err
		}
		desc, err := parseOrder(order)
		if err != nil {
			return err
		}

		d, err := newDaemon()
		if err != nil {
			return err
		}
		models, err := d.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list models: %w", err)
		}

		if len(models) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No models available.")
			return nil
		}

		daemon.Sort(models, key, desc)
		fmt.Fprintln(cmd.OutOrStdout(), renderModels(models, time.Now()))
		return nil
	},
}

func parseOrder(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return false, nil
	case "desc":
		return true, nil
	default:
		return false, fmt.Errorf("unknown order %q (want asc or desc)", s)
	}
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Italic(true)
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	columnStyles = []lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Padding(0, 1),
		lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Padding(0, 1),
		lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Padding(0, 1),
	}
)

func renderModels(models []api.LocalModel, now time.Time) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("Model Name", "Modified Date", "Size").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return columnStyles[col]
		})
	for _, m := range models {
		t.Row(m.Name, catalog.Humanize(m.ModifiedAt, now), format.Size(m.Size))
	}
	return titleStyle.Render("Ollama Models") + "\n" + t.Render()
}

func init() {
	listCmd.Flags().StringP("sort", "s", "name", "sort by name, date or size")
	listCmd.Flags().StringP("order", "o", "asc", "sort order: asc or desc")
	rootCmd.AddCommand(listCmd)
}
