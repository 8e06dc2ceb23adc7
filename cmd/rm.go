package cmd

import (
	"github.com/spf13/cobra"

	"github.com/yankeexe/ollama-manager/internal/ui"
)

var rmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Delete local models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		multi, _ := cmd.Flags().GetBool("multi")

		d, err := newDaemon()
		if err != nil {
			return err
		}
		return removeLocal(cmd.Context(), d, &ui.Menu{}, cmd.OutOrStdout(), multi)
	},
}

func init() {
	rmCmd.Flags().BoolP("multi", "m", false, "select multiple models at once")
	rootCmd.AddCommand(rmCmd)
}
