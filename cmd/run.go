package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/yankeexe/ollama-manager/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run [model]",
	Short: "Chat with a local model in the Ollama terminal UI",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var arg string
		if len(args) == 1 {
			arg = args[0]
		}

		d, err := newDaemon()
		if err != nil {
			return err
		}
		model, err := pickRunnable(cmd.Context(), d, &ui.Menu{}, arg)
		if err != nil {
			return err
		}

		bin, err := exec.LookPath("ollama")
		if err != nil {
			return fmt.Errorf("ollama CLI not found in PATH: %w", err)
		}

		log.Debug().Str("model", model).Str("bin", bin).Msg("starting ollama run")
		c := exec.CommandContext(cmd.Context(), bin, "run", model)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr
		c.Env = append(os.Environ(), "OLLAMA_HOST="+d.Host().String())
		if err := c.Run(); err != nil {
			return fmt.Errorf("ollama run %s: %w", model, err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
