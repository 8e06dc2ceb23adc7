package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/yankeexe/ollama-manager/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()

	cmd.Report(os.Stderr, err)
	os.Exit(cmd.ExitCode(err))
}
