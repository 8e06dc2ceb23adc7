package ui

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
	"github.com/mattn/go-isatty"

	"github.com/yankeexe/ollama-manager/internal/selection"
)

// Interactive reports whether stdout is a terminal.
func Interactive() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Prompt asks for one line of text. Aborting returns
// selection.ErrSelectionCancelled.
func Prompt(title string) (string, error) {
	var value string
	err := huh.NewInput().
		Title(title).
		Value(&value).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return "", selection.ErrSelectionCancelled
	}
	if err != nil {
		return "", fmt.Errorf("prompt: %w", err)
	}
	return strings.TrimSpace(value), nil
}

// Status runs fn behind a spinner labelled title. Without a terminal fn
// runs plainly.
func Status(title string, fn func() error) error {
	if !Interactive() {
		return fn()
	}
	var fnErr error
	if err := spinner.New().
		Title(" " + title).
		Action(func() { fnErr = fn() }).
		Run(); err != nil {
		return fmt.Errorf("spinner: %w", err)
	}
	return fnErr
}
