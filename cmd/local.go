package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/internal/selection"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

// localStore is the part of the daemon client the rm and run commands use.
type localStore interface {
	List(ctx context.Context) ([]api.LocalModel, error)
	Delete(ctx context.Context, name string) error
	Resolve(ctx context.Context, name string) (string, error)
}

// chooseLocal lists local models as "name   size" lines and returns the
// ones the user picked.
func chooseLocal(ctx context.Context, store localStore, sel selection.Selector, title string, multi bool) ([]string, error) {
	models, err := store.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("%w: no local models found", selection.ErrEmptyResult)
	}

	picked, err := sel.Select(title, format.LocalModels(models), multi)
	if err != nil {
		return nil, err
	}
	if len(picked) == 0 {
		return nil, selection.ErrSelectionCancelled
	}

	names := make([]string, 0, len(picked))
	for _, i := range picked {
		if i < 0 || i >= len(models) {
			return nil, selection.ErrSelectionCancelled
		}
		names = append(names, models[i].Name)
	}
	return names, nil
}

// removeLocal asks for one or more local models and deletes each of them.
func removeLocal(ctx context.Context, store localStore, sel selection.Selector, out io.Writer, multi bool) error {
	title := "Select model to delete:"
	if multi {
		title = "Select models to delete:"
	}
	names, err := chooseLocal(ctx, store, sel, title, multi)
	if err != nil {
		return err
	}
	for _, name := range names {
		if err := store.Delete(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(out, "Deleted model: %s\n", name)
	}
	return nil
}

// pickRunnable resolves arg against the local models, or asks for one when
// arg is empty.
func pickRunnable(ctx context.Context, store localStore, sel selection.Selector, arg string) (string, error) {
	if arg != "" {
		return store.Resolve(ctx, arg)
	}
	names, err := chooseLocal(ctx, store, sel, "Select model to run:", false)
	if err != nil {
		return "", err
	}
	return names[0], nil
}
