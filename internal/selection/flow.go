// Package selection walks the user from a catalog search to a fully
// qualified model reference: pick a model, then pick one of its variants.
package selection

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yankeexe/ollama-manager/internal/catalog"
	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

var (
	// ErrEmptyResult means a search or tag listing returned nothing to choose from.
	ErrEmptyResult = errors.New("nothing to select")

	// ErrSelectionCancelled means the user dismissed an interactive choice.
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Selector presents display lines and returns the chosen indices. It returns
// ErrSelectionCancelled when the user aborts.
type Selector interface {
	Select(title string, items []string, multi bool) ([]int, error)
}

// StatusFunc runs fn while showing title as a progress indicator.
type StatusFunc func(title string, fn func() error) error

// State is a step of the flow.
type State int

const (
	StateSearchModels State = iota
	StatePresentEntries
	StateSearchVariants
	StatePresentVariants
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateSearchModels:
		return "SearchModels"
	case StatePresentEntries:
		return "PresentEntries"
	case StateSearchVariants:
		return "SearchVariants"
	case StatePresentVariants:
		return "PresentVariants"
	case StateResolved:
		return "Resolved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Result is the outcome of a completed flow.
type Result struct {
	Entry     api.CatalogEntry
	Variant   api.VariantRow
	Reference string
}

// Flow drives one selection against one catalog. A Flow is single-use.
type Flow struct {
	Catalog  catalog.Client
	Selector Selector
	Status   StatusFunc
	Log      zerolog.Logger

	state State
}

// State reports the step the flow last entered.
func (f *Flow) State() State { return f.state }

func (f *Flow) enter(s State) {
	f.Log.Debug().Str("from", f.state.String()).Str("to", s.String()).Msg("selection state")
	f.state = s
}

func (f *Flow) status(title string, fn func() error) error {
	if f.Status == nil {
		return fn()
	}
	return f.Status(title, fn)
}

// Resolve runs the whole flow and returns the chosen reference.
func (f *Flow) Resolve(ctx context.Context, query string) (Result, error) {
	entry, err := f.SelectModel(ctx, query)
	if err != nil {
		return Result{}, err
	}
	row, ref, err := f.SelectVariant(ctx, entry)
	if err != nil {
		return Result{}, err
	}
	return Result{Entry: entry, Variant: row, Reference: ref}, nil
}

// SelectModel searches the catalog and asks the user to pick one model.
// The selector is never invoked for an empty result.
func (f *Flow) SelectModel(ctx context.Context, query string) (api.CatalogEntry, error) {
	f.enter(StateSearchModels)

	var entries []api.CatalogEntry
	err := f.status(fmt.Sprintf("Fetching models from %s", f.Catalog.Name()), func() error {
		var err error
		entries, err = f.Catalog.Search(ctx, query)
		return err
	})
	if err != nil {
		return api.CatalogEntry{}, err
	}
	if len(entries) == 0 {
		if query != "" {
			return api.CatalogEntry{}, fmt.Errorf("%w: no models found on %s for %q", ErrEmptyResult, f.Catalog.Name(), query)
		}
		return api.CatalogEntry{}, fmt.Errorf("%w: no models found on %s", ErrEmptyResult, f.Catalog.Name())
	}

	f.enter(StatePresentEntries)
	idx, err := f.pick(fmt.Sprintf("Select remote model (%s):", f.Catalog.Name()), format.Entries(entries))
	if err != nil {
		return api.CatalogEntry{}, err
	}
	return entries[idx], nil
}

// SelectVariant lists the variants of entry, asks the user to pick one and
// builds the reference from the identifier at the start of the chosen line.
func (f *Flow) SelectVariant(ctx context.Context, entry api.CatalogEntry) (api.VariantRow, string, error) {
	f.enter(StateSearchVariants)

	var rows []api.VariantRow
	err := f.status("Fetching tags/quantizations", func() error {
		var err error
		rows, err = f.Catalog.ListVariants(ctx, entry.Name)
		return err
	})
	if err != nil {
		return api.VariantRow{}, "", err
	}
	if len(rows) == 0 {
		return api.VariantRow{}, "", fmt.Errorf("%w: no tags found for %s", ErrEmptyResult, entry.Name)
	}

	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = f.Catalog.Identifier(entry.Name, row)
	}
	lines := format.Variants(ids, rows, f.Catalog.Columns())

	f.enter(StatePresentVariants)
	idx, err := f.pick("Select tag/quantization:", lines)
	if err != nil {
		return api.VariantRow{}, "", err
	}

	ref := f.Catalog.Reference(entry.Name, format.FirstToken(lines[idx]))
	f.enter(StateResolved)
	f.Log.Debug().Str("reference", ref).Msg("model resolved")
	return rows[idx], ref, nil
}

func (f *Flow) pick(title string, lines []string) (int, error) {
	chosen, err := f.Selector.Select(title, lines, false)
	if err != nil {
		return 0, err
	}
	if len(chosen) == 0 || chosen[0] < 0 || chosen[0] >= len(lines) {
		return 0, ErrSelectionCancelled
	}
	return chosen[0], nil
}
