// Package catalog lists remote models from the Ollama library site and the
// Hugging Face hub and normalizes them into api.CatalogEntry and
// api.VariantRow values.
package catalog

import (
	"context"
	"errors"

	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

var (
	// ErrUpstreamUnavailable covers transport failures, timeouts, non-2xx
	// responses and undecodable payloads from either catalog.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNotFound is returned by ListVariants when the catalog has no such model.
	ErrNotFound = errors.New("model not found")
)

// Client is one remote catalog. Implementations map their own upstream
// shape onto the shared records; an empty result is not an error.
type Client interface {
	// Name is a short human label for the catalog.
	Name() string

	// Search lists models matching query; an empty query lists the default page.
	Search(ctx context.Context, query string) ([]api.CatalogEntry, error)

	// ListVariants lists the downloadable tags or quantizations of one model.
	ListVariants(ctx context.Context, entry string) ([]api.VariantRow, error)

	// Columns are the optional VariantRow fields this catalog fills in.
	Columns() []format.Column

	// Identifier is the first display column of a variant row.
	Identifier(entry string, row api.VariantRow) string

	// Reference builds the fetchable model reference from the chosen entry
	// and the identifier recovered from the chosen display line.
	Reference(entry, identifier string) string
}
