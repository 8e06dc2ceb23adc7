package catalog

import (
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Options configures a catalog client.
type Options struct {
	// BaseURL overrides the upstream root, e.g. "https://ollama.com".
	BaseURL string

	// HTTPClient defaults to a client with a 30 second timeout.
	HTTPClient *http.Client

	Logger zerolog.Logger

	// Multimodal restricts searches to vision-capable models.
	Multimodal bool

	// Limit caps hub search results. Ignored by the library site.
	Limit int

	// Now is the clock used for relative times. Defaults to time.Now.
	Now func() time.Time
}

func (o Options) withDefaults(baseURL string) Options {
	if o.BaseURL == "" {
		o.BaseURL = baseURL
	}
	o.BaseURL = strings.TrimSuffix(o.BaseURL, "/")
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}
