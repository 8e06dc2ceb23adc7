package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

const userAgent = "olm/1.0 (+https://github.com/yankeexe/ollama-manager)"

// fetcher issues GET requests and maps failures onto the catalog error taxonomy.
type fetcher struct {
	httpClient *http.Client
	log        zerolog.Logger
}

// get performs a GET and returns the open response body. A 404 maps to
// ErrNotFound when notFound is set; any other non-2xx maps to
// ErrUpstreamUnavailable.
func (f *fetcher) get(ctx context.Context, url, accept string, notFound bool) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", accept)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		f.log.Debug().Err(err).Str("url", url).Msg("upstream request failed")
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	f.log.Debug().Str("url", url).Int("status", resp.StatusCode).Msg("upstream response")

	if resp.StatusCode == http.StatusNotFound && notFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s returned %d", ErrUpstreamUnavailable, url, resp.StatusCode)
	}
	return resp.Body, nil
}

func (f *fetcher) getJSON(ctx context.Context, url string, notFound bool, result any) error {
	body, err := f.get(ctx, url, "application/json", notFound)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(result); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUpstreamUnavailable, err)
	}
	return nil
}
