// Package daemon talks to the local Ollama daemon: listing, deleting and
// pulling models.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	ollama "github.com/ollama/ollama/api"
	"github.com/rs/zerolog"

	"github.com/yankeexe/ollama-manager/internal/pull"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

// DefaultHost is used when neither a flag, config nor OLLAMA_HOST names one.
const DefaultHost = "http://127.0.0.1:11434"

const defaultPort = "11434"

// ErrModelNotFound is returned when no local model matches a name.
var ErrModelNotFound = errors.New("model not found")

// Client is a thin adapter over the Ollama API client.
type Client struct {
	api     *ollama.Client
	host    *url.URL
	timeout time.Duration
	log     zerolog.Logger
}

// New creates a Client for host. timeout bounds List and Delete; pulls are
// bounded only by their context.
func New(host string, timeout time.Duration, log zerolog.Logger) (*Client, error) {
	u, err := ParseHost(host)
	if err != nil {
		return nil, err
	}
	return &Client{
		api:     ollama.NewClient(u, &http.Client{}),
		host:    u,
		timeout: timeout,
		log:     log.With().Str("component", "daemon").Str("host", u.String()).Logger(),
	}, nil
}

// ParseHost normalizes an OLLAMA_HOST style value ("host", "host:port" or a
// full URL) into a base URL with an explicit port.
func ParseHost(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = DefaultHost
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported ollama host scheme %q", u.Scheme)
	}

	hostname, port := u.Hostname(), u.Port()
	if hostname == "" {
		hostname = "127.0.0.1"
	}
	if port == "" {
		port = defaultPort
		if u.Scheme == "https" {
			port = "443"
		}
	}
	u.Host = net.JoinHostPort(hostname, port)
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// Host returns the daemon base URL.
func (c *Client) Host() *url.URL { return c.host }

// Local reports whether the daemon runs on this machine, so that local disk
// checks are meaningful.
func (c *Client) Local() bool {
	h := c.host.Hostname()
	if strings.EqualFold(h, "localhost") {
		return true
	}
	ip := net.ParseIP(h)
	return ip != nil && (ip.IsLoopback() || ip.IsUnspecified())
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// List returns the models present in the daemon.
func (c *Client) List(ctx context.Context) ([]api.LocalModel, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.api.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models from %s: %w", c.host, err)
	}

	models := make([]api.LocalModel, 0, len(resp.Models))
	for _, m := range resp.Models {
		name := m.Name
		if name == "" {
			name = m.Model
		}
		models = append(models, api.LocalModel{
			Name:       name,
			Size:       m.Size,
			Digest:     m.Digest,
			ModifiedAt: m.ModifiedAt,
		})
	}
	c.log.Debug().Int("models", len(models)).Msg("listed local models")
	return models, nil
}

// Delete removes a model from the daemon.
func (c *Client) Delete(ctx context.Context, name string) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.api.Delete(ctx, &ollama.DeleteRequest{Model: name}); err != nil {
		var se ollama.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return fmt.Errorf("delete %s: %w", name, ErrModelNotFound)
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	c.log.Debug().Str("model", name).Msg("deleted model")
	return nil
}

// Pull starts pulling ref and returns its progress stream. Each event is
// handed over before the daemon's next one is read. If the pull fails the
// last event carries the error. The channel is closed when the pull ends.
func (c *Client) Pull(ctx context.Context, ref string) <-chan pull.StreamEvent {
	ch := make(chan pull.StreamEvent)
	go func() {
		defer close(ch)

		err := c.api.Pull(ctx, &ollama.PullRequest{Model: ref}, func(p ollama.ProgressResponse) error {
			ev := pull.StreamEvent{Progress: api.ProgressEvent{
				Status:    p.Status,
				Digest:    p.Digest,
				Completed: p.Completed,
				Total:     p.Total,
			}}
			select {
			case ch <- ev:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			c.log.Debug().Err(err).Str("ref", ref).Msg("pull stream ended with error")
			ch <- pull.StreamEvent{Err: err}
		}
	}()
	return ch
}

// Resolve finds a local model by name. It tries an exact match, the name
// with the default ":latest" tag, a case-insensitive match and finally a
// substring match.
func (c *Client) Resolve(ctx context.Context, name string) (string, error) {
	models, err := c.List(ctx)
	if err != nil {
		return "", err
	}
	return resolve(models, name)
}

func resolve(models []api.LocalModel, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("empty model name: %w", ErrModelNotFound)
	}

	for _, m := range models {
		if m.Name == name || m.Name == name+":latest" {
			return m.Name, nil
		}
	}
	for _, m := range models {
		if strings.EqualFold(m.Name, name) {
			return m.Name, nil
		}
	}
	lower := strings.ToLower(name)
	for _, m := range models {
		if strings.Contains(strings.ToLower(m.Name), lower) {
			return m.Name, nil
		}
	}
	return "", fmt.Errorf("model %q: %w", name, ErrModelNotFound)
}

// SortKey names a column local models can be sorted by.
type SortKey string

const (
	SortByName SortKey = "name"
	SortByDate SortKey = "date"
	SortBySize SortKey = "size"
)

// ParseSortKey validates a sort column name.
func ParseSortKey(s string) (SortKey, error) {
	switch k := SortKey(strings.ToLower(strings.TrimSpace(s))); k {
	case SortByName, SortByDate, SortBySize:
		return k, nil
	case "":
		return SortByName, nil
	default:
		return "", fmt.Errorf("unknown sort key %q (want name, date or size)", s)
	}
}

// Sort orders models in place by key, descending when desc is set. Ties keep
// their daemon order.
func Sort(models []api.LocalModel, key SortKey, desc bool) {
	less := func(a, b api.LocalModel) bool {
		switch key {
		case SortByDate:
			return a.ModifiedAt.Before(b.ModifiedAt)
		case SortBySize:
			return a.Size < b.Size
		default:
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	}
	sort.SliceStable(models, func(i, j int) bool {
		if desc {
			return less(models[j], models[i])
		}
		return less(models[i], models[j])
	})
}
