package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yankeexe/ollama-manager/internal/pull"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestParseHost(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:11434"},
		{"localhost", "http://localhost:11434"},
		{"0.0.0.0:8080", "http://0.0.0.0:8080"},
		{"https://ollama.example.com", "https://ollama.example.com:443"},
		{"http://10.0.0.5:11434/", "http://10.0.0.5:11434"},
		{"  example.com  ", "http://example.com:11434"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			u, err := ParseHost(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, u.String())
		})
	}

	_, err := ParseHost("ftp://example.com")
	assert.Error(t, err)
}

func TestLocal(t *testing.T) {
	for host, want := range map[string]bool{
		"localhost":       true,
		"127.0.0.1":       true,
		"0.0.0.0":         true,
		"[::1]:11434":     true,
		"10.0.0.5":        false,
		"gpu.example.com": false,
	} {
		c, err := New(host, 0, zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, want, c.Local(), host)
	}
}

func TestList(t *testing.T) {
	modified := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"models":[
			{"name":"llama3.2:1b","model":"llama3.2:1b","size":1321098329,"digest":"baf6a787fdff","modified_at":%q},
			{"name":"","model":"qwen2.5:0.5b","size":397821319,"digest":"a8b0c5157701","modified_at":%q}
		]}`, modified.Format(time.RFC3339), modified.Format(time.RFC3339))
	}))

	models, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, api.LocalModel{Name: "llama3.2:1b", Size: 1321098329, Digest: "baf6a787fdff", ModifiedAt: modified}, models[0])
	assert.Equal(t, "qwen2.5:0.5b", models[1].Name)
}

func TestListUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	c, err := New(srv.URL, time.Second, zerolog.Nop())
	require.NoError(t, err)

	_, err = c.List(context.Background())
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	var got struct {
		Model string `json:"model"`
	}
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/delete", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		if got.Model == "missing:latest" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":"model 'missing:latest' not found"}`)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, c.Delete(context.Background(), "llama3.2:1b"))
	assert.Equal(t, "llama3.2:1b", got.Model)

	err := c.Delete(context.Background(), "missing:latest")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func collect(ch <-chan pull.StreamEvent) []pull.StreamEvent {
	var out []pull.StreamEvent
	for ev := range ch {
		out = append(out, ev)
	}
	return out
}

func TestPullStream(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/pull", r.URL.Path)
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"status":"pulling manifest"}`)
		fmt.Fprintln(w, `{"status":"pulling 74701a8c35f6","digest":"sha256:74701a8c35f6","total":1000,"completed":500}`)
		fmt.Fprintln(w, `{"status":"success"}`)
	}))

	events := collect(c.Pull(context.Background(), "llama3.2:1b"))
	require.Len(t, events, 3)
	for _, ev := range events {
		assert.NoError(t, ev.Err)
	}
	assert.Equal(t, api.ProgressEvent{Status: "pulling 74701a8c35f6", Digest: "sha256:74701a8c35f6", Completed: 500, Total: 1000}, events[1].Progress)
	assert.Equal(t, "success", events[2].Progress.Status)
}

func TestPullStreamError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		fmt.Fprintln(w, `{"status":"pulling manifest"}`)
		fmt.Fprintln(w, `{"error":"pull model manifest: file does not exist"}`)
	}))

	events := collect(c.Pull(context.Background(), "nope:latest"))
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	require.Error(t, last.Err)
	assert.Contains(t, last.Err.Error(), "file does not exist")
	for _, ev := range events[:len(events)-1] {
		assert.NoError(t, ev.Err)
	}
}

func TestPullCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		for i := 0; i < 100; i++ {
			fmt.Fprintf(w, `{"status":"pulling","total":100,"completed":%d}`+"\n", i)
		}
	}))

	ch := c.Pull(ctx, "llama3.2:1b")
	first := <-ch
	require.NoError(t, first.Err)
	cancel()

	var last pull.StreamEvent
	for ev := range ch {
		last = ev
	}
	assert.Error(t, last.Err)
}

func TestResolve(t *testing.T) {
	models := []api.LocalModel{
		{Name: "llama3.2:1b"},
		{Name: "Qwen2.5:latest"},
		{Name: "hf.co/bartowski/Phi-3-GGUF:Q4_K_M"},
	}

	tests := []struct {
		name string
		want string
	}{
		{"llama3.2:1b", "llama3.2:1b"},
		{"Qwen2.5", "Qwen2.5:latest"},
		{"qwen2.5:latest", "Qwen2.5:latest"},
		{"phi-3", "hf.co/bartowski/Phi-3-GGUF:Q4_K_M"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolve(models, tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := resolve(models, "mistral")
	assert.ErrorIs(t, err, ErrModelNotFound)
	_, err = resolve(models, " ")
	assert.ErrorIs(t, err, ErrModelNotFound)
}

func TestSort(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	models := func() []api.LocalModel {
		return []api.LocalModel{
			{Name: "b", Size: 300, ModifiedAt: base.Add(2 * time.Hour)},
			{Name: "a", Size: 100, ModifiedAt: base.Add(3 * time.Hour)},
			{Name: "C", Size: 200, ModifiedAt: base.Add(1 * time.Hour)},
		}
	}
	names := func(ms []api.LocalModel) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name
		}
		return out
	}

	ms := models()
	Sort(ms, SortByName, false)
	assert.Equal(t, []string{"a", "b", "C"}, names(ms))

	ms = models()
	Sort(ms, SortBySize, true)
	assert.Equal(t, []string{"b", "C", "a"}, names(ms))

	ms = models()
	Sort(ms, SortByDate, false)
	assert.Equal(t, []string{"C", "b", "a"}, names(ms))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByName, k)

	k, err = ParseSortKey("SIZE")
	require.NoError(t, err)
	assert.Equal(t, SortBySize, k)

	_, err = ParseSortKey("vram")
	assert.Error(t, err)
}
