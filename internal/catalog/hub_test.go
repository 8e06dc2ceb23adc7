package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yankeexe/ollama-manager/pkg/api"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newHubServer(t *testing.T, opts Options, handler http.HandlerFunc) *HubClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	opts.Now = func() time.Time { return fixedNow }
	return NewHubClient(opts)
}

func TestHubSearchParams(t *testing.T) {
	c := newHubServer(t, Options{Limit: 5}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/models", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "gguf", q.Get("filter"))
		assert.Equal(t, "downloads", q.Get("sort"))
		assert.Equal(t, "-1", q.Get("direction"))
		assert.Equal(t, "5", q.Get("limit"))
		assert.Equal(t, "llama", q.Get("search"))
		assert.Equal(t, "text-generation", q.Get("pipeline_tag"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"_id": "1", "id": "bartowski/Llama-3.2-1B-Instruct-GGUF", "modelId": "bartowski/Llama-3.2-1B-Instruct-GGUF"},
			{"id": "unsloth/Llama-3.2-3B-Instruct-GGUF"},
			{"downloads": 3}
		]`))
	})

	entries, err := c.Search(context.Background(), "llama")
	require.NoError(t, err)
	assert.Equal(t, []api.CatalogEntry{
		{Name: "bartowski/Llama-3.2-1B-Instruct-GGUF"},
		{Name: "unsloth/Llama-3.2-3B-Instruct-GGUF"},
	}, entries)
}

func TestHubSearchMultimodalPipeline(t *testing.T) {
	var pipeline string
	c := newHubServer(t, Options{Multimodal: true}, func(w http.ResponseWriter, r *http.Request) {
		pipeline = r.URL.Query().Get("pipeline_tag")
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		w.Write([]byte(`[]`))
	})

	entries, err := c.Search(context.Background(), "llava")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, "image-text-to-text", pipeline)
}

func TestHubSearchBadJSON(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>rate limited</html>`))
	})

	_, err := c.Search(context.Background(), "x")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestHubSearchNon2xx(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.Search(context.Background(), "x")
	require.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestHubListVariantsDropsUnresolvable(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/models/bartowski/Llama-3.2-1B-Instruct-GGUF", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("blobs"))
		w.Write([]byte(`{
			"lastModified": "2025-05-29T12:00:00.000Z",
			"siblings": [
				{"rfilename": "README.md", "size": 1200},
				{"rfilename": "Llama-3.2-1B-Instruct-Q4_K_M.gguf", "size": 1610612736},
				{"rfilename": "Llama-3.2-1B-Instruct.gguf", "size": 2000}
			]
		}`))
	})

	rows, err := c.ListVariants(context.Background(), "bartowski/Llama-3.2-1B-Instruct-GGUF")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, api.VariantRow{Title: "Q4_K_M", Size: "1.50 GB", SizeBytes: 1610612736, Updated: "3 days ago"}, rows[0])
}

func TestHubListVariantsMergesShards(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"lastModified": "garbage",
			"siblings": [
				{"rfilename": "Q8_0/model-Q8_0-00001-of-00002.gguf", "size": 1073741824},
				{"rfilename": "model.IQ4_XS.GGUF", "size": 1024},
				{"rfilename": "Q8_0/model-Q8_0-00002-of-00002.gguf", "size": 1073741824}
			]
		}`))
	})

	rows, err := c.ListVariants(context.Background(), "org/model")
	require.NoError(t, err)
	assert.Equal(t, []api.VariantRow{
		{Title: "Q8_0", Size: "2.00 GB", SizeBytes: 2147483648, Updated: "garbage"},
		{Title: "IQ4_XS", Size: "1.00 KB", SizeBytes: 1024, Updated: "garbage"},
	}, rows)
}

func TestHubListVariantsKeepsDistinctArtifactsApart(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"lastModified": "2025-05-29T12:00:00.000Z",
			"siblings": [
				{"rfilename": "Qwen3-8B-Q4_K_M.gguf", "size": 1073741824},
				{"rfilename": "Qwen3-8B-UD-Q4_K_XL.gguf", "size": 1073741824},
				{"rfilename": "Qwen3-8B-F16.gguf", "size": 1073741824},
				{"rfilename": "mmproj-F16.gguf", "size": 1073741824},
				{"rfilename": "Qwen3-8B-Q4_0_4_4.gguf", "size": 1073741824},
				{"rfilename": "Qwen3-8B-Q4_0.gguf", "size": 1073741824}
			]
		}`))
	})

	rows, err := c.ListVariants(context.Background(), "unsloth/Qwen3-8B-GGUF")
	require.NoError(t, err)

	titles := make([]string, len(rows))
	for i, row := range rows {
		titles[i] = row.Title
		assert.Equal(t, "1.00 GB", row.Size, row.Title)
		assert.Equal(t, int64(1073741824), row.SizeBytes, row.Title)
	}
	assert.Equal(t, []string{"Q4_K_M", "Q4_K_XL", "F16", "Q4_0_4_4", "Q4_0"}, titles)
	assert.Equal(t, "hf.co/unsloth/Qwen3-8B-GGUF:Q4_K_XL", c.Reference("unsloth/Qwen3-8B-GGUF", titles[1]))
}

func TestHubListVariantsDoesNotMergeNonSplitDuplicates(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"siblings": [
				{"rfilename": "model-Q8_0.gguf", "size": 2048},
				{"rfilename": "legacy/model.Q8_0.gguf", "size": 4096},
				{"rfilename": "split/MMPROJ-model-Q8_0-00001-of-00002.gguf", "size": 1024}
			]
		}`))
	})

	rows, err := c.ListVariants(context.Background(), "org/model")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Q8_0", rows[0].Title)
	assert.Equal(t, "2.00 KB", rows[0].Size)
	assert.Equal(t, int64(2048), rows[0].SizeBytes)
}

func TestHubListVariantsNotFound(t *testing.T) {
	c := newHubServer(t, Options{}, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Repository not found"}`))
	})

	_, err := c.ListVariants(context.Background(), "org/missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestHubReference(t *testing.T) {
	c := NewHubClient(Options{})
	row := api.VariantRow{Title: "Q4_K_M"}
	assert.Equal(t, "Q4_K_M", c.Identifier("org/repo", row))
	assert.Equal(t, "hf.co/org/repo:Q4_K_M", c.Reference("org/repo", "Q4_K_M"))
}
