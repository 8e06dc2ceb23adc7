package api

import "time"

// CatalogEntry is one model name listed by a remote catalog.
type CatalogEntry struct {
	Name string `json:"name"`
}

// VariantRow is one downloadable tag or quantization of a CatalogEntry.
// Empty strings and a nil Modalities slice mean the upstream did not provide
// the field. SizeBytes is the exact size when the upstream reports one and
// zero otherwise.
type VariantRow struct {
	Title         string   `json:"title"`
	Size          string   `json:"size,omitempty"`
	SizeBytes     int64    `json:"size_bytes,omitempty"`
	ContextWindow string   `json:"content_window,omitempty"`
	Modalities    []string `json:"modalities,omitempty"`
	Updated       string   `json:"updated,omitempty"`
	Hash          string   `json:"content_hash,omitempty"`
}

// ProgressEvent is one status update emitted while a model is pulled.
// Completed and Total are zero when the daemon omits them.
type ProgressEvent struct {
	Status    string `json:"status"`
	Digest    string `json:"digest,omitempty"`
	Completed int64  `json:"completed,omitempty"`
	Total     int64  `json:"total,omitempty"`
}

// LocalModel is a model already present in the local daemon.
type LocalModel struct {
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest,omitempty"`
	ModifiedAt time.Time `json:"modified_at"`
}
