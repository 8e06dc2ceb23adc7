// Package pull streams a model download from the local daemon and renders
// its progress on a single terminal line.
package pull

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/yankeexe/ollama-manager/pkg/api"
)

// ErrDownloadFailed marks a pull that the daemon aborted.
var ErrDownloadFailed = errors.New("download failed")

// DownloadError is returned when the progress stream ends with an error.
// The orchestrator has already printed it.
type DownloadError struct {
	Ref string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed downloading %s: %v", e.Ref, e.Err)
}

func (e *DownloadError) Unwrap() []error { return []error{ErrDownloadFailed, e.Err} }

// StreamEvent is one item of a pull stream: a progress update or the error
// that ended it. An event carrying Err is always the last one.
type StreamEvent struct {
	Progress api.ProgressEvent
	Err      error
}

// Fetcher starts a pull and returns its event stream. The channel is closed
// when the pull finishes.
type Fetcher interface {
	Pull(ctx context.Context, ref string) <-chan StreamEvent
}

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Orchestrator runs one pull and reports its outcome.
type Orchestrator struct {
	Fetcher Fetcher
	Sink    *Sink
	Out     io.Writer
	Log     zerolog.Logger
}

// Pull fetches ref, showing every progress event before reading the next.
// A stream error is printed with the reference and returned as *DownloadError.
func (o *Orchestrator) Pull(ctx context.Context, ref string) error {
	fmt.Fprintf(o.Out, ">>> Pulling model: %s\n", ref)

	for ev := range o.Fetcher.Pull(ctx, ref) {
		if ev.Err != nil {
			o.Sink.Clear()
			o.Log.Error().Err(ev.Err).Str("ref", ref).Int("events", o.Sink.Drawn()).Msg("pull failed")
			fmt.Fprintln(o.Out, failureStyle.Render(fmt.Sprintf("Failed downloading %s: %v", ref, ev.Err)))
			return &DownloadError{Ref: ref, Err: ev.Err}
		}
		o.Sink.Show(ev.Progress)
	}

	o.Sink.Clear()
	o.Log.Debug().Str("ref", ref).Int("events", o.Sink.Drawn()).Msg("pull finished")
	fmt.Fprintln(o.Out, successStyle.Render(fmt.Sprintf("%s model is ready for use!", ref)))
	fmt.Fprintln(o.Out, "\n>>> olm run")
	return nil
}
