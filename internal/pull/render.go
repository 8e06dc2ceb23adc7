package pull

import (
	"fmt"
	"io"
	"strings"

	"github.com/yankeexe/ollama-manager/internal/format"
	"github.com/yankeexe/ollama-manager/pkg/api"
)

// DefaultWidth is the width the status line is padded to so a shorter line
// fully overwrites a longer one.
const DefaultWidth = 100

// Render turns one progress event into a status line.
func Render(ev api.ProgressEvent) string {
	return fmt.Sprintf("Status: %s | Completed: %s/%s", ev.Status, format.Bytes(ev.Completed), format.Bytes(ev.Total))
}

// Sink draws status lines. In a terminal it rewrites one line in place;
// otherwise it prints a line each time the status text changes.
type Sink struct {
	w           io.Writer
	width       int
	interactive bool
	lastStatus  string
	drawn       int
}

// NewSink creates a Sink writing to w.
func NewSink(w io.Writer, width int, interactive bool) *Sink {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Sink{w: w, width: width, interactive: interactive}
}

// Show draws ev.
func (s *Sink) Show(ev api.ProgressEvent) {
	s.drawn++
	if s.interactive {
		fmt.Fprintf(s.w, "\r%-*s", s.width, Render(ev))
		return
	}
	if ev.Status != s.lastStatus {
		s.lastStatus = ev.Status
		fmt.Fprintln(s.w, Render(ev))
	}
}

// Clear blanks the status line.
func (s *Sink) Clear() {
	if s.interactive && s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Drawn reports how many events were shown.
func (s *Sink) Drawn() int { return s.drawn }
