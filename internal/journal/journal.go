// Package journal renders log records the way systemd expects from a
// generator: one line per record on stderr, prefixed with an sd-daemon
// kernel priority marker such as <6>, which journald turns back into a
// leveled journal entry.
package journal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// Kernel-style priorities used in the sd-daemon prefix.
const (
	PriErr     = 3
	PriWarning = 4
	PriInfo    = 6
	PriDebug   = 7
)

// Priority maps an slog level to its kernel priority number.
func Priority(level slog.Level) int {
	switch {
	case level >= slog.LevelError:
		return PriErr
	case level >= slog.LevelWarn:
		return PriWarning
	case level >= slog.LevelInfo:
		return PriInfo
	default:
		return PriDebug
	}
}

// Handler is an slog.Handler emitting sd-daemon prefixed lines.
type Handler struct {
	mu    *sync.Mutex
	out   io.Writer
	tag   string // process tag prepended to every line
	level slog.Level
	attrs []slog.Attr
}

// NewHandler creates a Handler writing to out. Records below level are
// discarded. tag names the emitting process, e.g. "multiquadlet-generator".
func NewHandler(out io.Writer, tag string, level slog.Level) *Handler {
	return &Handler{
		mu:    &sync.Mutex{},
		out:   out,
		tag:   tag,
		level: level,
	}
}

// Enabled reports whether records at the given level are emitted.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle writes the record as a single prefixed line.
func (h *Handler) Handle(_ context.Context, rec slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "<%d>%s: %s", Priority(rec.Level), h.tag, rec.Message)
	for _, attr := range h.attrs {
		writeAttr(&b, attr)
	}
	rec.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, attr)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

// WithAttrs returns a handler that includes attrs on every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup is accepted but groups are flattened; generator log lines are
// read by humans in the journal, not parsed.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

func writeAttr(b *strings.Builder, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	fmt.Fprintf(b, " %s=%v", attr.Key, attr.Value)
}
