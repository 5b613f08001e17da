// Package logger wraps log/slog with the plain-text, single-line
// handler the rest of the module expects: a timestamp, a level, a
// message, and any attributes, one line per record, written to
// stderr and optionally mirrored to a second sink (the teacher's
// rcornwell-S370/util/logger.LogHandler writes every record to an
// optional log file and, independently, to stderr when running at
// debug level or above; this handler keeps that dual-sink shape).
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Handler is a slog.Handler that renders records as plain text lines.
// Unlike slog.TextHandler it does not key=value quote every attr,
// matching the terser style the CLI's --trace output wants.
type Handler struct {
	out    io.Writer
	mirror io.Writer // optional second sink; nil means none
	mu     *sync.Mutex
	level  slog.Leveler
	attrs  []slog.Attr
}

// New builds a Handler writing to out, filtering below level, and
// additionally mirroring every record to mirror when it is non-nil.
func New(out io.Writer, level slog.Leveler, mirror io.Writer) *Handler {
	if level == nil {
		level = slog.LevelInfo
	}
	return &Handler{out: out, mirror: mirror, mu: &sync.Mutex{}, level: level}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{
		out:    h.out,
		mirror: h.mirror,
		mu:     h.mu,
		level:  h.level,
		attrs:  append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

// WithGroup implements slog.Handler. Groups are not supported; the
// module never nests attributes, so the group name is dropped.
func (h *Handler) WithGroup(string) slog.Handler {
	return h
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Time.Format(time.TimeOnly))
	b.WriteByte(' ')
	b.WriteString(r.Level.String())
	b.WriteByte(' ')
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	b.WriteByte('\n')
	line := b.String()

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, line)
	if h.mirror != nil {
		if _, mirrErr := io.WriteString(h.mirror, line); err == nil {
			err = mirrErr
		}
	}
	return err
}

var _ slog.Handler = &Handler{}

// NewLogger builds a *slog.Logger writing to out at levelName, and
// additionally mirroring every record to mirror when it is non-nil
// (the um run --log <file> flag). Level "trace" is accepted as an
// alias for TraceLevel, one notch below Debug, used by the run
// --trace flag to log every instruction. Because TraceLevel is below
// Debug, a trace-level logger also emits every debug record.
func NewLogger(out io.Writer, levelName string, mirror io.Writer) *slog.Logger {
	return slog.New(New(out, parseLevel(levelName), mirror))
}

// TraceLevel sits below slog.LevelDebug so --trace output can be
// filtered out independently of ordinary debug logging.
const TraceLevel = slog.LevelDebug - 4

func parseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "trace":
		return TraceLevel
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
