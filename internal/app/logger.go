package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
)

// LogEnvVar names a file which receives a JSON copy of every log record, at debug level.
const LogEnvVar = "GDCHECK_LOG_FILE"

// setupLogger configures a logger that writes clean, human-readable logs to the console
// and, if logPath is set, structured logs to that file.
func setupLogger(stderr io.Writer, logLevel *slog.LevelVar, logPath string, useColour bool) (*slog.Logger, io.Closer, error) {
	console := newConsoleHandler(stderr, logLevel, useColour)
	if logPath == "" {
		return slog.New(console), nil, nil
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(console), nil, err
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level: slog.LevelDebug, // File always gets full debug info
	})

	return slog.New(&multiHandler{handlers: []slog.Handler{fileHandler, console}}), f, nil
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record.Clone()); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

// consoleHandler prints one line per record: a level label for warnings and errors,
// the message, error attributes, and every other attribute when debugging.
// Handlers derived with WithAttrs share the writer lock, so lines never interleave.
type consoleHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
	warn  *color.Color
	err   *color.Color
}

func newConsoleHandler(w io.Writer, level *slog.LevelVar, useColour bool) *consoleHandler {
	h := &consoleHandler{
		mu:    &sync.Mutex{},
		w:     w,
		level: level,
		warn:  color.New(color.FgYellow),
		err:   color.New(color.FgRed),
	}
	if useColour {
		h.warn.EnableColor()
		h.err.EnableColor()
	} else {
		h.warn.DisableColor()
		h.err.DisableColor()
	}
	return h
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	var buf bytes.Buffer
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(&buf, "%s %s", c.err.Sprint("Error:"), record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(&buf, "%s %s", c.warn.Sprint("Warning:"), record.Message)
	default:
		buf.WriteString(record.Message)
	}

	for _, a := range c.attrs {
		c.formatAttr(&buf, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(&buf, a)
		return true
	})
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.w.Write(buf.Bytes())
	return err
}

func (c *consoleHandler) formatAttr(buf *bytes.Buffer, a slog.Attr) {
	if a.Key == "error" || a.Key == "err" {
		fmt.Fprintf(buf, ": %v", a.Value)
	} else if c.level.Level() <= slog.LevelDebug {
		fmt.Fprintf(buf, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		mu:    c.mu,
		w:     c.w,
		level: c.level,
		attrs: append(append([]slog.Attr(nil), c.attrs...), attrs...),
		warn:  c.warn,
		err:   c.err,
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	return c
}
