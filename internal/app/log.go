package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const logFileName = "goodgood.log"

// ggHandler is a custom slog.Handler that formats log records as:
//
//	<timestamp>\t<level>\t<opID>\t<message>\t<key=value ...>
//
// opID correlates all lines written by one CLI invocation.
type ggHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	level slog.Leveler
	opID  string
	attrs []slog.Attr
}

func newGGHandler(w io.Writer, level slog.Leveler, opID string) *ggHandler {
	return &ggHandler{mu: &sync.Mutex{}, w: w, level: level, opID: opID}
}

func (h *ggHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *ggHandler) Handle(_ context.Context, r slog.Record) error {
	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")

	// The server logs from many goroutines; one line per write.
	buf := fmt.Appendf(nil, "%s\t%s\t%s\t%s", ts, r.Level.String(), h.opID, r.Message)
	for _, a := range h.attrs {
		buf = fmt.Appendf(buf, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		buf = fmt.Appendf(buf, "\t%s=%v", a.Key, a.Value)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf)
	return err
}

func (h *ggHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ggHandler{
		mu:    h.mu,
		w:     h.w,
		level: h.level,
		opID:  h.opID,
		attrs: append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *ggHandler) WithGroup(string) slog.Handler { return h }

// newLogger creates a structured logger that writes to both logDir/goodgood.log
// and stderr. It returns the slog.Logger, the open log file (for cleanup), and any error.
func newLogger(logDir string, level slog.Leveler, opID string) (*slog.Logger, *os.File, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}

	logPath := filepath.Join(logDir, logFileName)
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	w := io.MultiWriter(f, os.Stderr)
	return slog.New(newGGHandler(w, level, opID)), f, nil
}

// slogAdapter wraps *slog.Logger to satisfy the gg.Logger interface.
type slogAdapter struct {
	l *slog.Logger
}

func (a *slogAdapter) Debug(msg string, args ...any) { a.l.Debug(msg, args...) }
func (a *slogAdapter) Info(msg string, args ...any)  { a.l.Info(msg, args...) }
func (a *slogAdapter) Warn(msg string, args ...any)  { a.l.Warn(msg, args...) }
func (a *slogAdapter) Error(msg string, args ...any) { a.l.Error(msg, args...) }
