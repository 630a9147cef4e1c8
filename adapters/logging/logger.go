package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"kalpha/ports"
)

// New builds a structured logger writing to w. format is "text" or "json";
// level is one of debug, info, warn, error.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unsupported log format %q (use text or json)", format)
	}
}

// ParseLevel maps a level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unsupported log level %q", level)
	}
}

// Nop returns a diagnostics sink that drops everything
func Nop() ports.Diagnostics {
	return nopSink{}
}

type nopSink struct{}

func (nopSink) Debug(string, ...any) {}
func (nopSink) Info(string, ...any)  {}
func (nopSink) Warn(string, ...any)  {}

// Recorder captures diagnostics in memory. Useful in tests and for surfacing
// warnings alongside a result.
type Recorder struct {
	mu      sync.Mutex
	Entries []Entry
}

// Entry is one recorded diagnostic
type Entry struct {
	Level   slog.Level
	Message string
	Args    []any
}

func (r *Recorder) Debug(msg string, args ...any) { r.add(slog.LevelDebug, msg, args) }
func (r *Recorder) Info(msg string, args ...any)  { r.add(slog.LevelInfo, msg, args) }
func (r *Recorder) Warn(msg string, args ...any)  { r.add(slog.LevelWarn, msg, args) }

func (r *Recorder) add(level slog.Level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, Entry{Level: level, Message: msg, Args: args})
}

// Messages returns recorded messages at or above level
func (r *Recorder) Messages(level slog.Level) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.Entries {
		if e.Level >= level {
			out = append(out, e.Message)
		}
	}
	return out
}
