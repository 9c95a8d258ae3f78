// Package obs provides shared structured logging for all subsystems.
package obs

import (
	"io"
	"os"

	"github.com/decred/slog"
)

// Backend wraps a slog.Backend and hands out per-subsystem loggers,
// each tagged with its own subsystem name.
type Backend struct {
	backend slog.Backend
	level   slog.Level
}

// NewBackend builds a logging backend writing to w (os.Stdout if nil) at
// the given level.
func NewBackend(w io.Writer, level slog.Level) *Backend {
	if w == nil {
		w = os.Stdout
	}
	return &Backend{
		backend: slog.NewBackend(w),
		level:   level,
	}
}

// Logger returns a named logger for subsystem (e.g. "ORCH", "RULES").
func (b *Backend) Logger(subsystem string) slog.Logger {
	l := b.backend.Logger(subsystem)
	l.SetLevel(b.level)
	return l
}

// ParseLevel parses a level name, defaulting to Info on failure.
func ParseLevel(name string) slog.Level {
	lvl, ok := slog.LevelFromString(name)
	if !ok {
		return slog.LevelInfo
	}
	return lvl
}
