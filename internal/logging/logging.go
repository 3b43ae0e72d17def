// Package logging builds the zerolog loggers used by the cuberun commands.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the named level, tagged with a fresh
// session ID. Output is human-readable when w is a terminal and JSON otherwise.
func New(w io.Writer, level string) (zerolog.Logger, string, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), "", fmt.Errorf("log level %q: %w", level, err)
	}

	if isTerminal(w) {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}

	session := uuid.NewString()
	logger := zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("session", session).
		Logger()
	return logger, session, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
