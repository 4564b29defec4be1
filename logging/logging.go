// Package logging builds the diagnostics logger. Player-facing messages live
// in the session log; this one records what the engine did for debugging.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing to out. An unknown level falls back to info;
// format "json" selects the JSON formatter, anything else plain text.
func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	if strings.ToLower(format) == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			DisableColors: true,
		})
	}

	log.SetOutput(out)
	return log
}

// OpenFile returns a logger appending to path, creating its directory. The
// terminal belongs to the game, so diagnostics never go to stdout. Close the
// returned file when done.
func OpenFile(path, level, format string) (*logrus.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(level, format, f), f, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	return New("panic", "text", io.Discard)
}
