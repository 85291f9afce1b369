// Package logging builds the program logger. The TUI owns the terminal, so
// logs go to a file when one is configured and to stderr otherwise.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Options selects the level and destination.
type Options struct {
	Level  string
	File   string    // empty means Writer
	Writer io.Writer // defaults to os.Stderr
}

// New returns a logger and a close func for the underlying file.
func New(opt Options) (*log.Logger, func() error, error) {
	level := log.InfoLevel
	if opt.Level != "" {
		lv, err := log.ParseLevel(opt.Level)
		if err != nil {
			return nil, nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}

	w := opt.Writer
	if w == nil {
		w = os.Stderr
	}
	closer := func() error { return nil }
	if opt.File != "" {
		if err := os.MkdirAll(filepath.Dir(opt.File), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(opt.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}

	return NewWriter(w, level), closer, nil
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          "todo",
		ReportTimestamp: true,
	})
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
