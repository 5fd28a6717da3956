package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// New builds the application logger. Records are written as JSON lines to
// path; with verbose set they are also rendered on stderr.
func New(level, path string, verbose bool) (*zerolog.Logger, func() error, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level '%s': %w", level, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("can not create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("can not open log file %s: %w", path, err)
	}

	var w io.Writer = f
	if verbose {
		w = zerolog.MultiLevelWriter(f, zerolog.ConsoleWriter{Out: os.Stderr})
	}

	logger := zerolog.New(w).Level(lvl).With().Timestamp().Logger()

	return &logger, f.Close, nil
}
