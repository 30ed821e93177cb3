// Package logging builds the zerolog loggers used across cachectl.
//
// Terminal-facing commands log human-readable console lines to stderr; when a
// log file is configured, output goes through a size-rotated file sink
// instead so the interactive panel never has diagnostics drawn over it.
package logging

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log rotation bounds for the file sink.
const (
	maxLogSizeMB  = 10
	maxLogBackups = 3
	maxLogAgeDays = 28
)

// Config controls logger construction.
type Config struct {
	// Level is a zerolog level name ("debug", "info", "warn", "error").
	// Unknown values fall back to info.
	Level string

	// Format selects "console" (default) or "json" encoding.
	Format string

	// File, when non-empty, routes output to a rotated log file instead of
	// stderr.
	File string
}

// Result holds the constructed logger plus enough bookkeeping for the CLI to
// report where logs went and to release the sink on shutdown.
type Result struct {
	Logger    zerolog.Logger
	UsingFile bool
	FilePath  string

	closer io.Closer
}

// Close releases the file sink, if any. Safe to call on a console-only result.
func (r *Result) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	return err
}

// New constructs the root logger for a cachectl invocation.
func New(cfg Config) Result {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	var res Result
	var out io.Writer
	switch {
	case cfg.File != "":
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
		res.UsingFile = true
		res.FilePath = cfg.File
		res.closer = rotator
		out = rotator
		if cfg.Format != "json" {
			// File logs stay machine-readable unless console was asked for
			// explicitly.
			out = zerolog.ConsoleWriter{Out: rotator, TimeFormat: time.RFC3339, NoColor: true}
		}
	case cfg.Format == "json":
		out = os.Stderr
	default:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	res.Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
	return res
}

// ComponentLogger returns a child logger tagged with a component name, e.g.
// "cli", "api", "auth", "tui".
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// WithContext stores the logger in ctx for retrieval via FromContext.
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return logger.WithContext(ctx)
}

// FromContext returns the logger stored in ctx. When none was attached the
// result is zerolog's disabled logger: library code should never log to a
// terminal it does not own, so the fallback is silence rather than stderr.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// NewOpID returns a ULID identifying one dispatched operation. Operation IDs
// correlate the dispatch, HTTP round-trip, and resolution log lines.
func NewOpID() string {
	return ulid.Make().String()
}

// EnsureDir creates the parent directory of a log file path.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o750)
}

// PrintLogPathMessage tells the user where file logs are going. Written to
// stderr so panel drawing on stdout stays clean.
func PrintLogPathMessage(w io.Writer, path string) {
	fmt.Fprintf(w, "Logs: %s\n", path)
}
