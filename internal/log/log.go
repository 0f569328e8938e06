// Package log provides the leveled logger every unitctl component receives.
//
// Diagnostics always go to stderr; stdout belongs to command output.
package log

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger defines the interface for logging operations.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Options selects how a logger renders records.
type Options struct {
	// Verbose lowers the threshold from warnings to debug records.
	Verbose bool
	// JSON emits one JSON object per record instead of key=value text.
	JSON bool
	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// SlogAdapter wraps slog.Logger to implement our Logger interface.
type SlogAdapter struct {
	logger *slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) {
	s.logger.Debug(msg, args...)
}

// Info logs an info message.
func (s *SlogAdapter) Info(msg string, args ...any) {
	s.logger.Info(msg, args...)
}

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) {
	s.logger.Warn(msg, args...)
}

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) {
	s.logger.Error(msg, args...)
}

// With returns a logger that always attaches the given key/value pairs.
func (s *SlogAdapter) With(args ...any) Logger {
	return &SlogAdapter{logger: s.logger.With(args...)}
}

// New builds a logger from opts.
func New(opts Options) Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	handlerOpts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opts.JSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return &SlogAdapter{logger: slog.New(handler)}
}

// NewLogger creates a text logger on stderr with the specified verbosity.
func NewLogger(verbose bool) Logger {
	return New(Options{Verbose: verbose})
}

// NewLoggerWithWriter creates a text logger writing to w.
func NewLoggerWithWriter(w io.Writer, verbose bool) Logger {
	return New(Options{Verbose: verbose, Writer: w})
}

// Nop returns a logger that discards everything.
func Nop() Logger {
	return &SlogAdapter{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// NewSlogAdapter creates a Logger from an slog.Logger.
func NewSlogAdapter(slogLogger *slog.Logger) Logger {
	return &SlogAdapter{logger: slogLogger}
}

var (
	mu            sync.Mutex
	defaultLogger Logger
)

// GetLogger returns the process-wide logger, creating a quiet one on first use.
func GetLogger() Logger {
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = NewLogger(false)
	}
	return defaultLogger
}

// Init replaces the process-wide logger. The CLI calls it once the
// configuration is known.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = New(opts)
}
