package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/lmittmann/tint"
)

// Format represents the log file format
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Config selects the log outputs. A zero Config discards everything.
type Config struct {
	// Console receives human-readable logs (nil disables console output)
	Console      io.Writer
	ConsoleLevel Level
	Color        bool

	// File is the log file path (empty disables file output)
	File       string
	FileFormat Format
	FileLevel  Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
}

// SlogLogger implements Logger on top of log/slog
type SlogLogger struct {
	logger  *slog.Logger
	closers []io.Closer
}

// New creates a logger writing to the outputs enabled in cfg
func New(cfg Config) (*SlogLogger, error) {
	var handlers []slog.Handler
	var closers []io.Closer

	if cfg.Console != nil {
		handlers = append(handlers, tint.NewHandler(cfg.Console, &tint.Options{
			Level:      cfg.ConsoleLevel,
			TimeFormat: time.Kitchen,
			NoColor:    !cfg.Color,
		}))
	}

	if cfg.File != "" {
		file, err := openRotatingFile(cfg.File, cfg.MaxSize, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		closers = append(closers, file)

		opts := &slog.HandlerOptions{Level: cfg.FileLevel}
		if cfg.FileFormat == FormatJSON {
			handlers = append(handlers, slog.NewJSONHandler(file, opts))
		} else {
			handlers = append(handlers, slog.NewTextHandler(file, opts))
		}
	}

	var handler slog.Handler
	switch len(handlers) {
	case 0:
		handler = slog.DiscardHandler
	case 1:
		handler = handlers[0]
	default:
		handler = newMultiHandler(handlers...)
	}

	return &SlogLogger{logger: slog.New(handler), closers: closers}, nil
}

// Discard returns a logger that drops every record
func Discard() *SlogLogger {
	return &SlogLogger{logger: slog.New(slog.DiscardHandler)}
}

// Debug logs a debug message
func (l *SlogLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, DebugLevel, msg, attrs(fields)...)
}

// Info logs an info message
func (l *SlogLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, InfoLevel, msg, attrs(fields)...)
}

// Warn logs a warning message
func (l *SlogLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.logger.LogAttrs(ctx, WarnLevel, msg, attrs(fields)...)
}

// Error logs an error message
func (l *SlogLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	a := attrs(fields)
	if err != nil {
		a = append(a, slog.String("error", err.Error()))
	}
	l.logger.LogAttrs(ctx, ErrorLevel, msg, a...)
}

// WithFields returns a logger with additional fields
func (l *SlogLogger) WithFields(fields Fields) Logger {
	args := make([]any, 0, len(fields))
	for _, a := range attrs(fields) {
		args = append(args, a)
	}
	// The derived logger shares outputs; only the parent closes them.
	return &SlogLogger{logger: l.logger.With(args...)}
}

// Close flushes and closes any log files
func (l *SlogLogger) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close log output: %w", err))
		}
	}
	l.closers = nil
	return errors.Join(errs...)
}

// attrs converts fields to attributes in key order
func attrs(fields Fields) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}
	out := make([]slog.Attr, 0, len(fields))
	for _, k := range slices.Sorted(maps.Keys(fields)) {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}
