// Package logging builds the process-wide slog logger.
//
// Watch mode mirrors every line to a persistent log file in addition to the
// console; the file is opened in append mode and never truncated.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures New.
type Options struct {
	Level   slog.Level
	Format  Format
	LogFile string    // optional mirror target
	Console io.Writer // defaults to os.Stderr
}

// New builds a logger. When LogFile cannot be opened the logger still writes
// to the console and the failure is logged as a warning. The returned close
// function releases the log file and is always safe to call.
func New(opts Options) (*slog.Logger, func() error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	var (
		w       = console
		file    *os.File
		openErr error
	)
	if opts.LogFile != "" {
		file, openErr = openLogFile(opts.LogFile)
		if openErr == nil {
			w = io.MultiWriter(console, file)
		}
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}
	var h slog.Handler
	if opts.Format == FormatJSON {
		h = slog.NewJSONHandler(w, handlerOpts)
	} else {
		h = slog.NewTextHandler(w, handlerOpts)
	}
	logger := slog.New(ContextHandler{Handler: h})

	if openErr != nil {
		logger.Warn("Log file unavailable, logging to console only", logfields.Path(opts.LogFile), logfields.Error(openErr))
	}

	closeFn := func() error {
		if file == nil {
			return nil
		}
		f := file
		file = nil
		return f.Close()
	}
	return logger, closeFn
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}
