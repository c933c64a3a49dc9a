package errors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Exit codes returned by the vaultblog binary.
const (
	ExitOK          = 0
	ExitUnknown     = 1
	ExitUsage       = 2
	ExitConfig      = 7
	ExitInternal    = 10
	ExitBuildFailed = 11
	ExitWatch       = 12
)

// CLIErrorAdapter turns errors returned by commands into a stderr line, a log
// record and an exit code.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor maps err to a process exit code. Unclassified errors exit 1.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return ExitOK
	}
	classified, ok := AsClassified(err)
	if !ok {
		return ExitUnknown
	}
	switch classified.Category() {
	case CategoryValidation:
		return ExitUsage
	case CategoryConfig:
		return ExitConfig
	case CategoryBuild, CategoryFileSystem, CategoryRender, CategoryOutput:
		return ExitBuildFailed
	case CategoryWatch:
		return ExitWatch
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitUnknown
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	classified, ok := AsClassified(err)
	if !ok {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return classified.Error()
	}
	switch classified.Category() {
	case CategoryConfig, CategoryValidation, CategoryFileSystem, CategoryNotFound:
		if path := classified.Path(); path != "" {
			return fmt.Sprintf("Error: %s (%s)", classified.Message(), path)
		}
		return "Error: " + classified.Message()
	default:
		return fmt.Sprintf("Error: %s (use -v for details)", classified.Message())
	}
}

// HandleError prints err, logs it when fatal or verbose, and exits. It
// returns without exiting when err is nil.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}
	a.log(err)
	fmt.Fprintln(os.Stderr, a.FormatError(err))
	os.Exit(a.ExitCodeFor(err))
}

func (a *CLIErrorAdapter) log(err error) {
	classified, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Command failed", "error", err)
		return
	}
	if !a.verbose && !classified.IsFatal() {
		return
	}
	level := slog.LevelError
	switch classified.Severity() {
	case SeverityWarning:
		level = slog.LevelWarn
	case SeverityInfo:
		level = slog.LevelInfo
	}
	attrs := make([]slog.Attr, 0, len(classified.Context())+2)
	attrs = append(attrs, slog.String("category", string(classified.Category())))
	for k, v := range classified.Context() {
		attrs = append(attrs, slog.Any(k, v))
	}
	if cause := classified.Cause(); cause != nil {
		attrs = append(attrs, slog.String("cause", cause.Error()))
	}
	a.logger.LogAttrs(context.Background(), level, classified.Message(), attrs...)
}
