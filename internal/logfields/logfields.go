package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeySlug       = "slug"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyTitle      = "title"
	KeyCount      = "count"
	KeyOp         = "op"
	KeyOutcome    = "outcome"
	KeyState      = "state"
	KeySubject    = "subject"
	KeyAddr       = "addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Slug(s string) slog.Attr         { return slog.String(KeySlug, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func File(f string) slog.Attr         { return slog.String(KeyFile, f) }
func Title(t string) slog.Attr        { return slog.String(KeyTitle, t) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Op(op string) slog.Attr          { return slog.String(KeyOp, op) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func State(s string) slog.Attr        { return slog.String(KeyState, s) }
func Subject(s string) slog.Attr      { return slog.String(KeySubject, s) }
func Addr(a string) slog.Attr         { return slog.String(KeyAddr, a) }
func Since(start time.Time) slog.Attr {
	return DurationMS(float64(time.Since(start).Microseconds()) / 1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
