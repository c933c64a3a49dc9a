package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("bad config").Build(), 7},
		{"filesystem", FileSystemError("source missing").Fatal().Build(), ExitBuildFailed},
		{"build", BuildError("generation failed").Build(), ExitBuildFailed},
		{"watch", WatchError("watcher died").Build(), 12},
		{"internal", NewError(CategoryInternal, "bug").Build(), 10},
		{"wrapped config", fmt.Errorf("load: %w", ConfigError("bad").Build()), 7},
		{"unclassified", errors.New("unknown"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	secret := BuildError("generation failed").WithCause(errors.New("secret detail")).Build()

	assert.Empty(t, quiet.FormatError(nil))
	assert.Equal(t, "Error: generation failed (use -v for details)", quiet.FormatError(secret))
	assert.Equal(t, "Error: config file not found (vaultblog.yaml)",
		quiet.FormatError(ConfigError("config file not found").WithPath("vaultblog.yaml").Build()))
	assert.Equal(t, "Error: unknown", quiet.FormatError(errors.New("unknown")))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	assert.Contains(t, verbose.FormatError(secret), "secret detail")
}
