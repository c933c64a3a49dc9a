package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"config", ConfigError("x"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"validation", ValidationError("x"), CategoryValidation, SeverityFatal, RetryUserAction},
		{"filesystem", FileSystemError("x"), CategoryFileSystem, SeverityError, RetryImmediate},
		{"render", RenderError("x"), CategoryRender, SeverityWarning, RetryNever},
		{"output", OutputError("x"), CategoryOutput, SeverityError, RetryImmediate},
		{"build", BuildError("x"), CategoryBuild, SeverityFatal, RetryNever},
		{"watch", WatchError("x"), CategoryWatch, SeverityFatal, RetryNever},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			assert.Equal(t, tt.category, err.Category())
			assert.Equal(t, tt.severity, err.Severity())
			assert.Equal(t, tt.retry, err.RetryStrategy())
		})
	}
}

func TestBuilder(t *testing.T) {
	denied := errors.New("permission denied")
	err := WrapError(denied, CategoryOutput, "write feed").
		Warning().
		Retryable().
		WithPath("blog/rss.xml").
		WithContext("items", 20).
		Build()

	assert.ErrorIs(t, err, denied)
	assert.Equal(t, SeverityWarning, err.Severity())
	assert.True(t, err.CanRetry())
	assert.Equal(t, "blog/rss.xml", err.Path())
	items, ok := err.Context().Get("items")
	require.True(t, ok)
	assert.Equal(t, 20, items)
	assert.Equal(t, "[output:warning] write feed (blog/rss.xml): permission denied", err.Error())
}

func TestBuilderReuse(t *testing.T) {
	b := FileSystemError("read post").WithPath("a.md")
	first := b.Build()
	second := b.WithPath("b.md").Build()

	assert.Equal(t, "a.md", first.Path())
	assert.Equal(t, "b.md", second.Path())
}

func TestDetectionThroughWrapping(t *testing.T) {
	inner := FileSystemError("source directory missing").Fatal().Build()
	wrapped := fmt.Errorf("collect: %w", inner)

	assert.True(t, IsFatal(wrapped))
	assert.True(t, HasCategory(wrapped, CategoryFileSystem))
	assert.True(t, HasSeverity(wrapped, SeverityFatal))
	assert.Equal(t, CategoryFileSystem, GetCategory(wrapped))

	plain := errors.New("plain")
	assert.False(t, IsFatal(plain))
	assert.Equal(t, CategoryInternal, GetCategory(plain))

	assert.ErrorIs(t, wrapped, FileSystemError("source directory missing").Build())
	assert.NotErrorIs(t, wrapped, ConfigError("source directory missing").Build())
}

func TestWithPathCopies(t *testing.T) {
	base := RenderError("render failed").Build()
	withPath := base.WithPath("a.md")

	assert.Empty(t, base.Path())
	assert.Equal(t, "a.md", withPath.Path())
}

func TestErrorContextMerge(t *testing.T) {
	left := ErrorContext{"key1": "value1", "shared": "original"}
	right := ErrorContext{"key2": "value2", "shared": "overridden"}

	merged := left.Merge(right)

	v, _ := merged.GetString("shared")
	assert.Equal(t, "overridden", v)
	v, _ = merged.GetString("key1")
	assert.Equal(t, "value1", v)
	v, _ = left.GetString("shared")
	assert.Equal(t, "original", v)

	_, ok := ErrorContext(nil).Get("missing")
	assert.False(t, ok)
	_, ok = ErrorContext{"n": 1}.GetString("n")
	assert.False(t, ok)
}
