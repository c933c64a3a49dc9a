package errors

// ErrorBuilder assembles a ClassifiedError. Builders default to
// SeverityError with no retry hint.
type ErrorBuilder struct {
	err ClassifiedError
}

// NewError starts a builder for category with a short, user-facing message.
func NewError(category ErrorCategory, message string) *ErrorBuilder {
	return &ErrorBuilder{err: ClassifiedError{
		category: category,
		severity: SeverityError,
		retry:    RetryNever,
		message:  message,
	}}
}

// WrapError starts a builder whose cause is err.
func WrapError(err error, category ErrorCategory, message string) *ErrorBuilder {
	return NewError(category, message).WithCause(err)
}

// WithCause sets the wrapped error.
func (b *ErrorBuilder) WithCause(err error) *ErrorBuilder {
	b.err.cause = err
	return b
}

// WithContext records a structured detail.
func (b *ErrorBuilder) WithContext(key string, value any) *ErrorBuilder {
	b.err.context = b.err.context.Set(key, value)
	return b
}

// WithPath records the vault or output path the error concerns.
func (b *ErrorBuilder) WithPath(path string) *ErrorBuilder {
	return b.WithContext(ContextPath, path)
}

// Fatal marks the error as one that aborts a generation run.
func (b *ErrorBuilder) Fatal() *ErrorBuilder {
	b.err.severity = SeverityFatal
	return b
}

// Warning marks the error as recorded-and-skipped.
func (b *ErrorBuilder) Warning() *ErrorBuilder {
	b.err.severity = SeverityWarning
	return b
}

// Retryable hints that retrying with backoff may succeed.
func (b *ErrorBuilder) Retryable() *ErrorBuilder {
	b.err.retry = RetryBackoff
	return b
}

// UserAction hints that the user must fix something first.
func (b *ErrorBuilder) UserAction() *ErrorBuilder {
	b.err.retry = RetryUserAction
	return b
}

// Build returns the error. The builder may be reused; later changes do not
// affect errors already built.
func (b *ErrorBuilder) Build() *ClassifiedError {
	e := b.err
	e.context = ErrorContext{}.Merge(b.err.context)
	return &e
}

// ConfigError is a fatal configuration problem the user must fix.
func ConfigError(message string) *ErrorBuilder {
	return NewError(CategoryConfig, message).Fatal().UserAction()
}

// ValidationError is a fatal invalid-argument problem the user must fix.
func ValidationError(message string) *ErrorBuilder {
	return NewError(CategoryValidation, message).Fatal().UserAction()
}

// FileSystemError concerns reading the vault or writing the output; the next
// regeneration may succeed.
func FileSystemError(message string) *ErrorBuilder {
	b := NewError(CategoryFileSystem, message)
	b.err.retry = RetryImmediate
	return b
}

// OutputError concerns one generated artifact.
func OutputError(message string) *ErrorBuilder {
	b := NewError(CategoryOutput, message)
	b.err.retry = RetryImmediate
	return b
}

// RenderError concerns one post and never stops a run.
func RenderError(message string) *ErrorBuilder {
	return NewError(CategoryRender, message).Warning()
}

// BuildError reports a failed generation run.
func BuildError(message string) *ErrorBuilder {
	return NewError(CategoryBuild, message).Fatal()
}

// WatchError reports a watch-mode failure.
func WatchError(message string) *ErrorBuilder {
	return NewError(CategoryWatch, message).Fatal()
}
