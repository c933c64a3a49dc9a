package errors

import (
	stderrors "errors"
	"fmt"
)

// ContextPath is the context key carrying the path an error concerns.
const ContextPath = "path"

// ClassifiedError is an error with a category, a severity, a retry hint and
// structured context. Build one with NewError or WrapError.
type ClassifiedError struct {
	category ErrorCategory
	severity ErrorSeverity
	retry    RetryStrategy
	message  string
	cause    error
	context  ErrorContext
}

func (e *ClassifiedError) Error() string {
	prefix := fmt.Sprintf("[%s:%s] %s", e.category, e.severity, e.message)
	if p := e.Path(); p != "" {
		prefix += " (" + p + ")"
	}
	if e.cause != nil {
		return prefix + ": " + e.cause.Error()
	}
	return prefix
}

func (e *ClassifiedError) Unwrap() error { return e.cause }

func (e *ClassifiedError) Category() ErrorCategory      { return e.category }
func (e *ClassifiedError) Severity() ErrorSeverity      { return e.severity }
func (e *ClassifiedError) RetryStrategy() RetryStrategy { return e.retry }
func (e *ClassifiedError) Message() string              { return e.message }
func (e *ClassifiedError) Cause() error                 { return e.cause }
func (e *ClassifiedError) Context() ErrorContext        { return e.context }

// Path returns the path context entry, if any.
func (e *ClassifiedError) Path() string {
	p, _ := e.context.GetString(ContextPath)
	return p
}

// WithContext returns a copy of e with key set.
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	cp := *e
	cp.context = e.context.Merge(ErrorContext{key: value})
	return &cp
}

// WithPath returns a copy of e carrying path.
func (e *ClassifiedError) WithPath(path string) *ClassifiedError {
	return e.WithContext(ContextPath, path)
}

// Is matches another ClassifiedError with the same category and message.
func (e *ClassifiedError) Is(target error) bool {
	other, ok := target.(*ClassifiedError)
	return ok && e.category == other.category && e.message == other.message
}

// CanRetry reports whether retrying without user action may help.
func (e *ClassifiedError) CanRetry() bool {
	return e.retry == RetryImmediate || e.retry == RetryBackoff
}

// IsFatal reports whether e aborts the operation it occurred in.
func (e *ClassifiedError) IsFatal() bool { return e.severity == SeverityFatal }

// AsClassified finds the outermost ClassifiedError in err's chain.
func AsClassified(err error) (*ClassifiedError, bool) {
	var classified *ClassifiedError
	if stderrors.As(err, &classified) {
		return classified, true
	}
	return nil, false
}

// HasCategory reports whether the outermost ClassifiedError has category.
func HasCategory(err error, category ErrorCategory) bool {
	c, ok := AsClassified(err)
	return ok && c.category == category
}

// IsFatal reports whether the outermost ClassifiedError in err is fatal.
func IsFatal(err error) bool {
	c, ok := AsClassified(err)
	return ok && c.IsFatal()
}

// HasSeverity reports whether the outermost ClassifiedError has severity.
func HasSeverity(err error, severity ErrorSeverity) bool {
	c, ok := AsClassified(err)
	return ok && c.severity == severity
}

// GetCategory returns the outermost category, or CategoryInternal for
// unclassified errors.
func GetCategory(err error) ErrorCategory {
	if c, ok := AsClassified(err); ok {
		return c.category
	}
	return CategoryInternal
}
