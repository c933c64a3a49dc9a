package collect

import "errors"

var (
	// ErrRootMissing indicates the source directory does not exist.
	ErrRootMissing = errors.New("source directory not found")

	// ErrRootNotDir indicates the source path exists but is not a directory.
	ErrRootNotDir = errors.New("source path is not a directory")

	// ErrDirUnreadable indicates a subdirectory could not be listed; its subtree is skipped.
	ErrDirUnreadable = errors.New("directory unreadable")

	// ErrInvalidPattern indicates an exclusion pattern failed to compile.
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
)

// PathError reports a recoverable failure tied to one path.
type PathError struct {
	Path string
	Err  error
}

func (e *PathError) Error() string { return e.Path + ": " + e.Err.Error() }

func (e *PathError) Unwrap() error { return e.Err }
