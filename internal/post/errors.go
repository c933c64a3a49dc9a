package post

import "errors"

var (
	// ErrEmptySlug indicates a path that encodes to an empty slug.
	ErrEmptySlug = errors.New("path produces an empty slug")

	// ErrEmptySegment indicates a slug with an empty folder or leaf segment.
	ErrEmptySegment = errors.New("slug has an empty path segment")

	// ErrSlugCollision indicates a later file mapping onto an existing slug.
	ErrSlugCollision = errors.New("slug already taken")

	// ErrFileReadFailed indicates the source file could not be read.
	ErrFileReadFailed = errors.New("source file read failed")

	// ErrHidden marks posts excluded by draft/publish front matter. It is not a failure.
	ErrHidden = errors.New("post is not published")
)
