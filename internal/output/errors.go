package output

import "errors"

var (
	// ErrOutputUncreatable means the output or site root could not be created.
	ErrOutputUncreatable = errors.New("output directory cannot be created")
	// ErrManifestInvalid means the manifest failed its schema check and was not written.
	ErrManifestInvalid = errors.New("manifest does not match schema")
)
