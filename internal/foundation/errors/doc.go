// Package errors provides the classified error vocabulary shared by vaultblog.
//
// A ClassifiedError carries a category (config, filesystem, render, output, ...),
// a severity and a retry hint. Generation stages use the severity to decide
// whether a failure aborts the run (fatal) or is logged and skipped.
//
//	err := errors.WrapError(cause, errors.CategoryFileSystem, "source directory missing").
//		WithPath(root).
//		Fatal().
//		Build()
package errors
