package generator

import (
	"context"
	"errors"
	"fmt"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
)

// StageName is a strongly-typed identifier for a generation stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StagePrepareOutput StageName = "prepare_output"
	StageCollect       StageName = "collect"
	StageLoadPosts     StageName = "load_posts"
	StageBuildTree     StageName = "build_tree"
	StagePurge         StageName = "purge"
	StageCopyImages    StageName = "copy_images"
	StageRenderPages   StageName = "render_pages"
	StageManifest      StageName = "manifest"
	StageRSS           StageName = "rss"
	StageSitemap       StageName = "sitemap"
)

// Stage is one step of a run.
type Stage func(ctx context.Context, rs *runState) error

// StageDef pairs a stage name with its executing function.
type StageDef struct {
	Name StageName
	Fn   Stage
}

// StageErrorKind classifies how a stage failure affects the run.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // run must abort
	StageErrorWarning  StageErrorKind = "warning"  // recorded, later stages still run
	StageErrorCanceled StageErrorKind = "canceled" // context cancellation
)

// StageError is a structured error carrying the stage and underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newWarnStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorWarning, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// classifyStageError maps a raw stage error to a StageError. Fatal classified
// errors abort the run; any other failure is stage-local.
func classifyStageError(stage StageName, err error) *StageError {
	var se *StageError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return newCanceledStageError(stage, err)
	}
	if foundation.IsFatal(err) {
		return newFatalStageError(stage, err)
	}
	return newWarnStageError(stage, err)
}
