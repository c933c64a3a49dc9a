package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultWarning  ResultLabel = "warning"
	ResultFatal    ResultLabel = "fatal"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for generation runs and the watcher.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	ObserveGenerationDuration(d time.Duration)
	IncGenerationOutcome(outcome string) // success|warning|failed|canceled
	SetPostCount(n int)
	IncWatchEvent(op string)
	IncRegeneration(trigger string) // event|resync
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveGenerationDuration(time.Duration)    {}
func (NoopRecorder) IncGenerationOutcome(string)                {}
func (NoopRecorder) SetPostCount(int)                           {}
func (NoopRecorder) IncWatchEvent(string)                       {}
func (NoopRecorder) IncRegeneration(string)                     {}
