package generator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/metrics"
)

// ReportFile is the name of the persisted report inside the state directory.
const ReportFile = "build-report.json"

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeWarning  Outcome = "warning"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageCount aggregates outcomes for a stage.
type StageCount struct {
	Success  int `json:"success"`
	Warning  int `json:"warning"`
	Fatal    int `json:"fatal"`
	Canceled int `json:"canceled"`
}

// Report captures what one run did.
type Report struct {
	SchemaVersion  int
	RunID          string
	Trigger        string
	Start          time.Time
	End            time.Time
	MarkdownFiles  int
	ImageFiles     int
	Posts          int
	PagesWritten   int
	ImagesCopied   int
	PagesPurged    int
	StageDurations map[StageName]time.Duration
	StageCounts    map[StageName]StageCount
	Errors         []error // fatal or canceled; at most one aborts the run
	Warnings       []error // per-file and stage-local failures
	Changes        ChangeSummary
	Outcome        Outcome
}

func newReport(runID, trigger string, start time.Time) *Report {
	return &Report{
		SchemaVersion:  1,
		RunID:          runID,
		Trigger:        trigger,
		Start:          start,
		StageDurations: make(map[StageName]time.Duration),
		StageCounts:    make(map[StageName]StageCount),
	}
}

func (r *Report) recordStageResult(stage StageName, kind StageErrorKind, ok bool, recorder metrics.Recorder) {
	sc := r.StageCounts[stage]
	var label metrics.ResultLabel
	switch {
	case ok:
		sc.Success++
		label = metrics.ResultSuccess
	case kind == StageErrorWarning:
		sc.Warning++
		label = metrics.ResultWarning
	case kind == StageErrorCanceled:
		sc.Canceled++
		label = metrics.ResultCanceled
	default:
		sc.Fatal++
		label = metrics.ResultFatal
	}
	r.StageCounts[stage] = sc
	recorder.IncStageResult(string(stage), label)
}

// deriveOutcome sets Outcome from recorded errors and warnings.
func (r *Report) deriveOutcome() {
	for _, err := range r.Errors {
		if se, ok := err.(*StageError); ok && se.Kind == StageErrorCanceled {
			r.Outcome = OutcomeCanceled
			return
		}
	}
	switch {
	case len(r.Errors) > 0:
		r.Outcome = OutcomeFailed
	case len(r.Warnings) > 0:
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("posts=%d pages=%d images=%d purged=%d duration=%s errors=%d warnings=%d added=%d changed=%d removed=%d outcome=%s",
		r.Posts, r.PagesWritten, r.ImagesCopied, r.PagesPurged, r.Duration().Truncate(time.Millisecond),
		len(r.Errors), len(r.Warnings), r.Changes.Added, r.Changes.Changed, r.Changes.Removed, r.Outcome)
}

type reportJSON struct {
	SchemaVersion    int                   `json:"schema_version"`
	RunID            string                `json:"run_id"`
	Trigger          string                `json:"trigger,omitempty"`
	Start            time.Time             `json:"start"`
	End              time.Time             `json:"end"`
	DurationMS       int64                 `json:"duration_ms"`
	MarkdownFiles    int                   `json:"markdown_files"`
	ImageFiles       int                   `json:"image_files"`
	Posts            int                   `json:"posts"`
	PagesWritten     int                   `json:"pages_written"`
	ImagesCopied     int                   `json:"images_copied"`
	PagesPurged      int                   `json:"pages_purged"`
	StageDurationsMS map[string]int64      `json:"stage_durations_ms"`
	StageCounts      map[string]StageCount `json:"stage_counts"`
	Errors           []string              `json:"errors"`
	Warnings         []string              `json:"warnings"`
	Changes          ChangeSummary         `json:"changes"`
	Outcome          Outcome               `json:"outcome"`
}

func (r *Report) serializable() reportJSON {
	out := reportJSON{
		SchemaVersion:    r.SchemaVersion,
		RunID:            r.RunID,
		Trigger:          r.Trigger,
		Start:            r.Start,
		End:              r.End,
		DurationMS:       r.Duration().Milliseconds(),
		MarkdownFiles:    r.MarkdownFiles,
		ImageFiles:       r.ImageFiles,
		Posts:            r.Posts,
		PagesWritten:     r.PagesWritten,
		ImagesCopied:     r.ImagesCopied,
		PagesPurged:      r.PagesPurged,
		StageDurationsMS: make(map[string]int64, len(r.StageDurations)),
		StageCounts:      make(map[string]StageCount, len(r.StageCounts)),
		Errors:           errorStrings(r.Errors),
		Warnings:         errorStrings(r.Warnings),
		Changes:          r.Changes,
		Outcome:          r.Outcome,
	}
	for k, v := range r.StageDurations {
		out.StageDurationsMS[string(k)] = v.Milliseconds()
	}
	for k, v := range r.StageCounts {
		out.StageCounts[string(k)] = v
	}
	return out
}

func errorStrings(errs []error) []string {
	out := make([]string, 0, len(errs))
	for _, err := range errs {
		out = append(out, err.Error())
	}
	return out
}

// Persist writes build-report.json atomically into dir. Best effort: the
// caller logs a failure but it never changes the run outcome.
func (r *Report) Persist(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure state dir for report: %w", err)
	}
	data, err := json.MarshalIndent(r.serializable(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	path := filepath.Join(dir, ReportFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp report json: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename report json: %w", err)
	}
	return nil
}
