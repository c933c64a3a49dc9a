package history

import (
	"encoding/json"
	"time"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
)

// EventType names a run event.
type EventType string

const (
	EventRunStarted   EventType = "GenerationStarted"
	EventRunCompleted EventType = "GenerationCompleted"
)

// Event is one row of the log. Payload is the JSON encoding of RunStarted
// or RunCompleted.
type Event struct {
	Seq       int64
	RunID     string
	Type      EventType
	Timestamp time.Time
	Payload   []byte
}

// RunStarted is the payload of EventRunStarted.
type RunStarted struct {
	Trigger string `json:"trigger"` // cli|startup|event|resync
	Source  string `json:"source"`
	Output  string `json:"output"`
}

// RunCompleted is the payload of EventRunCompleted.
type RunCompleted struct {
	Outcome    string `json:"outcome"`
	Success    bool   `json:"success"`
	PostCount  int    `json:"post_count"`
	ErrorCount int    `json:"error_count"`
	DurationMS int64  `json:"duration_ms"`
	Added      int    `json:"added"`
	Changed    int    `json:"changed"`
	Removed    int    `json:"removed"`
}

// NewRunStarted builds the start event of a run.
func NewRunStarted(runID string, at time.Time, p RunStarted) (Event, error) {
	return newEvent(runID, EventRunStarted, at, p)
}

// NewRunCompleted builds the completion event of a run.
func NewRunCompleted(runID string, at time.Time, p RunCompleted) (Event, error) {
	return newEvent(runID, EventRunCompleted, at, p)
}

func newEvent(runID string, t EventType, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, foundation.WrapError(err, foundation.CategoryHistory, "marshal event payload").
			WithContext("run_id", runID).
			WithContext("event_type", string(t)).
			Build()
	}
	return Event{RunID: runID, Type: t, Timestamp: at, Payload: data}, nil
}
