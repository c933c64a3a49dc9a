package history

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Run statuses in a RunSummary.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
)

// RunSummary is the read model of one run, folded from its events.
type RunSummary struct {
	RunID       string
	Status      string
	Trigger     string
	StartedAt   time.Time
	CompletedAt time.Time
	Result      *RunCompleted
}

// Runs folds every event in the store into run summaries, newest first,
// returning at most limit entries (all when limit <= 0).
func Runs(ctx context.Context, store Store, limit int) ([]RunSummary, error) {
	events, err := store.Since(ctx, time.Time{})
	if err != nil {
		return nil, err
	}

	byID := map[string]*RunSummary{}
	var order []string
	for _, e := range events {
		run, ok := byID[e.RunID]
		if !ok {
			run = &RunSummary{RunID: e.RunID, Status: StatusRunning}
			byID[e.RunID] = run
			order = append(order, e.RunID)
		}
		switch e.Type {
		case EventRunStarted:
			var p RunStarted
			if err := json.Unmarshal(e.Payload, &p); err != nil {
				return nil, fmt.Errorf("decode %s for run %s: %w", e.Type, e.RunID, err)
			}
			run.Trigger = p.Trigger
			run.StartedAt = e.Timestamp
		case EventRunCompleted:
			var p RunCompleted
			if err := json.Unmarshal(e.Payload, &p); err != nil {
				return nil, fmt.Errorf("decode %s for run %s: %w", e.Type, e.RunID, err)
			}
			run.Status = StatusCompleted
			run.CompletedAt = e.Timestamp
			run.Result = &p
		}
	}

	out := make([]RunSummary, 0, len(order))
	for i := len(order) - 1; i >= 0; i-- {
		out = append(out, *byID[order[i]])
	}
	slices.SortStableFunc(out, func(a, b RunSummary) int { return b.StartedAt.Compare(a.StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
