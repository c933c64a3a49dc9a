package watch

import (
	"context"
	"sync"
	"time"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
)

// State is the debouncer's externally visible state.
type State int

const (
	StateIdle State = iota
	StateScheduled
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateRunning:
		return "running"
	default:
		return "idle"
	}
}

// RunFunc performs one regeneration.
type RunFunc func(ctx context.Context, trigger string)

// Debouncer coalesces bursts of triggers into single runs.
//
// Every Trigger re-arms one timer; nothing queues behind it. When the timer
// fires while a run is in progress, exactly one follow-up run starts after
// the current one finishes. Runs never overlap.
type Debouncer struct {
	delay time.Duration
	run   RunFunc
	ctx   context.Context

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64 // invalidates timers that fired after being replaced
	trigger string
	running bool
	pending bool
	closed  bool
	wg      sync.WaitGroup
}

// NewDebouncer returns a Debouncer that calls run with ctx once delay has
// passed without another Trigger.
func NewDebouncer(ctx context.Context, delay time.Duration, run RunFunc) (*Debouncer, error) {
	if delay <= 0 {
		return nil, foundation.ValidationError("debounce delay must be > 0").Build()
	}
	if run == nil {
		return nil, foundation.ValidationError("run function is required").Build()
	}
	return &Debouncer{delay: delay, run: run, ctx: ctx}, nil
}

// Trigger cancels any pending timer and starts a fresh one.
func (d *Debouncer) Trigger(trigger string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.trigger = trigger
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// State reports what the debouncer is doing right now.
func (d *Debouncer) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch {
	case d.running:
		return StateRunning
	case d.timer != nil:
		return StateScheduled
	default:
		return StateIdle
	}
}

// Close cancels any pending timer and waits for an in-flight run. No run
// starts after Close returns.
func (d *Debouncer) Close() {
	d.mu.Lock()
	d.closed = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mu.Unlock()
	d.wg.Wait()
}

func (d *Debouncer) fire(seq uint64) {
	d.mu.Lock()
	if d.closed || seq != d.seq {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	if d.running {
		d.pending = true
		d.mu.Unlock()
		return
	}
	d.running = true
	trigger := d.trigger
	d.wg.Add(1)
	d.mu.Unlock()

	defer d.wg.Done()
	for {
		d.run(d.ctx, trigger)

		d.mu.Lock()
		if !d.pending || d.closed {
			d.running = false
			d.mu.Unlock()
			return
		}
		d.pending = false
		trigger = d.trigger
		d.mu.Unlock()
	}
}
