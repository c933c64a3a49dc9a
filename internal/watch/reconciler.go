// Package watch keeps the generated blog in sync with the vault.
//
// A Reconciler runs one full generation, then watches every non-excluded
// directory of the source tree and schedules a debounced regeneration for
// each qualifying change.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/generator"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/metrics"
	"git.home.luguber.info/inful/vaultblog/internal/notify"
)

// Generator runs one full generation.
type Generator interface {
	Generate(ctx context.Context, trigger string) *generator.Result
}

// Options configures a Reconciler.
type Options struct {
	Source    string
	Output    string
	Filter    collect.Filter
	Debounce  time.Duration
	Resync    time.Duration // zero disables periodic resync
	Recorder  metrics.Recorder
	Publisher notify.Publisher
}

// Reconciler owns the watcher, the debouncer and the optional resync schedule.
type Reconciler struct {
	gen       Generator
	source    string
	output    string
	filter    collect.Filter
	debounce  time.Duration
	resync    time.Duration
	recorder  metrics.Recorder
	publisher notify.Publisher

	ready     chan struct{}
	readyOnce sync.Once

	mu      sync.Mutex
	watched map[string]struct{}
	last    *generator.Result
}

// New validates opts and resolves the watched paths.
func New(gen Generator, opts Options) (*Reconciler, error) {
	if gen == nil || opts.Filter == nil {
		return nil, foundation.ValidationError("generator and filter are required").Build()
	}
	source, err := filepath.Abs(opts.Source)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryWatch, "resolve source directory").
			WithPath(opts.Source).
			Build()
	}
	output, err := filepath.Abs(opts.Output)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryWatch, "resolve output directory").
			WithPath(opts.Output).
			Build()
	}
	r := &Reconciler{
		gen:       gen,
		source:    source,
		output:    output,
		filter:    opts.Filter,
		debounce:  opts.Debounce,
		resync:    opts.Resync,
		recorder:  opts.Recorder,
		publisher: opts.Publisher,
		watched:   make(map[string]struct{}),
		ready:     make(chan struct{}),
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}
	if r.publisher == nil {
		r.publisher = notify.Nop{}
	}
	return r, nil
}

// Run generates once, then watches until ctx is canceled. A generation in
// progress at shutdown is allowed to finish so the output is never left
// purged without its pages.
func (r *Reconciler) Run(ctx context.Context) error {
	runCtx := context.WithoutCancel(ctx)
	r.regenerate(runCtx, generator.TriggerStartup)
	if ctx.Err() != nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return foundation.WrapError(err, foundation.CategoryWatch, "create filesystem watcher").Build()
	}
	defer func() { _ = watcher.Close() }()
	if err := r.addRecursive(watcher, r.source); err != nil {
		return err
	}

	debouncer, err := NewDebouncer(runCtx, r.debounce, r.regenerate)
	if err != nil {
		return err
	}
	defer debouncer.Close()

	if r.resync > 0 {
		resyncer, err := NewResyncer(r.resync, func() { debouncer.Trigger(generator.TriggerResync) })
		if err != nil {
			return foundation.WrapError(err, foundation.CategoryWatch, "schedule resync").Build()
		}
		resyncer.Start()
		defer func() {
			if err := resyncer.Stop(); err != nil {
				slog.Warn("Failed to stop resync scheduler", logfields.Error(err))
			}
		}()
	}

	r.readyOnce.Do(func() { close(r.ready) })
	slog.Info("Watching for changes",
		logfields.Path(r.source),
		slog.Int("directories", r.watchedCount()),
		slog.Duration("debounce", r.debounce))

	for {
		select {
		case <-ctx.Done():
			slog.Info("Stopping watcher", logfields.State(debouncer.State().String()))
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if r.handleEvent(watcher, ev) {
				debouncer.Trigger(generator.TriggerEvent)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// Ready is closed once the initial generation has finished and the source
// tree is being watched.
func (r *Reconciler) Ready() <-chan struct{} { return r.ready }

// Last returns the most recent generation result.
func (r *Reconciler) Last() *generator.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

func (r *Reconciler) regenerate(ctx context.Context, trigger string) {
	r.recorder.IncRegeneration(trigger)
	res := r.gen.Generate(ctx, trigger)

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	msg := notify.Completed{
		RunID:      res.RunID,
		Success:    res.Success,
		PostCount:  res.PostCount,
		ErrorCount: len(res.Errors),
		FinishedAt: time.Now().UTC(),
	}
	if err := r.publisher.Publish(ctx, msg); err != nil {
		slog.Warn("Failed to publish generation event", logfields.RunID(res.RunID), logfields.Error(err))
	}
}

// handleEvent updates the watch set and reports whether ev should schedule a
// regeneration.
func (r *Reconciler) handleEvent(w *fsnotify.Watcher, ev fsnotify.Event) bool {
	path := filepath.Clean(ev.Name)
	if r.ignored(path) {
		return false
	}

	switch {
	case ev.Has(fsnotify.Create):
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := r.addRecursive(w, path); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(path), logfields.Error(err))
			}
			r.observe(ev)
			return true
		}
	case ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename):
		if r.forget(path) {
			r.observe(ev)
			return true
		}
	case !ev.Has(fsnotify.Write):
		return false
	}

	name := filepath.Base(path)
	if !r.filter.IsMarkdown(name) && !r.filter.IsImage(name) {
		return false
	}
	r.observe(ev)
	return true
}

// ignored reports whether path is outside the source tree, inside the output
// tree, or below an excluded name.
func (r *Reconciler) ignored(path string) bool {
	if within(r.output, path) {
		return true
	}
	rel, err := filepath.Rel(r.source, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return true
	}
	parts := strings.Split(rel, string(filepath.Separator))
	for _, dir := range parts[:len(parts)-1] {
		if r.filter.IsExcludedDir(dir) {
			return true
		}
	}
	// The leaf may be a file or a directory; either exclusion applies.
	leaf := parts[len(parts)-1]
	return r.filter.IsExcludedFile(leaf) || r.filter.IsExcludedDir(leaf)
}

func (r *Reconciler) observe(ev fsnotify.Event) {
	op := opName(ev.Op)
	r.recorder.IncWatchEvent(op)
	slog.Debug("Change detected", logfields.Path(ev.Name), logfields.Op(op))
}

func (r *Reconciler) addRecursive(w *fsnotify.Watcher, root string) error {
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			slog.Warn("Cannot watch path", logfields.Path(path), logfields.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != r.source && r.ignored(path) {
			return fs.SkipDir
		}
		if err := w.Add(path); err != nil {
			slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			return nil
		}
		r.mu.Lock()
		r.watched[path] = struct{}{}
		r.mu.Unlock()
		return nil
	})
	if err != nil {
		return foundation.WrapError(err, foundation.CategoryWatch, "watch source directory").
			WithPath(root).
			Build()
	}
	return nil
}

// forget drops path and everything below it from the watch set, reporting
// whether path was a watched directory.
func (r *Reconciler) forget(path string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, found := r.watched[path]
	for dir := range r.watched {
		if within(path, dir) {
			delete(r.watched, dir)
		}
	}
	return found
}

func (r *Reconciler) watchedCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.watched)
}

func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel))
}

func opName(op fsnotify.Op) string {
	switch {
	case op.Has(fsnotify.Create):
		return "create"
	case op.Has(fsnotify.Remove):
		return "remove"
	case op.Has(fsnotify.Rename):
		return "rename"
	case op.Has(fsnotify.Write):
		return "write"
	default:
		return "other"
	}
}
