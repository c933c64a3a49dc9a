// Package generator sequences a full generation run: collect the vault,
// build the post repository and folder tree, then sync the output bundle.
//
// Every run rebuilds its state from scratch. Runs on one Generator are
// serialized; per-file failures are recorded as warnings and only structural
// failures (missing source, uncreatable output, cancellation) fail the run.
package generator

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	"git.home.luguber.info/inful/vaultblog/internal/config"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/history"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/logging"
	"git.home.luguber.info/inful/vaultblog/internal/metrics"
	"git.home.luguber.info/inful/vaultblog/internal/output"
	"git.home.luguber.info/inful/vaultblog/internal/post"
	"git.home.luguber.info/inful/vaultblog/internal/render"
)

// Run triggers recorded in reports and history.
const (
	TriggerCLI     = "cli"
	TriggerStartup = "startup"
	TriggerEvent   = "event"
	TriggerResync  = "resync"
)

// Result is the outcome of one run.
type Result struct {
	Success   bool
	PostCount int
	Errors    []error // fatal errors first, then per-file and stage-local warnings
	RunID     string
	Duration  time.Duration
	Report    *Report
}

// Generator owns the long-lived collaborators of the pipeline.
type Generator struct {
	cfg       *config.Config
	collector *collect.Collector
	loader    *post.Loader
	writer    *output.Writer
	recorder  metrics.Recorder
	history   history.Store
	now       func() time.Time
	newRunID  func() string

	mu   sync.Mutex
	prev map[string]string // slug -> fingerprint of the last successful run
}

// Option customizes a Generator.
type Option func(*Generator)

// WithRecorder injects a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(g *Generator) {
		if r != nil {
			g.recorder = r
		}
	}
}

// WithHistory records run events in s.
func WithHistory(s history.Store) Option {
	return func(g *Generator) { g.history = s }
}

// New wires a Generator from a validated configuration.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	filter, err := collect.NewPatternFilter(cfg.Files.MarkdownExt, cfg.Files.ImageExts, cfg.Files.ExcludePatterns)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "invalid file filter").Build()
	}
	urls, err := post.NewURLBuilder(cfg.Site.URL, cfg.Paths.URLPrefix)
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "invalid site url").
			WithContext("url", cfg.Site.URL).
			Build()
	}

	var renderer output.PageRenderer
	if cfg.Output.HTMLEnabled() {
		feedURL := ""
		if cfg.RSS.IsEnabled() {
			feedURL = urls.Resolve(output.RSSFile)
		}
		r, err := render.New(render.Options{
			HighlightStyle: cfg.Output.HighlightStyle,
			TemplatePath:   cfg.Output.Template,
			Minify:         cfg.Output.MinifyHTML,
			SiteTitle:      cfg.Site.Title,
			Author:         cfg.Site.Author,
			Lang:           cfg.Site.Language,
			Stylesheet:     cfg.Paths.Stylesheet,
			HomeURL:        urls.Root(),
			FeedURL:        feedURL,
		})
		if err != nil {
			return nil, foundation.WrapError(err, foundation.CategoryConfig, "invalid page template").
				WithPath(cfg.Output.Template).
				Build()
		}
		renderer = r
	}

	writer := output.NewWriter(output.Options{
		OutputDir: cfg.Paths.Output,
		SiteRoot:  cfg.Paths.SiteRoot,
		SourceDir: cfg.Paths.Source,
		WriteHTML: cfg.Output.HTMLEnabled(),
		Site: output.Site{
			Title:       cfg.Site.Title,
			Description: cfg.Site.Description,
			Language:    cfg.Site.Language,
		},
		Feed: output.FeedOptions{
			Enabled:     cfg.RSS.IsEnabled(),
			MaxItems:    cfg.RSS.MaxItems,
			Title:       cfg.RSS.Title,
			Description: cfg.RSS.Description,
		},
		Sitemap: output.SitemapOptions{
			Enabled:    cfg.Sitemap.IsEnabled(),
			ChangeFreq: string(cfg.Sitemap.ChangeFreq),
			Priority:   cfg.Sitemap.Priority,
		},
	}, urls, renderer)

	g := &Generator{
		cfg:       cfg,
		collector: collect.New(filter),
		loader: post.NewLoader(post.LoaderOptions{
			MarkdownExt:       cfg.Files.MarkdownExt,
			DescriptionLength: cfg.Output.DescriptionLength,
			URLs:              urls,
		}),
		writer:   writer,
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate performs one full run. It blocks while another run on g is in
// progress.
func (g *Generator) Generate(ctx context.Context, trigger string) *Result {
	g.mu.Lock()
	defer g.mu.Unlock()

	runID := g.newRunID()
	ctx = logging.WithTrigger(logging.WithRunID(ctx, runID), trigger)
	start := g.now()
	rs := &runState{g: g, report: newReport(runID, trigger, start)}

	slog.InfoContext(ctx, "Generation started",
		logfields.Path(g.cfg.Paths.Source),
		slog.String("output", g.cfg.Paths.Output))
	g.recordHistory(ctx, func() (history.Event, error) {
		return history.NewRunStarted(runID, start, history.RunStarted{
			Trigger: trigger,
			Source:  g.cfg.Paths.Source,
			Output:  g.cfg.Paths.Output,
		})
	})

	_ = runStages(ctx, rs, g.stages())

	report := rs.report
	report.End = g.now()
	if rs.repo != nil {
		cur := fingerprints(rs.repo.Posts())
		report.Changes = diffFingerprints(g.prev, cur)
		if len(report.Errors) == 0 {
			g.prev = cur
		}
	}
	report.deriveOutcome()

	g.recorder.ObserveGenerationDuration(report.Duration())
	g.recorder.IncGenerationOutcome(string(report.Outcome))
	g.recorder.SetPostCount(report.Posts)

	if err := report.Persist(g.cfg.Paths.StateDir); err != nil {
		slog.WarnContext(ctx, "Failed to persist build report", logfields.Path(g.cfg.Paths.StateDir), logfields.Error(err))
	}

	res := &Result{
		Success:   len(report.Errors) == 0,
		PostCount: report.Posts,
		Errors:    append(append([]error(nil), report.Errors...), report.Warnings...),
		RunID:     runID,
		Duration:  report.Duration(),
		Report:    report,
	}

	g.recordHistory(ctx, func() (history.Event, error) {
		return history.NewRunCompleted(runID, report.End, history.RunCompleted{
			Outcome:    string(report.Outcome),
			Success:    res.Success,
			PostCount:  res.PostCount,
			ErrorCount: len(res.Errors),
			DurationMS: res.Duration.Milliseconds(),
			Added:      report.Changes.Added,
			Changed:    report.Changes.Changed,
			Removed:    report.Changes.Removed,
		})
	})

	level := slog.LevelInfo
	if !res.Success {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "Generation finished",
		logfields.Outcome(string(report.Outcome)),
		logfields.Count(res.PostCount),
		slog.Int("warnings", len(report.Warnings)),
		slog.Int("added", report.Changes.Added),
		slog.Int("changed", report.Changes.Changed),
		slog.Int("removed", report.Changes.Removed),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res
}

// LoadPosts collects and loads posts without touching the output.
func (g *Generator) LoadPosts(ctx context.Context) (*post.Repository, []error, error) {
	inv, err := g.collector.Scan(ctx, g.cfg.Paths.Source)
	if err != nil {
		return nil, nil, err
	}
	repo, issues := post.Build(ctx, inv.Markdown, g.loader)
	for _, pe := range inv.Errors {
		issues = append(issues, pathIssue(pe))
	}
	return repo, issues, nil
}

// Config returns the configuration the generator was built from.
func (g *Generator) Config() *config.Config { return g.cfg }

func (g *Generator) recordHistory(ctx context.Context, build func() (history.Event, error)) {
	if g.history == nil {
		return
	}
	ev, err := build()
	if err == nil {
		err = g.history.Append(ctx, ev)
	}
	if err != nil {
		slog.WarnContext(ctx, "Failed to record run history", logfields.Error(err))
	}
}

func pathIssue(pe *collect.PathError) error {
	return foundation.WrapError(pe, foundation.CategoryFileSystem, "directory unreadable").
		WithPath(pe.Path).
		Build()
}
