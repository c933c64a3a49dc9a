package generator

import (
	"context"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/logging"
	"git.home.luguber.info/inful/vaultblog/internal/post"
	"git.home.luguber.info/inful/vaultblog/internal/tree"
)

// runState is owned by exactly one run and discarded afterwards.
type runState struct {
	g         *Generator
	report    *Report
	inventory collect.Inventory
	repo      *post.Repository
	tree      *tree.Node
	sidebar   string
}

func (rs *runState) warn(errs ...error) {
	rs.report.Warnings = append(rs.report.Warnings, errs...)
}

// stages lists the pipeline. The repository and tree are complete before
// purge runs, so a run that aborts early never leaves the output without
// pages.
func (g *Generator) stages() []StageDef {
	return []StageDef{
		{StagePrepareOutput, stagePrepareOutput},
		{StageCollect, stageCollect},
		{StageLoadPosts, stageLoadPosts},
		{StageBuildTree, stageBuildTree},
		{StagePurge, stagePurge},
		{StageCopyImages, stageCopyImages},
		{StageRenderPages, stageRenderPages},
		{StageManifest, stageManifest},
		{StageRSS, stageRSS},
		{StageSitemap, stageSitemap},
	}
}

// runStages executes stages in order, recording timing and stopping on the
// first fatal or canceled stage.
func runStages(ctx context.Context, rs *runState, stages []StageDef) error {
	recorder := rs.g.recorder
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			se := newCanceledStageError(st.Name, err)
			rs.report.Errors = append(rs.report.Errors, se)
			rs.report.recordStageResult(st.Name, se.Kind, false, recorder)
			slog.WarnContext(ctx, "Generation canceled", logfields.Stage(string(st.Name)))
			return se
		}

		sctx := logging.WithStage(ctx, string(st.Name))
		t0 := time.Now()
		err := st.Fn(sctx, rs)
		dur := time.Since(t0)
		rs.report.StageDurations[st.Name] = dur
		recorder.ObserveStageDuration(string(st.Name), dur)

		if err == nil {
			rs.report.recordStageResult(st.Name, "", true, recorder)
			slog.DebugContext(sctx, "Stage complete", logfields.DurationMS(float64(dur.Microseconds())/1000))
			continue
		}

		se := classifyStageError(st.Name, err)
		rs.report.recordStageResult(st.Name, se.Kind, false, recorder)
		if se.Kind == StageErrorWarning {
			rs.warn(se)
			slog.WarnContext(sctx, "Stage failed, continuing", logfields.Error(err))
			continue
		}
		rs.report.Errors = append(rs.report.Errors, se)
		slog.ErrorContext(sctx, "Stage aborted generation", logfields.Error(err))
		return se
	}
	return nil
}

func stagePrepareOutput(_ context.Context, rs *runState) error {
	return rs.g.writer.Prepare()
}

func stageCollect(ctx context.Context, rs *runState) error {
	inv, err := rs.g.collector.Scan(ctx, rs.g.cfg.Paths.Source)
	if err != nil {
		return err
	}
	rs.inventory = inv
	rs.report.MarkdownFiles = len(inv.Markdown)
	rs.report.ImageFiles = len(inv.Images)
	for _, pe := range inv.Errors {
		rs.warn(pathIssue(pe))
	}
	slog.InfoContext(ctx, "Collected source files",
		slog.Int("markdown", len(inv.Markdown)),
		slog.Int("images", len(inv.Images)))
	return nil
}

func stageLoadPosts(ctx context.Context, rs *runState) error {
	repo, issues := post.Build(ctx, rs.inventory.Markdown, rs.g.loader)
	rs.repo = repo
	rs.report.Posts = repo.Len()
	rs.warn(issues...)
	return ctx.Err()
}

func stageBuildTree(_ context.Context, rs *runState) error {
	rs.tree = tree.Build(rs.repo.Posts(), rs.g.cfg.Site.Language)
	sidebar, err := tree.RenderSidebar(rs.tree)
	if err != nil {
		return err
	}
	rs.sidebar = sidebar
	return nil
}

func stagePurge(ctx context.Context, rs *runState) error {
	removed, issues := rs.g.writer.Purge(ctx)
	rs.report.PagesPurged = removed
	rs.warn(issues...)
	return ctx.Err()
}

func stageCopyImages(ctx context.Context, rs *runState) error {
	copied, issues := rs.g.writer.CopyImages(ctx, rs.inventory.Images)
	rs.report.ImagesCopied = copied
	rs.warn(issues...)
	return ctx.Err()
}

func stageRenderPages(ctx context.Context, rs *runState) error {
	written, issues := rs.g.writer.WritePages(ctx, rs.repo.Posts())
	rs.report.PagesWritten = written
	rs.warn(issues...)
	return ctx.Err()
}

func stageManifest(_ context.Context, rs *runState) error {
	return rs.g.writer.WriteManifest(rs.repo.Posts(), rs.sidebar)
}

func stageRSS(_ context.Context, rs *runState) error {
	return rs.g.writer.WriteRSS(rs.repo.Recent(-1))
}

func stageSitemap(_ context.Context, rs *runState) error {
	return rs.g.writer.WriteSitemap(rs.repo.Posts())
}
