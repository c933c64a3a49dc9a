package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultblog/internal/config"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/history"
	"git.home.luguber.info/inful/vaultblog/internal/output"
	"git.home.luguber.info/inful/vaultblog/internal/testutil"
)

type fixture struct {
	cfg    *config.Config
	source string
	out    string
	site   string
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	cfg := config.Default()
	cfg.Site.URL = "https://example.com"
	cfg.Site.Title = "Example"
	cfg.Paths.Source = filepath.Join(root, "vault")
	cfg.Paths.Output = filepath.Join(root, "site", "blog")
	cfg.Paths.SiteRoot = filepath.Join(root, "site")
	cfg.Paths.StateDir = filepath.Join(root, "state")
	require.NoError(t, os.MkdirAll(cfg.Paths.Source, 0o750))
	testutil.WriteTree(t, cfg.Paths.Source, files)
	return &fixture{cfg: cfg, source: cfg.Paths.Source, out: cfg.Paths.Output, site: cfg.Paths.SiteRoot}
}

func (f *fixture) generator(t *testing.T, opts ...Option) *Generator {
	t.Helper()
	g, err := New(f.cfg, opts...)
	require.NoError(t, err)
	return g
}

func (f *fixture) manifest(t *testing.T) output.Manifest {
	t.Helper()
	var m output.Manifest
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, filepath.Join(f.site, output.ManifestFile))), &m))
	return m
}

// rawManifest keeps the posts array as written so reruns compare byte for byte.
func (f *fixture) rawManifest(t *testing.T) (posts json.RawMessage, blogList string) {
	t.Helper()
	var m struct {
		BlogList string          `json:"blogList"`
		Posts    json.RawMessage `json:"posts"`
	}
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, filepath.Join(f.site, output.ManifestFile))), &m))
	return m.Posts, m.BlogList
}

func TestGenerate_ExamplePost(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Notes/Hello World.md": "# Hello\n\nFirst paragraph of the post.\n",
		"Notes/diagram.png":    "png",
		".obsidian/app.json":   "{}",
	})

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, 1, res.PostCount)
	assert.Empty(t, res.Errors)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, OutcomeSuccess, res.Report.Outcome)

	assert.Equal(t, []string{"Notes/Hello-World.html"}, testutil.ListFiles(t, f.out, ".html"))
	assert.Equal(t, []string{"Notes/diagram.png"}, testutil.ListFiles(t, f.out, ".png"))

	m := f.manifest(t)
	require.Equal(t, 1, m.TotalPosts)
	assert.Equal(t, "Hello", m.Posts[0].Title)
	assert.Equal(t, "Notes/Hello-World", m.Posts[0].Slug)
	assert.Equal(t, "https://example.com/blog/Notes/Hello-World.html", m.Posts[0].URL)
	assert.Contains(t, m.BlogList, `data-slug="Notes/Hello-World"`)

	assert.FileExists(t, filepath.Join(f.site, output.RSSFile))
	assert.FileExists(t, filepath.Join(f.site, output.SitemapFile))
	assert.FileExists(t, filepath.Join(f.cfg.Paths.StateDir, ReportFile))
	assert.Equal(t, 1, res.Report.StageCounts[StageSitemap].Success)
}

func TestGenerate_EmptyVault(t *testing.T) {
	f := newFixture(t, nil)

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	require.True(t, res.Success)
	assert.Zero(t, res.PostCount)
	m := f.manifest(t)
	assert.Zero(t, m.TotalPosts)
	assert.Empty(t, m.Posts)
	assert.Empty(t, testutil.ListFiles(t, f.out, ".html"))
}

func TestGenerate_MissingSourceKeepsOutput(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, os.RemoveAll(f.source))
	testutil.WriteTree(t, f.out, map[string]string{"old.html": "<p>old</p>"})

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	assert.False(t, res.Success)
	require.NotEmpty(t, res.Errors)
	assert.True(t, foundation.IsFatal(res.Errors[0]))
	assert.Equal(t, OutcomeFailed, res.Report.Outcome)
	assert.Equal(t, []string{"old.html"}, testutil.ListFiles(t, f.out, ".html"))
	assert.NoFileExists(t, filepath.Join(f.site, output.ManifestFile))
}

func TestGenerate_PurgesStalePages(t *testing.T) {
	f := newFixture(t, map[string]string{"post.md": "# Post\n\nbody\n"})
	testutil.WriteTree(t, f.out, map[string]string{
		"gone.html":  "<p>stale</p>",
		"style.css":  "body{}",
		"Old/x.HTML": "<p>stale</p>",
	})

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	require.True(t, res.Success, "errors: %v", res.Errors)
	assert.Equal(t, 2, res.Report.PagesPurged)
	assert.Equal(t, []string{"post.html", "style.css"}, testutil.ListFiles(t, f.out, ""))
}

func TestGenerate_SlugCollisionIsWarning(t *testing.T) {
	f := newFixture(t, map[string]string{
		"Hello World.md": "# First\n\nbody\n",
		"Hello-World.md": "# Second\n\nbody\n",
	})

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.PostCount)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, OutcomeWarning, res.Report.Outcome)
	assert.Equal(t, "First", f.manifest(t).Posts[0].Title)
}

func TestGenerate_FeedIsCapped(t *testing.T) {
	files := make(map[string]string, 25)
	for i := range 25 {
		files[fmt.Sprintf("p%02d.md", i)] = fmt.Sprintf("# Post %d\n\nbody\n", i)
	}
	f := newFixture(t, files)

	res := f.generator(t).Generate(context.Background(), TriggerCLI)

	require.True(t, res.Success)
	assert.Equal(t, 25, res.PostCount)
	assert.Len(t, testutil.ListFiles(t, f.out, ".html"), 25)
	rss := testutil.ReadFile(t, filepath.Join(f.site, output.RSSFile))
	assert.Equal(t, 20, strings.Count(rss, "<item>"))
}

func TestGenerate_RerunTracksChanges(t *testing.T) {
	f := newFixture(t, map[string]string{
		"a.md": "# A\n\nbody\n",
		"b.md": "# B\n\nbody\n",
	})
	g := f.generator(t)

	first := g.Generate(context.Background(), TriggerStartup)
	require.True(t, first.Success)
	assert.Equal(t, ChangeSummary{Added: 2}, first.Report.Changes)
	pages := testutil.ListFiles(t, f.out, ".html")
	firstPosts, firstList := f.rawManifest(t)

	second := g.Generate(context.Background(), TriggerEvent)
	require.True(t, second.Success)
	assert.True(t, second.Report.Changes.Empty())
	assert.Equal(t, pages, testutil.ListFiles(t, f.out, ".html"))
	secondPosts, secondList := f.rawManifest(t)
	assert.Equal(t, string(firstPosts), string(secondPosts), "manifest posts identical across unchanged reruns")
	assert.Equal(t, firstList, secondList)
	assert.Len(t, f.manifest(t).Posts, 2)
	assert.NotEqual(t, first.RunID, second.RunID)

	testutil.WriteTree(t, f.source, map[string]string{"a.md": "# A\n\nedited\n", "c.md": "# C\n"})
	require.NoError(t, os.Remove(filepath.Join(f.source, "b.md")))

	third := g.Generate(context.Background(), TriggerEvent)
	require.True(t, third.Success)
	assert.Equal(t, ChangeSummary{Added: 1, Changed: 1, Removed: 1}, third.Report.Changes)
	assert.Equal(t, []string{"a.html", "c.html"}, testutil.ListFiles(t, f.out, ".html"))
}

func TestGenerate_Canceled(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := f.generator(t).Generate(ctx, TriggerCLI)

	assert.False(t, res.Success)
	assert.Equal(t, OutcomeCanceled, res.Report.Outcome)
	assert.Equal(t, 1, res.Report.StageCounts[StagePrepareOutput].Canceled)
}

func TestGenerate_RecordsHistory(t *testing.T) {
	f := newFixture(t, map[string]string{"a.md": "# A\n"})
	store, err := history.NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	res := f.generator(t, WithHistory(store)).Generate(context.Background(), TriggerCLI)
	require.True(t, res.Success)

	runs, err := history.Runs(context.Background(), store, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, res.RunID, runs[0].RunID)
	assert.Equal(t, history.StatusCompleted, runs[0].Status)
	assert.Equal(t, TriggerCLI, runs[0].Trigger)
	require.NotNil(t, runs[0].Result)
	assert.Equal(t, 1, runs[0].Result.PostCount)
	assert.Equal(t, 1, runs[0].Result.Added)
}

func TestLoadPosts_DoesNotWrite(t *testing.T) {
	f := newFixture(t, map[string]string{"x/y.md": "# Y\n"})

	repo, issues, err := f.generator(t).LoadPosts(context.Background())

	require.NoError(t, err)
	assert.Empty(t, issues)
	assert.Equal(t, []string{"x/y"}, repo.Slugs())
	assert.NoDirExists(t, f.out)
}

func TestReport_Persist(t *testing.T) {
	dir := t.TempDir()
	r := newReport("run-1", TriggerCLI, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	r.End = r.Start.Add(1500 * time.Millisecond)
	r.Warnings = append(r.Warnings, fmt.Errorf("bad file"))
	r.deriveOutcome()

	require.NoError(t, r.Persist(dir))

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(testutil.ReadFile(t, filepath.Join(dir, ReportFile))), &got))
	assert.Equal(t, "run-1", got["run_id"])
	assert.Equal(t, "warning", got["outcome"])
	assert.EqualValues(t, 1500, got["duration_ms"])
	assert.Equal(t, []any{"bad file"}, got["warnings"])
	assert.Contains(t, r.Summary(), "outcome=warning")
}

func TestClassifyStageError(t *testing.T) {
	fatal := foundation.FileSystemError("missing").Fatal().Build()
	assert.Equal(t, StageErrorFatal, classifyStageError(StageCollect, fatal).Kind)
	assert.Equal(t, StageErrorCanceled, classifyStageError(StageCollect, context.Canceled).Kind)
	assert.Equal(t, StageErrorWarning, classifyStageError(StageRSS, foundation.OutputError("write").Build()).Kind)

	se := newFatalStageError(StagePurge, fatal)
	assert.Same(t, se, classifyStageError(StageRSS, fmt.Errorf("wrapped: %w", se)))
}
