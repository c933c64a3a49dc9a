package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	"git.home.luguber.info/inful/vaultblog/internal/config"
	"git.home.luguber.info/inful/vaultblog/internal/generator"
	"git.home.luguber.info/inful/vaultblog/internal/notify"
	"git.home.luguber.info/inful/vaultblog/internal/testutil"
)

type fakeGenerator struct {
	mu       sync.Mutex
	triggers []string
}

func (g *fakeGenerator) Generate(_ context.Context, trigger string) *generator.Result {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.triggers = append(g.triggers, trigger)
	return &generator.Result{Success: true, RunID: trigger, PostCount: len(g.triggers)}
}

func (g *fakeGenerator) calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.triggers...)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []notify.Completed
}

func (p *recordingPublisher) Publish(_ context.Context, msg notify.Completed) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, msg)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.msgs)
}

func newFilter(t *testing.T) collect.Filter {
	t.Helper()
	f, err := collect.NewPatternFilter(".md", config.DefaultImageExts, config.DefaultExcludePatterns)
	require.NoError(t, err)
	return f
}

func newTestReconciler(t *testing.T, gen Generator, pub notify.Publisher) (*Reconciler, string, string) {
	t.Helper()
	root := t.TempDir()
	source := filepath.Join(root, "vault")
	out := filepath.Join(source, "blog-out")
	testutil.WriteTree(t, source, map[string]string{
		"Notes/a.md":           "# A\n",
		".obsidian/app.json":   "{}",
		"_drafts/draft.md":     "# Draft\n",
		"blog-out/a.html":      "<p>a</p>",
		"Notes/Deep/image.png": "png",
	})
	r, err := New(gen, Options{
		Source:    source,
		Output:    out,
		Filter:    newFilter(t),
		Debounce:  50 * time.Millisecond,
		Publisher: pub,
	})
	require.NoError(t, err)
	return r, source, out
}

func TestNew_RequiresGeneratorAndFilter(t *testing.T) {
	_, err := New(nil, Options{Filter: newFilter(t)})
	require.Error(t, err)
	_, err = New(&fakeGenerator{}, Options{})
	require.Error(t, err)
}

func TestReconciler_EventQualification(t *testing.T) {
	r, source, out := newTestReconciler(t, &fakeGenerator{}, nil)
	w, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	require.NoError(t, r.addRecursive(w, source))

	assert.Contains(t, r.watched, filepath.Join(source, "Notes", "Deep"))
	assert.NotContains(t, r.watched, filepath.Join(source, ".obsidian"))
	assert.NotContains(t, r.watched, filepath.Join(source, "_drafts"))
	assert.NotContains(t, r.watched, out)

	j := func(parts ...string) string { return filepath.Join(append([]string{source}, parts...)...) }
	cases := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"markdown write", fsnotify.Event{Name: j("Notes", "a.md"), Op: fsnotify.Write}, true},
		{"markdown create", fsnotify.Event{Name: j("Notes", "b.md"), Op: fsnotify.Create}, true},
		{"markdown remove", fsnotify.Event{Name: j("Notes", "a.md"), Op: fsnotify.Remove}, true},
		{"image rename", fsnotify.Event{Name: j("Notes", "x.PNG"), Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: j("Notes", "a.md"), Op: fsnotify.Chmod}, false},
		{"other extension", fsnotify.Event{Name: j("Notes", "a.txt"), Op: fsnotify.Write}, false},
		{"hidden file", fsnotify.Event{Name: j("Notes", ".a.md"), Op: fsnotify.Write}, false},
		{"editor temp", fsnotify.Event{Name: j("Notes", "a.md.tmp"), Op: fsnotify.Write}, false},
		{"excluded folder", fsnotify.Event{Name: j(".obsidian", "x.md"), Op: fsnotify.Write}, false},
		{"underscore folder", fsnotify.Event{Name: j("_drafts", "draft.md"), Op: fsnotify.Write}, false},
		{"output tree", fsnotify.Event{Name: filepath.Join(out, "b.md"), Op: fsnotify.Create}, false},
		{"outside source", fsnotify.Event{Name: filepath.Join(filepath.Dir(source), "x.md"), Op: fsnotify.Write}, false},
		{"watched dir removed", fsnotify.Event{Name: j("Notes", "Deep"), Op: fsnotify.Remove}, true},
		{"unknown dir removed", fsnotify.Event{Name: j("Notes", "Gone"), Op: fsnotify.Remove}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.handleEvent(w, tc.ev))
		})
	}
	assert.NotContains(t, r.watched, j("Notes", "Deep"))

	newDir := j("Fresh", "Sub")
	require.NoError(t, os.MkdirAll(newDir, 0o750))
	assert.True(t, r.handleEvent(w, fsnotify.Event{Name: j("Fresh"), Op: fsnotify.Create}))
	assert.Contains(t, r.watched, newDir)
}

func TestReconciler_RunRegeneratesOnChange(t *testing.T) {
	gen := &fakeGenerator{}
	pub := &recordingPublisher{}
	r, source, _ := newTestReconciler(t, gen, pub)

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case <-r.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("reconciler never became ready")
	}
	assert.Equal(t, []string{generator.TriggerStartup}, gen.calls())

	target := filepath.Join(source, "Notes", "a.md")
	for i := range 5 {
		require.NoError(t, os.WriteFile(target, []byte("# A\n\nedit "+string(rune('0'+i))+"\n"), 0o600))
		time.Sleep(10 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return len(gen.calls()) == 2 }, 5*time.Second, 10*time.Millisecond)
	time.Sleep(200 * time.Millisecond)
	assert.Equal(t, []string{generator.TriggerStartup, generator.TriggerEvent}, gen.calls())
	assert.Equal(t, 2, pub.count())
	require.NotNil(t, r.Last())
	assert.Equal(t, generator.TriggerEvent, r.Last().RunID)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
