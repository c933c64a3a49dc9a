package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultblog/internal/post"
)

func TestMarkdown_Convert(t *testing.T) {
	md := NewMarkdown("")

	out, err := md.Convert([]byte("# Hello World\n\nline one\nline two\n\n- [x] done\n\nhttps://example.com\n"))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="hello-world">Hello World</h1>`)
	assert.Contains(t, html, "line one<br>")
	assert.Contains(t, html, `type="checkbox"`)
	assert.Contains(t, html, `<a href="https://example.com">https://example.com</a>`)
}

func TestMarkdown_HighlightsFencedCode(t *testing.T) {
	out, err := NewMarkdown("monokai").Convert([]byte("```go\nfunc main() {}\n```\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), "<pre")
	assert.Contains(t, string(out), "style=")
	assert.Contains(t, string(out), "main")
}

func testPost() *post.Post {
	return &post.Post{
		Slug:         "Notes/Hello-World",
		Title:        "Hello <World>",
		Description:  `Says "hi"`,
		Content:      []byte("# Hello World\n\nFirst paragraph text.\n"),
		LastModified: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		URL:          "https://example.com/blog/Notes/Hello-World.html",
	}
}

func TestRenderer_DefaultLayout(t *testing.T) {
	r, err := New(Options{
		SiteTitle:  "My Blog",
		Author:     "GO",
		Lang:       "ko",
		Stylesheet: "/assets/css/main.css",
		HomeURL:    "https://example.com/",
		FeedURL:    "https://example.com/rss.xml",
	})
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) }

	out, err := r.Render(testPost())
	require.NoError(t, err)
	doc := string(out)

	assert.True(t, strings.HasPrefix(doc, "<!DOCTYPE html>"))
	assert.Contains(t, doc, `<html lang="ko">`)
	assert.Contains(t, doc, "<title>Hello &lt;World&gt; - My Blog</title>")
	assert.Contains(t, doc, `<meta name="description" content="Says &#34;hi&#34;">`)
	assert.Contains(t, doc, `<meta name="author" content="GO">`)
	assert.Contains(t, doc, `<link rel="canonical" href="https://example.com/blog/Notes/Hello-World.html">`)
	assert.Contains(t, doc, `<link rel="stylesheet" href="/assets/css/main.css">`)
	assert.Contains(t, doc, `type="application/rss+xml"`)
	assert.Contains(t, doc, `<time datetime="2024-05-01">`)
	assert.Contains(t, doc, "<p>First paragraph text.</p>")
	assert.Contains(t, doc, "&copy; 2025 My Blog")
}

func TestRenderer_FallbackDescriptionAndOptionalTags(t *testing.T) {
	r, err := New(Options{SiteTitle: "My Blog", Lang: "en"})
	require.NoError(t, err)

	p := testPost()
	p.Description = ""
	out, err := r.Render(p)
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `content="Hello &lt;World&gt; - My Blog"`)
	assert.NotContains(t, doc, `name="author"`)
	assert.NotContains(t, doc, "application/rss+xml")
	assert.NotContains(t, doc, `rel="stylesheet"`)
}

func TestRenderer_CustomTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.html")
	require.NoError(t, os.WriteFile(path, []byte("<main data-site=\"{{.SiteTitle}}\">{{.Content}}</main>"), 0o600))

	r, err := New(Options{TemplatePath: path, SiteTitle: "S"})
	require.NoError(t, err)

	out, err := r.Render(testPost())
	require.NoError(t, err)
	assert.Equal(t, "<main data-site=\"S\"><h1 id=\"hello-world\">Hello World</h1>\n<p>First paragraph text.</p>\n</main>", string(out))
}

func TestNewLayout_Errors(t *testing.T) {
	_, err := NewLayout(filepath.Join(t.TempDir(), "missing.html"))
	require.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.html")
	require.NoError(t, os.WriteFile(bad, []byte("{{.Title"), 0o600))
	_, err = NewLayout(bad)
	require.Error(t, err)
}

func TestMinify(t *testing.T) {
	src := "<!DOCTYPE html>\n<html>\n<head>\n  <title>x</title>\n</head>\n<body>\n  <!-- note -->\n  <p>a  b</p>\n  <pre>keep\n  this</pre>\n</body>\n</html>\n"

	out, err := Minify([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, "<!DOCTYPE html><html><head><title>x</title></head><body><p>a  b</p><pre>keep\n  this</pre></body></html>", string(out))
}

func TestMinify_KeepsSpaceBetweenInlineElements(t *testing.T) {
	src := "<html><body>\n<p><strong>a</strong> <em>b</em>\n<a href=\"#\">c</a></p>\n<ul>\n  <li>x</li>\n</ul>\n</body></html>"

	out, err := Minify([]byte(src))
	require.NoError(t, err)
	assert.Equal(t, `<html><head></head><body><p><strong>a</strong> <em>b</em> <a href="#">c</a></p><ul><li>x</li></ul></body></html>`, string(out))
}

func TestRenderer_Minify(t *testing.T) {
	r, err := New(Options{SiteTitle: "S", Lang: "en", Minify: true})
	require.NoError(t, err)

	out, err := r.Render(testPost())
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\n  <")
	assert.Contains(t, string(out), "<p>First paragraph text.</p>")
}
