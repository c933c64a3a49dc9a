package tree

import (
	"bytes"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/vaultblog/internal/post"
)

func posts(slugs ...string) []*post.Post {
	out := make([]*post.Post, 0, len(slugs))
	for _, s := range slugs {
		_, leaf := splitLeaf(s)
		out = append(out, &post.Post{Slug: s, Title: strings.ReplaceAll(leaf, "-", " ")})
	}
	return out
}

func splitLeaf(s string) (string, string) {
	i := strings.LastIndex(s, "/")
	if i < 0 {
		return "", s
	}
	return s[:i], s[i+1:]
}

func names(n *Node) (folders, files []string) {
	for _, f := range n.Folders {
		folders = append(folders, f.Name)
	}
	for _, e := range n.Files {
		files = append(files, e.Name)
	}
	return folders, files
}

func TestBuild_FoldersBeforeFiles(t *testing.T) {
	root := Build(posts("zeta", "Notes/b", "alpha", "Notes/Deep/c", "Archive/x"), "en")

	folders, files := names(root)
	assert.Equal(t, []string{"Archive", "Notes"}, folders)
	assert.Equal(t, []string{"alpha", "zeta"}, files)

	notes := root.Folders[1]
	assert.Equal(t, "Notes", notes.Path)
	folders, files = names(notes)
	assert.Equal(t, []string{"Deep"}, folders)
	assert.Equal(t, []string{"b"}, files)
	assert.Equal(t, "Notes/Deep", notes.Folders[0].Path)
	assert.Equal(t, 5, root.PostCount())
}

func TestBuild_NameCanBeFolderAndFile(t *testing.T) {
	root := Build(posts("Go", "Go/Generics"), "en")
	folders, files := names(root)
	assert.Equal(t, []string{"Go"}, folders)
	assert.Equal(t, []string{"Go"}, files)
}

func TestBuild_OrderIndependentOfInput(t *testing.T) {
	slugs := []string{"b", "A", "a", "Notes/z", "Notes/Ä", "Notes/a", "한글/가", "한글/나", "Zed/x", "ä"}
	want := render(t, Build(posts(slugs...), "ko"))

	r := rand.New(rand.NewPCG(1, 2))
	for range 20 {
		shuffled := append([]string(nil), slugs...)
		r.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, want, render(t, Build(posts(shuffled...), "ko")))
	}
}

func TestBuild_CollationTiesFallBackToBytes(t *testing.T) {
	root := Build(posts("a", "A"), "en")
	_, files := names(root)
	require.Len(t, files, 2)
	assert.NotEqual(t, files[0], files[1])

	again := Build(posts("A", "a"), "en")
	_, files2 := names(again)
	assert.Equal(t, files, files2)
}

func TestBuild_UnknownLanguageFallsBack(t *testing.T) {
	root := Build(posts("b", "a"), "not a tag!!")
	_, files := names(root)
	assert.Equal(t, []string{"a", "b"}, files)
}

func TestBuild_Empty(t *testing.T) {
	root := Build(nil, "en")
	assert.Empty(t, root.Folders)
	assert.Empty(t, root.Files)

	out, err := RenderSidebar(root)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestRenderSidebar_Markup(t *testing.T) {
	root := Build([]*post.Post{
		{Slug: "Notes/Hello-World", Title: "Hello World"},
		{Slug: "About", Title: "About <me>"},
	}, "en")

	out := render(t, root)
	assert.Contains(t, out, `<li class="sidebar-folder"><span>Notes</span><ul>`)
	assert.Contains(t, out, `<li class="sidebar-file"><a href="#" class="blog-link" data-slug="Notes/Hello-World">Hello World</a></li>`)
	assert.Contains(t, out, `data-slug="About">About &lt;me&gt;</a>`)
	assert.Less(t, strings.Index(out, "sidebar-folder"), strings.Index(out, `data-slug="About"`))
}

func TestRenderSidebar_EscapesAttributes(t *testing.T) {
	root := Build([]*post.Post{{Slug: `Q"uote`, Title: "x"}}, "en")
	out := render(t, root)
	assert.Contains(t, out, `data-slug="Q&#34;uote"`)
}

func TestFprint(t *testing.T) {
	root := Build(posts("Notes/a-b", "top"), "en")
	var buf bytes.Buffer
	require.NoError(t, Fprint(&buf, root))
	assert.Equal(t, "Notes/ (1)\n  a b  [Notes/a-b]\ntop  [top]\n", buf.String())
}

func render(t *testing.T, root *Node) string {
	t.Helper()
	out, err := RenderSidebar(root)
	require.NoError(t, err)
	return out
}
