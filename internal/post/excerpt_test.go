package post

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitle(t *testing.T) {
	tests := []struct {
		name string
		body string
		file string
		want string
	}{
		{"first h1", "intro\n# Hello World\n# Second", "x.md", "Hello World"},
		{"h2 is not a title", "## Sub\ntext", "my-first-post.md", "my first post"},
		{"crlf", "# Windows Title\r\n\r\nbody", "x.md", "Windows Title"},
		{"hash in title", "# C# tips", "x.md", "C# tips"},
		{"no heading", "just text", "Hello World.md", "Hello World"},
		{"hashtag is not a heading", "#tag\ntext", "tagged-note.md", "tagged note"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTitle([]byte(tt.body), tt.file))
		})
	}
}

func TestExtractDescription(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"skips heading paragraph", "# Hello World\n\nFirst paragraph text.", "First paragraph text."},
		{"strong and emphasis", "Some **bold** and *italic* and __strong__.", "Some bold and italic and strong."},
		{"inline image removed", "Look ![cat](img/cat.png) here", "Look here"},
		{"link keeps text", "Read [the docs](https://example.com) now", "Read the docs now"},
		{"wiki embed removed", "![[diagram.png]]\nCaption text", "Caption text"},
		{"wiki link keeps alias", "See [[Other Note|the other note]] and [[Plain]]", "See the other note and Plain"},
		{"image-only paragraph skipped", "# T\n\n![only](a.png)\n\nReal text", "Real text"},
		{"code fence skipped", "```go\nx := 1\n```\n\nAfter code", "After code"},
		{"multiline collapsed", "line one\nline two", "line one line two"},
		{"empty body", "", ""},
		{"headings only", "# A\n\n## B", ""},
		{"text right under heading", "# Title\nFirst line right under heading.", "First line right under heading."},
		{"stacked headings then text", "# Title\n## Sub\nBody text", "Body text"},
		{"leading tag is prose", "#blog written about go", "#blog written about go"},
		{"bare hash line dropped", "#\nText", "Text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractDescription([]byte(tt.body), 150))
		})
	}
}

func TestExtractDescription_Truncation(t *testing.T) {
	long := strings.Repeat("가", 300)
	got := ExtractDescription([]byte(long), 150)
	assert.Equal(t, 150, len([]rune(got)))

	got = ExtractDescription([]byte(long), 200)
	assert.Equal(t, 200, len([]rune(got)))

	assert.Equal(t, long, ExtractDescription([]byte(long), 0), "non-positive limit disables truncation")
	assert.Equal(t, "abc", ExtractDescription([]byte("abc def"), 4), "trailing space trimmed after cut")
}
