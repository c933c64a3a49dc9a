// Package render turns post markdown into complete HTML documents.
package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// DefaultHighlightStyle is the chroma style used when none is configured.
const DefaultHighlightStyle = "github"

// Markdown converts markdown bodies to HTML fragments. It is safe for
// concurrent use.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown builds a converter with GFM, autolinks, task lists, heading
// IDs, hard wraps and syntax highlighting in the given chroma style.
// Raw HTML in notes is passed through.
func NewMarkdown(highlightStyle string) *Markdown {
	if highlightStyle == "" {
		highlightStyle = DefaultHighlightStyle
	}
	return &Markdown{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.TaskList,
			highlighting.NewHighlighting(highlighting.WithStyle(highlightStyle)),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithUnsafe()),
	)}
}

// Convert renders src to an HTML fragment.
func (m *Markdown) Convert(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := m.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}
	return buf.Bytes(), nil
}
