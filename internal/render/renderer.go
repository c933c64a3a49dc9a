package render

import (
	"bytes"
	"html/template"
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/post"
)

// Options configures a Renderer.
type Options struct {
	HighlightStyle string
	TemplatePath   string
	Minify         bool

	SiteTitle  string
	Author     string
	Lang       string
	Stylesheet string
	HomeURL    string
	FeedURL    string
}

// Renderer produces the final HTML document of a post.
type Renderer struct {
	md     *Markdown
	layout *Layout
	opts   Options
	now    func() time.Time
}

// New builds a Renderer; it fails only when the layout template is unusable.
func New(opts Options) (*Renderer, error) {
	layout, err := NewLayout(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	return &Renderer{md: NewMarkdown(opts.HighlightStyle), layout: layout, opts: opts, now: time.Now}, nil
}

// Render converts p's markdown and wraps it in the layout.
func (r *Renderer) Render(p *post.Post) ([]byte, error) {
	body, err := r.md.Convert(p.Content)
	if err != nil {
		return nil, err
	}

	desc := p.Description
	if desc == "" {
		desc = p.Title + " - " + r.opts.SiteTitle
	}

	var buf bytes.Buffer
	err = r.layout.Execute(&buf, Page{
		Title:       p.Title,
		Description: desc,
		Content:     template.HTML(body), //nolint:gosec // rendered from the author's own notes
		URL:         p.URL,
		Modified:    p.LastModified,
		Year:        r.now().Year(),
		SiteTitle:   r.opts.SiteTitle,
		Author:      r.opts.Author,
		Lang:        r.opts.Lang,
		Stylesheet:  r.opts.Stylesheet,
		HomeURL:     r.opts.HomeURL,
		FeedURL:     r.opts.FeedURL,
	})
	if err != nil {
		return nil, err
	}
	if !r.opts.Minify {
		return buf.Bytes(), nil
	}
	return Minify(buf.Bytes())
}
