package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"
)

//go:embed assets/page.html.tmpl
var defaultPageTemplate string

// Page is the data a layout template receives.
type Page struct {
	Title       string
	Description string
	Content     template.HTML
	URL         string
	Modified    time.Time
	Year        int

	SiteTitle  string
	Author     string
	Lang       string
	Stylesheet string
	HomeURL    string
	FeedURL    string // empty when the feed is disabled
}

// Layout wraps rendered post content in a full document.
type Layout struct {
	tmpl *template.Template
}

// NewLayout parses the template at path, or the built-in layout when path
// is empty.
func NewLayout(path string) (*Layout, error) {
	src := defaultPageTemplate
	name := "page"
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", path, err)
		}
		src, name = string(data), path
	}
	tmpl, err := template.New(name).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", name, err)
	}
	return &Layout{tmpl: tmpl}, nil
}

// Execute writes the document for p to w.
func (l *Layout) Execute(w io.Writer, p Page) error {
	if err := l.tmpl.Execute(w, p); err != nil {
		return fmt.Errorf("execute layout: %w", err)
	}
	return nil
}
