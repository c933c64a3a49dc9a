// Package post turns collected markdown files into Post entities keyed by slug.
package post

import (
	"net/url"
	"strings"
	"time"
)

// Post is one published note. Content is the markdown body with any front
// matter removed; it is not modified after load.
type Post struct {
	Slug         string
	Title        string
	SourcePath   string // relative to the vault root, slash-separated
	Description  string
	Content      []byte
	LastModified time.Time
	Created      time.Time
	URL          string
}

// URLBuilder derives public URLs from slugs.
type URLBuilder struct {
	base   *url.URL
	prefix string
}

// NewURLBuilder parses siteURL; prefix is the path segment between the site
// root and post slugs ("blog" yields https://host/blog/<slug>.html).
func NewURLBuilder(siteURL, prefix string) (URLBuilder, error) {
	u, err := url.Parse(strings.TrimRight(siteURL, "/"))
	if err != nil {
		return URLBuilder{}, err
	}
	return URLBuilder{base: u, prefix: strings.Trim(prefix, "/")}, nil
}

// Root returns the site root URL with a trailing slash.
func (b URLBuilder) Root() string {
	if b.base == nil {
		return "/"
	}
	u := *b.base
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	return u.String()
}

// Resolve returns the absolute URL of a site-relative path, percent-encoded.
func (b URLBuilder) Resolve(sitePath string) string {
	if b.base == nil {
		return "/" + strings.TrimLeft(sitePath, "/")
	}
	u := *b.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(sitePath, "/")
	return u.String()
}

// PostURL returns the public URL for a slug.
func (b URLBuilder) PostURL(slug string) string {
	p := slug + ".html"
	if b.prefix != "" {
		p = b.prefix + "/" + p
	}
	return b.Resolve(p)
}
