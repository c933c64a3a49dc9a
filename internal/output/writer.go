// Package output synchronizes the generated bundle on disk.
//
// Every stage is independently failure tolerant: a failing stage returns its
// errors to the caller and leaves later stages free to run. Purge removes
// only HTML so copied images and unrelated files survive across runs.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/post"
)

// Artifact file names written below the site root.
const (
	ManifestFile = "blog-list.json"
	RSSFile      = "rss.xml"
	SitemapFile  = "sitemap.xml"
)

// PageRenderer produces the complete HTML document for one post.
type PageRenderer interface {
	Render(p *post.Post) ([]byte, error)
}

// Site is the feed-level metadata.
type Site struct {
	Title       string
	Description string
	Language    string
}

// FeedOptions controls rss.xml.
type FeedOptions struct {
	Enabled     bool
	MaxItems    int
	Title       string
	Description string
}

// SitemapOptions controls sitemap.xml.
type SitemapOptions struct {
	Enabled    bool
	ChangeFreq string
	Priority   float64
}

// Options configures a Writer.
type Options struct {
	OutputDir string // per-post HTML and images
	SiteRoot  string // manifest, feed and sitemap
	SourceDir string // never descended into by Purge
	WriteHTML bool
	Site      Site
	Feed      FeedOptions
	Sitemap   SitemapOptions
}

// Writer persists one generation run.
type Writer struct {
	opts     Options
	urls     post.URLBuilder
	renderer PageRenderer
	now      func() time.Time
}

// NewWriter creates a Writer. renderer may be nil when WriteHTML is false.
func NewWriter(opts Options, urls post.URLBuilder, renderer PageRenderer) *Writer {
	return &Writer{opts: opts, urls: urls, renderer: renderer, now: time.Now}
}

// OutputDir returns the directory receiving pages and images.
func (w *Writer) OutputDir() string { return w.opts.OutputDir }

// Prepare creates the output and site root directories. Failure is structural.
func (w *Writer) Prepare() error {
	for _, dir := range []string{w.opts.OutputDir, w.opts.SiteRoot} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return foundation.WrapError(fmt.Errorf("%w: %w", ErrOutputUncreatable, err), foundation.CategoryFileSystem, "prepare output directory").
				WithPath(dir).
				Fatal().
				Build()
		}
	}
	return nil
}

// writeFileAtomic writes data next to path and renames it into place so
// readers never observe a partially written artifact.
func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure directory for %s: %w", path, err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename %s: %w", path, err)
	}
	return nil
}

func (w *Writer) artifactError(err error, stage, path string) error {
	return foundation.WrapError(err, foundation.CategoryOutput, "write "+stage).
		WithPath(path).
		WithContext("stage", stage).
		Build()
}
