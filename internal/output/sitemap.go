package output

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/post"
)

const sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

const dateOnly = "2006-01-02"

// EncodeSitemap renders the site root entry followed by one entry per post.
func EncodeSitemap(opts SitemapOptions, urls post.URLBuilder, posts []*post.Post, now time.Time) ([]byte, error) {
	set := urlSet{XMLNS: sitemapNS, URLs: make([]sitemapURL, 0, len(posts)+1)}
	set.URLs = append(set.URLs, sitemapURL{
		Loc:        urls.Root(),
		LastMod:    now.UTC().Format(dateOnly),
		ChangeFreq: "daily",
		Priority:   "1.0",
	})
	priority := strconv.FormatFloat(opts.Priority, 'f', 1, 64)
	for _, p := range posts {
		set.URLs = append(set.URLs, sitemapURL{
			Loc:        p.URL,
			LastMod:    p.LastModified.UTC().Format(dateOnly),
			ChangeFreq: opts.ChangeFreq,
			Priority:   priority,
		})
	}

	data, err := xml.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sitemap: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// WriteSitemap writes sitemap.xml below the site root.
func (w *Writer) WriteSitemap(posts []*post.Post) error {
	if !w.opts.Sitemap.Enabled {
		slog.Debug("Sitemap disabled")
		return nil
	}
	path := filepath.Join(w.opts.SiteRoot, SitemapFile)
	data, err := EncodeSitemap(w.opts.Sitemap, w.urls, posts, w.now())
	if err == nil {
		err = writeFileAtomic(path, data)
	}
	if err != nil {
		slog.Warn("Failed to write sitemap", logfields.Path(path), logfields.Error(err))
		return w.artifactError(err, "sitemap", path)
	}
	slog.Info("Wrote sitemap", logfields.Path(path), logfields.Count(len(posts)+1))
	return nil
}
