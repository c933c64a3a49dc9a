package output

import (
	"encoding/xml"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/post"
)

const generatorName = "vaultblog"

type rssDocument struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	AtomNS  string     `xml:"xmlns:atom,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Language      string    `xml:"language,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate"`
	Generator     string    `xml:"generator"`
	AtomLink      atomLink  `xml:"atom:link"`
	Items         []rssItem `xml:"item"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

type rssItem struct {
	Title       string  `xml:"title"`
	Link        string  `xml:"link"`
	Description string  `xml:"description"`
	GUID        rssGUID `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// EncodeRSS renders an RSS 2.0 feed of items, which must already be in
// feed order. All text is XML-escaped by the encoder.
func EncodeRSS(site Site, feed FeedOptions, urls post.URLBuilder, items []*post.Post, now time.Time) ([]byte, error) {
	title := feed.Title
	if title == "" {
		title = site.Title
	}
	desc := feed.Description
	if desc == "" {
		desc = site.Description
	}

	doc := rssDocument{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: rssChannel{
			Title:         title,
			Link:          urls.Root(),
			Description:   desc,
			Language:      site.Language,
			LastBuildDate: now.UTC().Format(time.RFC1123Z),
			Generator:     generatorName,
			AtomLink:      atomLink{Href: urls.Resolve(RSSFile), Rel: "self", Type: "application/rss+xml"},
			Items:         make([]rssItem, 0, len(items)),
		},
	}
	for _, p := range items {
		doc.Channel.Items = append(doc.Channel.Items, rssItem{
			Title:       p.Title,
			Link:        p.URL,
			Description: p.Description,
			GUID:        rssGUID{IsPermaLink: true, Value: p.URL},
			PubDate:     p.LastModified.UTC().Format(time.RFC1123Z),
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal rss: %w", err)
	}
	return append([]byte(xml.Header), append(data, '\n')...), nil
}

// WriteRSS writes rss.xml with the most recently modified posts.
func (w *Writer) WriteRSS(recent []*post.Post) error {
	if !w.opts.Feed.Enabled {
		slog.Debug("RSS disabled")
		return nil
	}
	items := recent
	if limit := w.opts.Feed.MaxItems; limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	path := filepath.Join(w.opts.SiteRoot, RSSFile)
	data, err := EncodeRSS(w.opts.Site, w.opts.Feed, w.urls, items, w.now())
	if err == nil {
		err = writeFileAtomic(path, data)
	}
	if err != nil {
		slog.Warn("Failed to write RSS feed", logfields.Path(path), logfields.Error(err))
		return w.artifactError(err, "rss", path)
	}
	slog.Info("Wrote RSS feed", logfields.Path(path), logfields.Count(len(items)))
	return nil
}
