package post

import (
	"fmt"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	"git.home.luguber.info/inful/vaultblog/internal/slug"
)

// LoaderOptions configures how files become posts.
type LoaderOptions struct {
	MarkdownExt       string
	DescriptionLength int
	URLs              URLBuilder
}

// Loader reads one source file into a Post.
type Loader struct {
	codec   slug.Codec
	descLen int
	urls    URLBuilder
	stat    func(string) (FileTimes, error)
}

// NewLoader creates a Loader.
func NewLoader(opts LoaderOptions) *Loader {
	return &Loader{
		codec:   slug.NewCodec(opts.MarkdownExt),
		descLen: opts.DescriptionLength,
		urls:    opts.URLs,
		stat:    StatTimes,
	}
}

// Slug returns the slug a file maps to without touching the filesystem.
func (l *Loader) Slug(f collect.File) string {
	return l.codec.Encode(f.RelativePath)
}

// Load reads f and builds its Post under the given slug. Posts hidden by
// front matter return ErrHidden.
func (l *Loader) Load(f collect.File, postSlug string) (*Post, error) {
	src, err := os.ReadFile(f.FullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileReadFailed, err)
	}
	times, err := l.stat(f.FullPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFileReadFailed, err)
	}

	fm, body, err := splitFrontMatter(src)
	if err != nil {
		return nil, err
	}
	if fm.hidden() {
		return nil, ErrHidden
	}

	p := &Post{
		Slug:         postSlug,
		SourcePath:   filepath.ToSlash(f.RelativePath),
		Content:      body,
		LastModified: times.Modified,
		Created:      times.Created,
		URL:          l.urls.PostURL(postSlug),
	}

	p.Title = fm.Title
	if p.Title == "" {
		p.Title = ExtractTitle(body, f.Name)
	}
	p.Description = fm.Description
	if p.Description == "" {
		p.Description = ExtractDescription(body, l.descLen)
	}
	if created := fm.createdAt(); !created.IsZero() {
		p.Created = created
	}
	return p, nil
}
