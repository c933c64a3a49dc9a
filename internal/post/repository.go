package post

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/slug"
)

// Repository maps slugs to posts for a single generation run. It is built
// fresh every run and never patched incrementally.
type Repository struct {
	posts map[string]*Post
}

// NewRepository returns an empty repository.
func NewRepository() *Repository {
	return &Repository{posts: make(map[string]*Post)}
}

// Build loads files into a new repository. The first file to claim a slug
// keeps it; later ones are dropped with a warning. Per-file failures are
// returned as classified, non-fatal errors and never abort the build.
func Build(ctx context.Context, files []collect.File, loader *Loader) (*Repository, []error) {
	r := NewRepository()
	var issues []error

	for _, f := range files {
		if ctx.Err() != nil {
			issues = append(issues, foundation.WrapError(ctx.Err(), foundation.CategoryBuild, "post loading canceled").Build())
			break
		}

		rel := f.RelativePath
		s := loader.Slug(f)
		if s == "" {
			slog.Warn("Skipping file with empty slug", logfields.File(rel))
			issues = append(issues, foundation.WrapError(ErrEmptySlug, foundation.CategoryValidation, "empty slug").
				WithPath(rel).
				Warning().
				Build())
			continue
		}
		if slug.HasEmptySegment(s) {
			slog.Warn("Skipping file with empty slug segment", logfields.File(rel), logfields.Slug(s))
			issues = append(issues, foundation.WrapError(ErrEmptySegment, foundation.CategoryValidation, "empty slug segment").
				WithPath(rel).
				WithContext("slug", s).
				Warning().
				Build())
			continue
		}
		if existing, ok := r.posts[s]; ok {
			slog.Warn("Duplicate slug, keeping first file",
				logfields.Slug(s),
				logfields.File(rel),
				slog.String("kept", existing.SourcePath))
			issues = append(issues, foundation.WrapError(ErrSlugCollision, foundation.CategoryValidation, "slug collision").
				WithPath(rel).
				WithContext("slug", s).
				WithContext("kept", existing.SourcePath).
				Warning().
				Build())
			continue
		}

		p, err := loader.Load(f, s)
		if errors.Is(err, ErrHidden) {
			slog.Debug("Skipping unpublished post", logfields.File(rel))
			continue
		}
		if err != nil {
			slog.Warn("Failed to load post", logfields.File(rel), logfields.Error(err))
			issues = append(issues, foundation.WrapError(err, foundation.CategoryFileSystem, "load post").
				WithPath(rel).
				Build())
			continue
		}

		r.posts[s] = p
		slog.Debug("Loaded post", logfields.Slug(s), logfields.Title(p.Title))
	}

	return r, issues
}

// Add inserts a post; an occupied slug is rejected with ErrSlugCollision.
func (r *Repository) Add(p *Post) error {
	if p.Slug == "" {
		return ErrEmptySlug
	}
	if slug.HasEmptySegment(p.Slug) {
		return fmt.Errorf("%w: %s", ErrEmptySegment, p.Slug)
	}
	if _, ok := r.posts[p.Slug]; ok {
		return fmt.Errorf("%w: %s", ErrSlugCollision, p.Slug)
	}
	r.posts[p.Slug] = p
	return nil
}

// Get returns the post for slug.
func (r *Repository) Get(slug string) (*Post, bool) {
	p, ok := r.posts[slug]
	return p, ok
}

// Len returns the number of posts.
func (r *Repository) Len() int { return len(r.posts) }

// Slugs returns all slugs in byte order.
func (r *Repository) Slugs() []string {
	out := make([]string, 0, len(r.posts))
	for s := range r.posts {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// Posts returns all posts ordered by slug.
func (r *Repository) Posts() []*Post {
	out := make([]*Post, 0, len(r.posts))
	for _, s := range r.Slugs() {
		out = append(out, r.posts[s])
	}
	return out
}

// Recent returns up to n posts, most recently modified first. Ties are
// broken by slug so the order is reproducible.
func (r *Repository) Recent(n int) []*Post {
	out := r.Posts()
	slices.SortStableFunc(out, func(a, b *Post) int {
		if c := b.LastModified.Compare(a.LastModified); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
