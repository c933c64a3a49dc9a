package output

import (
	"context"
	"log/slog"
	"path/filepath"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/post"
)

// PagePath returns where a slug's page is written below dir.
func PagePath(dir, slug string) string {
	return filepath.Join(dir, filepath.FromSlash(slug)+".html")
}

// WritePages renders and writes <slug>.html for every post. Render failures
// skip the post. Nothing is written when HTML output is disabled.
func (w *Writer) WritePages(ctx context.Context, posts []*post.Post) (int, []error) {
	if !w.opts.WriteHTML || w.renderer == nil {
		slog.Debug("HTML output disabled, skipping pages")
		return 0, nil
	}
	var (
		written int
		issues  []error
	)
	for _, p := range posts {
		if err := ctx.Err(); err != nil {
			issues = append(issues, foundation.WrapError(err, foundation.CategoryBuild, "page rendering canceled").Build())
			break
		}
		doc, err := w.renderer.Render(p)
		if err != nil {
			slog.Warn("Failed to render post", logfields.Slug(p.Slug), logfields.Error(err))
			issues = append(issues, foundation.WrapError(err, foundation.CategoryRender, "render post").
				WithPath(p.SourcePath).
				WithContext("slug", p.Slug).
				Warning().
				Build())
			continue
		}
		path := PagePath(w.opts.OutputDir, p.Slug)
		if err := writeFileAtomic(path, doc); err != nil {
			slog.Warn("Failed to write page", logfields.Slug(p.Slug), logfields.Error(err))
			issues = append(issues, foundation.WrapError(err, foundation.CategoryOutput, "write page").
				WithPath(p.SourcePath).
				WithContext("slug", p.Slug).
				Build())
			continue
		}
		written++
		slog.Debug("Wrote page", logfields.Slug(p.Slug))
	}
	return written, issues
}
