package output

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// Purge removes every *.html file below the output directory. Other files
// and directories are left in place, and the source directory is skipped
// even when it sits below the output. A missing output directory is not an
// error.
func (w *Writer) Purge(ctx context.Context) (int, []error) {
	var (
		removed int
		issues  []error
	)
	root := w.opts.OutputDir
	source := absPath(w.opts.SourceDir)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == root {
				return fs.SkipAll
			}
			slog.Warn("Purge cannot read path", logfields.Path(path), logfields.Error(err))
			issues = append(issues, purgeError(err, path))
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if source != "" && absPath(path) == source {
				slog.Warn("Purge skipped the source directory", logfields.Path(path))
				return fs.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".html") {
			return nil
		}
		if err := os.Remove(path); err != nil {
			slog.Warn("Failed to remove stale page", logfields.Path(path), logfields.Error(err))
			issues = append(issues, purgeError(err, path))
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		issues = append(issues, purgeError(err, root))
	}
	slog.Debug("Purged generated pages", logfields.Count(removed))
	return removed, issues
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}

func purgeError(err error, path string) error {
	return foundation.WrapError(err, foundation.CategoryFileSystem, "purge").
		WithPath(path).
		Build()
}
