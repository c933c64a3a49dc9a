package output

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// CopyImages mirrors each image below the output directory at its relative
// path. A failed copy is reported and the remaining images are still copied.
func (w *Writer) CopyImages(ctx context.Context, images []collect.File) (int, []error) {
	var (
		copied int
		issues []error
	)
	for _, img := range images {
		if err := ctx.Err(); err != nil {
			issues = append(issues, foundation.WrapError(err, foundation.CategoryBuild, "image copy canceled").Build())
			break
		}
		dst := filepath.Join(w.opts.OutputDir, img.RelativePath)
		if err := copyFile(img.FullPath, dst); err != nil {
			slog.Warn("Failed to copy image", logfields.File(img.RelativePath), logfields.Error(err))
			issues = append(issues, foundation.WrapError(err, foundation.CategoryFileSystem, "copy image").
				WithPath(filepath.ToSlash(img.RelativePath)).
				Build())
			continue
		}
		copied++
		slog.Debug("Copied image", logfields.File(img.RelativePath))
	}
	return copied, issues
}

func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer func() { _ = in.Close() }()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", dst, err)
	}
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", dst, cerr)
		}
	}()
	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
