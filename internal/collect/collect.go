// Package collect walks a vault and returns the markdown and image files to publish.
package collect

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// File is a discovered source file.
type File struct {
	FullPath     string // Absolute or root-joined path
	RelativePath string // Path relative to the walk root, OS separators
	Name         string // Base name including extension
}

// Predicate selects files by base name.
type Predicate func(name string) bool

// Result holds the files found and the subtrees that could not be read.
type Result struct {
	Files  []File
	Errors []*PathError
}

// Inventory is the typed outcome of a single walk.
type Inventory struct {
	Markdown []File
	Images   []File
	Errors   []*PathError
}

// Collector walks source trees using an injected Filter.
type Collector struct {
	filter Filter
}

// New returns a Collector using filter for exclusions and typing.
func New(filter Filter) *Collector {
	return &Collector{filter: filter}
}

// Filter returns the collector's filter.
func (c *Collector) Filter() Filter { return c.filter }

// Collect returns every non-excluded file under root accepted by match.
// Files are returned in lexical walk order.
func (c *Collector) Collect(ctx context.Context, root string, match Predicate) (Result, error) {
	var res Result
	err := c.walk(ctx, root, func(f File) {
		if match(f.Name) {
			res.Files = append(res.Files, f)
		}
	}, func(pe *PathError) {
		res.Errors = append(res.Errors, pe)
	})
	return res, err
}

// Scan walks root once and splits files into markdown and images.
func (c *Collector) Scan(ctx context.Context, root string) (Inventory, error) {
	var inv Inventory
	err := c.walk(ctx, root, func(f File) {
		switch {
		case c.filter.IsMarkdown(f.Name):
			inv.Markdown = append(inv.Markdown, f)
		case c.filter.IsImage(f.Name):
			inv.Images = append(inv.Images, f)
		}
	}, func(pe *PathError) {
		inv.Errors = append(inv.Errors, pe)
	})
	return inv, err
}

// CheckRoot returns a fatal classified error when root is missing or not a directory.
func CheckRoot(root string) error {
	info, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return foundation.WrapError(fmt.Errorf("%w: %s", ErrRootMissing, root), foundation.CategoryFileSystem, "source directory missing").
			WithPath(root).
			Fatal().
			UserAction().
			Build()
	case err != nil:
		return foundation.WrapError(err, foundation.CategoryFileSystem, "source directory unreadable").
			WithPath(root).
			Fatal().
			Build()
	case !info.IsDir():
		return foundation.WrapError(fmt.Errorf("%w: %s", ErrRootNotDir, root), foundation.CategoryFileSystem, "source path is not a directory").
			WithPath(root).
			Fatal().
			UserAction().
			Build()
	}
	return nil
}

func (c *Collector) walk(ctx context.Context, root string, emit func(File), report func(*PathError)) error {
	if err := CheckRoot(root); err != nil {
		return err
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return foundation.WrapError(err, foundation.CategoryFileSystem, "source directory unreadable").
					WithPath(root).
					Fatal().
					Build()
			}
			// A failed ReadDir reports the directory a second time; the
			// subtree is dropped and the walk continues with its siblings.
			slog.Warn("Skipping unreadable path", logfields.Path(path), logfields.Error(err))
			report(&PathError{Path: path, Err: fmt.Errorf("%w: %w", ErrDirUnreadable, err)})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path == root {
			return nil
		}

		name := d.Name()
		if d.IsDir() {
			if c.filter.IsExcludedDir(name) {
				slog.Debug("Pruned directory", logfields.Path(path))
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || c.filter.IsExcludedFile(name) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			report(&PathError{Path: path, Err: relErr})
			return nil
		}
		emit(File{FullPath: path, RelativePath: rel, Name: name})
		return nil
	})
}
