package collect

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// Filter decides which names the collector visits and how files are typed.
// Names are base names, never paths.
type Filter interface {
	IsExcludedDir(name string) bool
	IsExcludedFile(name string) bool
	IsMarkdown(name string) bool
	IsImage(name string) bool
}

// PatternFilter is the configuration-driven Filter: dot and underscore
// prefixes are always excluded, plus any name matching one of the patterns.
type PatternFilter struct {
	markdownExt string
	imageExts   map[string]struct{}
	patterns    []*regexp.Regexp
}

var _ Filter = (*PatternFilter)(nil)

// NewPatternFilter compiles the exclusion patterns.
func NewPatternFilter(markdownExt string, imageExts, excludePatterns []string) (*PatternFilter, error) {
	f := &PatternFilter{
		markdownExt: strings.ToLower(markdownExt),
		imageExts:   make(map[string]struct{}, len(imageExts)),
	}
	for _, ext := range imageExts {
		f.imageExts[strings.ToLower(ext)] = struct{}{}
	}
	for _, p := range excludePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidPattern, p, err)
		}
		f.patterns = append(f.patterns, re)
	}
	return f, nil
}

func (f *PatternFilter) excluded(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
		return true
	}
	for _, re := range f.patterns {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

func (f *PatternFilter) IsExcludedDir(name string) bool  { return f.excluded(name) }
func (f *PatternFilter) IsExcludedFile(name string) bool { return f.excluded(name) }

func (f *PatternFilter) IsMarkdown(name string) bool {
	return f.markdownExt != "" && strings.EqualFold(filepath.Ext(name), f.markdownExt)
}

func (f *PatternFilter) IsImage(name string) bool {
	_, ok := f.imageExts[strings.ToLower(filepath.Ext(name))]
	return ok
}

// MarkdownExt returns the configured markdown extension.
func (f *PatternFilter) MarkdownExt() string { return f.markdownExt }
