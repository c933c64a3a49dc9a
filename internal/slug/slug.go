// Package slug derives canonical post identifiers from vault-relative paths.
//
// A slug keeps the folder hierarchy of its source path ("Notes/Hello-World"),
// contains only Unicode letters, digits, underscores, hyphens and forward
// slashes, and never starts or ends with a hyphen.
package slug

import (
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMarkdownExt is stripped by Encode.
const DefaultMarkdownExt = ".md"

var (
	// \s alone is ASCII-only; \p{Z} and U+FEFF cover NBSP, ideographic and em spaces.
	whitespaceRun = regexp.MustCompile(`[\s\p{Z}\x{FEFF}]+`)
	disallowed    = regexp.MustCompile(`[^\p{L}\p{N}_\-/]`)
	hyphenRun     = regexp.MustCompile(`-+`)
)

// Codec encodes relative paths into slugs for one markdown extension.
type Codec struct {
	ext string
}

// NewCodec returns a Codec stripping ext (case-insensitive). An empty ext means DefaultMarkdownExt.
func NewCodec(ext string) Codec {
	if ext == "" {
		ext = DefaultMarkdownExt
	}
	return Codec{ext: strings.ToLower(ext)}
}

// Encode maps a relative path to its slug. It is total: malformed input
// yields an empty or degenerate slug, which callers must reject.
//
// Input is NFC-normalized first so decomposed file names (as written by
// macOS for Hangul and accented Latin) produce the same slug as composed ones.
func (c Codec) Encode(relativePath string) string {
	s := norm.NFC.String(relativePath)
	if c.ext == "" {
		c.ext = DefaultMarkdownExt
	}
	if len(s) >= len(c.ext) && strings.EqualFold(s[len(s)-len(c.ext):], c.ext) {
		s = s[:len(s)-len(c.ext)]
	}
	s = strings.ReplaceAll(s, `\`, "/")
	s = whitespaceRun.ReplaceAllString(s, "-")
	s = disallowed.ReplaceAllString(s, "")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Encode uses DefaultMarkdownExt.
func Encode(relativePath string) string {
	return NewCodec(DefaultMarkdownExt).Encode(relativePath)
}

// HasEmptySegment reports whether s contains an empty path segment, as in
// "a//b" or "a/", produced when a folder name is made only of punctuation.
// Such a slug would share its output file with the slug lacking that segment.
func HasEmptySegment(s string) bool {
	return slices.Contains(strings.Split(s, "/"), "")
}

// Segments splits a slug into its folder path and leaf name.
func Segments(s string) (folders []string, leaf string) {
	parts := strings.Split(s, "/")
	return parts[:len(parts)-1], parts[len(parts)-1]
}
