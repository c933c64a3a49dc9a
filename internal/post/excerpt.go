package post

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Title and description extraction is a best-effort heuristic over raw
// markdown, not a parser. Only the transformations below are supported.
var (
	titleLine       = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)
	paragraphBreak  = regexp.MustCompile(`\n[ \t]*\n`)
	headingMarker   = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	headingLine     = regexp.MustCompile(`^[ \t]*#{1,6}(?:[ \t].*)?$`)
	strongStar      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	strongUnder     = regexp.MustCompile(`__(.+?)__`)
	emphasisStar    = regexp.MustCompile(`\*(.+?)\*`)
	imageInline     = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	imageEmbed      = regexp.MustCompile(`!\[\[[^\]]*\]\]`)
	linkInline      = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	wikiLinkAliased = regexp.MustCompile(`\[\[[^\]|]*\|([^\]]*)\]\]`)
	wikiLink        = regexp.MustCompile(`\[\[([^\]]*)\]\]`)
	whitespace      = regexp.MustCompile(`\s+`)
)

// ExtractTitle returns the text of the first level-1 heading, or the file
// name without extension with hyphens turned into spaces.
func ExtractTitle(body []byte, fileName string) string {
	if m := titleLine.FindSubmatch(normalizeNewlines(body)); m != nil {
		if t := strings.TrimSpace(string(m[1])); t != "" {
			return t
		}
	}
	base := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return strings.TrimSpace(strings.ReplaceAll(base, "-", " "))
}

// ExtractDescription returns the first paragraph with prose, with heading
// lines dropped, emphasis, images and link syntax stripped (links keep their
// text), whitespace collapsed, and capped at limit characters. A tag such as
// "#go" is not a heading and stays part of the text.
func ExtractDescription(body []byte, limit int) string {
	for _, para := range paragraphBreak.Split(string(normalizeNewlines(body)), -1) {
		trimmed := strings.TrimSpace(dropHeadings(para))
		if trimmed == "" || strings.HasPrefix(trimmed, "```") {
			continue
		}
		if text := plainText(trimmed); text != "" {
			return truncate(text, limit)
		}
	}
	return ""
}

func dropHeadings(para string) string {
	lines := strings.Split(para, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if !headingLine.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

func plainText(s string) string {
	s = headingMarker.ReplaceAllString(s, "")
	s = imageInline.ReplaceAllString(s, "")
	s = imageEmbed.ReplaceAllString(s, "")
	s = linkInline.ReplaceAllString(s, "$1")
	s = wikiLinkAliased.ReplaceAllString(s, "$1")
	s = wikiLink.ReplaceAllString(s, "$1")
	s = strongStar.ReplaceAllString(s, "$1")
	s = strongUnder.ReplaceAllString(s, "$1")
	s = emphasisStar.ReplaceAllString(s, "$1")
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:limit]))
}

func normalizeNewlines(b []byte) []byte {
	return []byte(strings.ReplaceAll(string(b), "\r\n", "\n"))
}
