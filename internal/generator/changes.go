package generator

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/vaultblog/internal/post"
)

// ChangeSummary counts post differences against the previous run of the
// same Generator.
type ChangeSummary struct {
	Added   int `json:"added"`
	Changed int `json:"changed"`
	Removed int `json:"removed"`
}

// Empty reports whether nothing changed.
func (c ChangeSummary) Empty() bool { return c.Added == 0 && c.Changed == 0 && c.Removed == 0 }

// fingerprint hashes the parts of a post that reach its outputs.
func fingerprint(p *post.Post) string {
	var meta strings.Builder
	meta.WriteString("title: ")
	meta.WriteString(p.Title)
	meta.WriteString("\ndescription: ")
	meta.WriteString(p.Description)
	meta.WriteString("\npath: ")
	meta.WriteString(p.SourcePath)
	return mdfp.CalculateFingerprintFromParts(meta.String(), string(p.Content))
}

func fingerprints(posts []*post.Post) map[string]string {
	out := make(map[string]string, len(posts))
	for _, p := range posts {
		out[p.Slug] = fingerprint(p)
	}
	return out
}

func diffFingerprints(prev, cur map[string]string) ChangeSummary {
	var c ChangeSummary
	for slug, fp := range cur {
		old, ok := prev[slug]
		switch {
		case !ok:
			c.Added++
		case old != fp:
			c.Changed++
		}
	}
	for slug := range prev {
		if _, ok := cur[slug]; !ok {
			c.Removed++
		}
	}
	return c
}
