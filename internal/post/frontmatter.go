package post

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"
)

// frontMatter is the subset of note properties vaultblog understands.
// Unknown keys are ignored.
type frontMatter struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Draft       bool      `yaml:"draft"`
	Publish     *bool     `yaml:"publish"`
	Date        time.Time `yaml:"date"`
	Created     time.Time `yaml:"created"`
}

func (fm frontMatter) hidden() bool {
	return fm.Draft || (fm.Publish != nil && !*fm.Publish)
}

func (fm frontMatter) createdAt() time.Time {
	if !fm.Created.IsZero() {
		return fm.Created
	}
	return fm.Date
}

// splitFrontMatter separates a leading YAML/TOML/JSON block from the body.
// Sources without front matter are returned unchanged.
func splitFrontMatter(src []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(src), &fm)
	if err != nil {
		return frontMatter{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}
