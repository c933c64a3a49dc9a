package output

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/post"
)

//go:embed assets/manifest.schema.json
var manifestSchemaJSON []byte

var manifestSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("blog-list.schema.json", bytes.NewReader(manifestSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile("blog-list.schema.json")
})

// Manifest is the document the client-side loader reads. It never carries
// post bodies or rendered HTML.
type Manifest struct {
	BlogList    string        `json:"blogList"`
	LastUpdated time.Time     `json:"lastUpdated"`
	TotalPosts  int           `json:"totalPosts"`
	Posts       []PostSummary `json:"posts"`
}

// PostSummary is the manifest entry of one post.
type PostSummary struct {
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Path         string    `json:"path"`
	Description  string    `json:"description"`
	LastModified time.Time `json:"lastModified"`
	Created      time.Time `json:"created"`
	URL          string    `json:"url"`
}

// BuildManifest assembles the manifest for posts in the given order.
func BuildManifest(posts []*post.Post, sidebar string, now time.Time) Manifest {
	m := Manifest{
		BlogList:    sidebar,
		LastUpdated: now.UTC(),
		TotalPosts:  len(posts),
		Posts:       make([]PostSummary, 0, len(posts)),
	}
	for _, p := range posts {
		m.Posts = append(m.Posts, PostSummary{
			Title:        p.Title,
			Slug:         p.Slug,
			Path:         p.SourcePath,
			Description:  p.Description,
			LastModified: p.LastModified.UTC(),
			Created:      p.Created.UTC(),
			URL:          p.URL,
		})
	}
	return m
}

// EncodeManifest marshals m and checks it against the embedded schema.
func EncodeManifest(m Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	data := buf.Bytes()
	schema, err := manifestSchema()
	if err != nil {
		return nil, fmt.Errorf("compile manifest schema: %w", err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}
	return data, nil
}

// WriteManifest writes blog-list.json below the site root.
func (w *Writer) WriteManifest(posts []*post.Post, sidebar string) error {
	path := filepath.Join(w.opts.SiteRoot, ManifestFile)
	data, err := EncodeManifest(BuildManifest(posts, sidebar, w.now()))
	if err == nil {
		err = writeFileAtomic(path, data)
	}
	if err != nil {
		slog.Warn("Failed to write manifest", logfields.Path(path), logfields.Error(err))
		return w.artifactError(err, "manifest", path)
	}
	slog.Info("Wrote manifest", logfields.Path(path), logfields.Count(len(posts)))
	return nil
}
