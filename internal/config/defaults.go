package config

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// DefaultExcludePatterns mirror the exclusions vault users expect out of the box:
// dotfiles, macOS resource forks, editor temp files, vendor folders, Obsidian metadata.
var DefaultExcludePatterns = []string{
	`^\.`,
	`^\._`,
	`\.tmp$`,
	`\.temp$`,
	`node_modules`,
	`\.obsidian`,
	`\.trash`,
}

// DefaultImageExts are the image extensions copied into the output tree.
var DefaultImageExts = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp"}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Site.URL = strings.TrimRight(cfg.Site.URL, "/")
	if cfg.Site.Title == "" {
		cfg.Site.Title = "Blog"
	}
	if cfg.Site.Language == "" {
		cfg.Site.Language = "ko"
	}
	return nil
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Paths.Source == "" {
		cfg.Paths.Source = "go"
	}
	if cfg.Paths.Output == "" {
		cfg.Paths.Output = "blog"
	}
	if cfg.Paths.SiteRoot == "" {
		cfg.Paths.SiteRoot = "."
	}
	if cfg.Paths.URLPrefix == "" {
		cfg.Paths.URLPrefix = filepath.Base(filepath.Clean(cfg.Paths.Output))
	}
	cfg.Paths.URLPrefix = strings.Trim(filepath.ToSlash(cfg.Paths.URLPrefix), "/")
	if cfg.Paths.StateDir == "" {
		cfg.Paths.StateDir = ".vaultblog"
	}
	return nil
}

type filesDefaults struct{}

func (filesDefaults) Domain() string { return "files" }

func (filesDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Files.MarkdownExt == "" {
		cfg.Files.MarkdownExt = ".md"
	}
	if len(cfg.Files.ImageExts) == 0 {
		cfg.Files.ImageExts = append([]string(nil), DefaultImageExts...)
	}
	for i, ext := range cfg.Files.ImageExts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		cfg.Files.ImageExts[i] = ext
	}
	if cfg.Files.ExcludePatterns == nil {
		cfg.Files.ExcludePatterns = append([]string(nil), DefaultExcludePatterns...)
	}
	return nil
}

type outputDefaults struct{}

func (outputDefaults) Domain() string { return "output" }

func (outputDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Output.DescriptionLength == 0 {
		cfg.Output.DescriptionLength = 150
	}
	if cfg.Output.HighlightStyle == "" {
		cfg.Output.HighlightStyle = "github"
	}
	return nil
}

type feedDefaults struct{}

func (feedDefaults) Domain() string { return "feeds" }

func (feedDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.RSS.MaxItems == 0 {
		cfg.RSS.MaxItems = 20
	}
	if cfg.RSS.Title == "" {
		cfg.RSS.Title = cfg.Site.Title
	}
	if cfg.RSS.Description == "" {
		cfg.RSS.Description = cfg.Site.Description
	}
	cfg.Sitemap.ChangeFreq = NormalizeChangeFreq(string(cfg.Sitemap.ChangeFreq))
	if cfg.Sitemap.Priority == 0 {
		cfg.Sitemap.Priority = 0.8
	}
	return nil
}

type watchDefaults struct{}

func (watchDefaults) Domain() string { return "watch" }

func (watchDefaults) ApplyDefaults(cfg *Config) error {
	if cfg.Watch.Debounce == "" {
		cfg.Watch.Debounce = "500ms"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = filepath.Join(cfg.Paths.StateDir, "history.db")
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "vaultblog.generated"
	}
	if r := &cfg.Notify.Retry; r.Mode == "" {
		r.Mode = "exponential"
		if r.Initial == "" {
			r.Initial = "200ms"
		}
		if r.Max == "" {
			r.Max = "2s"
		}
		if r.Retries == 0 {
			r.Retries = 2
		}
	}
	return nil
}

type loggingDefaults struct{}

func (loggingDefaults) Domain() string { return "logging" }

func (loggingDefaults) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	return nil
}

// defaultAppliers runs in order; later domains may read earlier results
// (history path depends on the state dir, RSS title on the site title).
var defaultAppliers = []DefaultApplier{
	siteDefaults{},
	pathsDefaults{},
	filesDefaults{},
	outputDefaults{},
	feedDefaults{},
	watchDefaults{},
	loggingDefaults{},
}

// ApplyDefaults fills every unset field.
func ApplyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("%s defaults: %w", applier.Domain(), err)
		}
	}
	return nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{Version: CurrentVersion}
	_ = ApplyDefaults(cfg)
	return cfg
}
