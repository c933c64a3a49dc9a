package config

import (
	"time"

	"git.home.luguber.info/inful/vaultblog/internal/retry"
)

// CurrentVersion is the only configuration schema version accepted by Load.
const CurrentVersion = "1.0"

// Config is the full vaultblog configuration.
type Config struct {
	Version string        `yaml:"version"`
	Site    SiteConfig    `yaml:"site"`
	Paths   PathsConfig   `yaml:"paths"`
	Files   FilesConfig   `yaml:"files"`
	Output  OutputConfig  `yaml:"output"`
	RSS     RSSConfig     `yaml:"rss"`
	Sitemap SitemapConfig `yaml:"sitemap"`
	Watch   WatchConfig   `yaml:"watch"`
	History HistoryConfig `yaml:"history"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// SiteConfig carries the public identity of the blog.
type SiteConfig struct {
	URL         string `yaml:"url"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"` // BCP-47 tag; drives collation and <html lang>
}

// PathsConfig locates the vault and the generated bundle.
type PathsConfig struct {
	Source     string `yaml:"source"`
	Output     string `yaml:"output"`
	SiteRoot   string `yaml:"site_root"`  // receives blog-list.json, rss.xml and sitemap.xml
	URLPrefix  string `yaml:"url_prefix"` // path segment between site URL and slug
	Stylesheet string `yaml:"stylesheet"`
	StateDir   string `yaml:"state_dir"` // build report location, never inside Output
}

// FilesConfig holds the collector's selection and exclusion rules.
type FilesConfig struct {
	MarkdownExt     string   `yaml:"markdown_ext"`
	ImageExts       []string `yaml:"image_exts"`
	ExcludePatterns []string `yaml:"exclude_patterns"`
}

// OutputConfig controls how posts are materialized.
type OutputConfig struct {
	DescriptionLength int    `yaml:"description_length"`
	WriteHTML         *bool  `yaml:"write_html,omitempty"`
	MinifyHTML        bool   `yaml:"minify_html"`
	Template          string `yaml:"template,omitempty"`
	HighlightStyle    string `yaml:"highlight_style"`
}

// HTMLEnabled reports whether per-post HTML pages are written.
func (o OutputConfig) HTMLEnabled() bool {
	return o.WriteHTML == nil || *o.WriteHTML
}

// RSSConfig controls rss.xml.
type RSSConfig struct {
	Enabled     *bool  `yaml:"enabled,omitempty"`
	MaxItems    int    `yaml:"max_items"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// IsEnabled reports whether the feed is written; unset means enabled.
func (r RSSConfig) IsEnabled() bool { return r.Enabled == nil || *r.Enabled }

// SitemapConfig controls sitemap.xml.
type SitemapConfig struct {
	Enabled    *bool      `yaml:"enabled,omitempty"`
	ChangeFreq ChangeFreq `yaml:"changefreq"`
	Priority   float64    `yaml:"priority"`
}

// IsEnabled reports whether the sitemap is written; unset means enabled.
func (s SitemapConfig) IsEnabled() bool { return s.Enabled == nil || *s.Enabled }

// WatchConfig controls watch mode.
type WatchConfig struct {
	Debounce       string `yaml:"debounce"`
	ResyncInterval string `yaml:"resync_interval,omitempty"`
	LogFile        string `yaml:"log_file,omitempty"`
	MetricsAddr    string `yaml:"metrics_addr,omitempty"`
}

// DebounceDuration returns the parsed debounce delay. Validation guarantees it parses.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// ResyncDuration returns the periodic full-regeneration interval, zero when disabled.
func (w WatchConfig) ResyncDuration() time.Duration {
	if w.ResyncInterval == "" {
		return 0
	}
	d, _ := time.ParseDuration(w.ResyncInterval)
	return d
}

// HistoryConfig controls the SQLite run history.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig controls NATS notifications after watch-mode regenerations.
type NotifyConfig struct {
	NATSURL string      `yaml:"nats_url,omitempty"`
	Subject string      `yaml:"subject"`
	Retry   RetryConfig `yaml:"retry"`
}

// Enabled reports whether a NATS URL is configured.
func (n NotifyConfig) Enabled() bool { return n.NATSURL != "" }

// RetryConfig is the backoff applied to failed publishes.
type RetryConfig struct {
	Mode    string `yaml:"mode"` // fixed|linear|exponential
	Initial string `yaml:"initial"`
	Max     string `yaml:"max"`
	Retries int    `yaml:"retries"`
}

// Policy converts the settings into a retry.Policy.
func (r RetryConfig) Policy() retry.Policy {
	initial, _ := time.ParseDuration(r.Initial)
	maxDelay, _ := time.ParseDuration(r.Max)
	return retry.NewPolicy(retry.Mode(r.Mode), initial, maxDelay, r.Retries)
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}
