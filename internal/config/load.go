package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
)

// Load reads, expands, defaults and validates a configuration file.
// Environment references (${VAR}) are expanded after .env files are loaded.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Warn("Environment file could not be loaded", slog.String("error", err.Error()))
	}

	data, err := os.ReadFile(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, foundation.ConfigError("configuration file not found").
			WithPath(configPath).
			WithCause(err).
			Build()
	}
	if err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "read configuration").
			WithPath(configPath).
			Fatal().
			Build()
	}

	return Parse(data, configPath)
}

// Parse decodes raw YAML configuration. source is only used in error context.
func Parse(data []byte, source string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "parse configuration").
			WithPath(source).
			Fatal().
			Build()
	}
	if cfg.Version == "" {
		cfg.Version = CurrentVersion
	}

	if err := ApplyDefaults(&cfg); err != nil {
		return nil, foundation.WrapError(err, foundation.CategoryConfig, "apply defaults").Fatal().Build()
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return foundation.ValidationError("configuration file already exists (use --force to overwrite)").
			WithPath(configPath).
			Build()
	}

	rssOn := true
	example := Config{
		Version: CurrentVersion,
		Site: SiteConfig{
			URL:         "https://blog.example.com",
			Title:       "My Vault",
			Description: "Notes published straight from Obsidian",
			Author:      "me",
			Language:    "ko",
		},
		Paths: PathsConfig{
			Source:     "go",
			Output:     "blog",
			SiteRoot:   ".",
			Stylesheet: "../assets/css/main.css",
		},
		Files: FilesConfig{
			MarkdownExt:     ".md",
			ImageExts:       DefaultImageExts,
			ExcludePatterns: DefaultExcludePatterns,
		},
		Output: OutputConfig{
			DescriptionLength: 150,
			HighlightStyle:    "github",
		},
		RSS: RSSConfig{
			Enabled:  &rssOn,
			MaxItems: 20,
		},
		Sitemap: SitemapConfig{
			ChangeFreq: ChangeFreqWeekly,
			Priority:   0.8,
		},
		Watch: WatchConfig{
			Debounce: "500ms",
			LogFile:  "/var/log/vaultblog.log",
		},
		Notify: NotifyConfig{
			NATSURL: "${VAULTBLOG_NATS_URL}",
			Subject: "vaultblog.generated",
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("marshal example config: %w", err)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return foundation.WrapError(err, foundation.CategoryFileSystem, "write configuration").
			WithPath(configPath).
			Fatal().
			Build()
	}
	return nil
}
