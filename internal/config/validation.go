package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/retry"
)

// ValidateConfig validates the complete configuration and returns a
// classified validation error describing every offending field.
func ValidateConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return foundation.WrapError(err, foundation.CategoryValidation, "invalid configuration").
			Fatal().
			UserAction().
			Build()
	}
	return nil
}

// Validate implements validation.Validatable.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Version, validation.Required, validation.In(CurrentVersion).Error("unsupported version, expected "+CurrentVersion)),
		validation.Field(&c.Site),
		validation.Field(&c.Paths),
		validation.Field(&c.Files),
		validation.Field(&c.Output),
		validation.Field(&c.RSS),
		validation.Field(&c.Sitemap),
		validation.Field(&c.Watch),
		validation.Field(&c.Notify),
	)
}

func (s SiteConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.URL, validation.Required, validation.By(absoluteHTTPURL)),
		validation.Field(&s.Title, validation.Required),
		validation.Field(&s.Language, validation.By(languageTag)),
	)
}

func (p PathsConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Source, validation.Required),
		validation.Field(&p.Output, validation.Required, validation.By(func(any) error {
			if filepath.Clean(p.Output) == filepath.Clean(p.Source) {
				return errors.New("must differ from the source directory")
			}
			if within(p.Source, p.Output) {
				return errors.New("must not be inside the source directory")
			}
			if within(p.Output, p.Source) {
				return errors.New("must not contain the source directory")
			}
			return nil
		})),
		validation.Field(&p.SiteRoot, validation.By(func(any) error {
			if p.SiteRoot != "" && filepath.Clean(p.SiteRoot) == filepath.Clean(p.Source) {
				return errors.New("must differ from the source directory")
			}
			return nil
		})),
		validation.Field(&p.URLPrefix, validation.Match(regexp.MustCompile(`^[\w\-/.]*$`))),
		validation.Field(&p.StateDir, validation.By(func(any) error {
			if p.StateDir != "" && filepath.Clean(p.StateDir) == filepath.Clean(p.Output) {
				return errors.New("must not be the output directory")
			}
			return nil
		})),
	)
}

func (f FilesConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MarkdownExt, validation.Required, validation.Match(regexp.MustCompile(`^\.[\w.]+$`))),
		validation.Field(&f.ImageExts, validation.Each(validation.Match(regexp.MustCompile(`^\.[\w]+$`)))),
		validation.Field(&f.ExcludePatterns, validation.Each(validation.By(compilableRegexp))),
	)
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.DescriptionLength, validation.Min(1)),
		validation.Field(&o.Template, validation.By(existingFile)),
	)
}

func (r RSSConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.MaxItems, validation.Min(1)),
	)
}

func (s SitemapConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.ChangeFreq, validation.By(func(any) error {
			_, err := changeFreqNormalizer.NormalizeWithValidation(string(s.ChangeFreq))
			return err
		})),
		validation.Field(&s.Priority, validation.Min(0.0), validation.Max(1.0)),
	)
}

func (w WatchConfig) Validate() error {
	return validation.ValidateStruct(&w,
		validation.Field(&w.Debounce, validation.Required, validation.By(positiveDuration(0))),
		validation.Field(&w.ResyncInterval, validation.By(positiveDuration(time.Second))),
	)
}

func (n NotifyConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.NATSURL, validation.By(func(value any) error {
			raw, _ := value.(string)
			if raw == "" {
				return nil
			}
			u, err := url.Parse(raw)
			if err != nil {
				return err
			}
			switch u.Scheme {
			case "nats", "tls", "ws", "wss":
				return nil
			default:
				return fmt.Errorf("unsupported scheme %q", u.Scheme)
			}
		})),
		validation.Field(&n.Subject, validation.Required, validation.Match(regexp.MustCompile(`^[A-Za-z0-9_\-]+(\.[A-Za-z0-9_\-]+)*$`))),
		validation.Field(&n.Retry),
	)
}

func (r RetryConfig) Validate() error {
	err := validation.ValidateStruct(&r,
		validation.Field(&r.Mode, validation.In(string(retry.ModeFixed), string(retry.ModeLinear), string(retry.ModeExponential))),
		validation.Field(&r.Initial, validation.By(positiveDuration(0))),
		validation.Field(&r.Max, validation.By(positiveDuration(0))),
		validation.Field(&r.Retries, validation.Min(0), validation.Max(10)),
	)
	if err != nil {
		return err
	}
	return r.Policy().Validate()
}

func absoluteHTTPURL(value any) error {
	raw, _ := value.(string)
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("must be an absolute http(s) URL")
	}
	return nil
}

func languageTag(value any) error {
	raw, _ := value.(string)
	if raw == "" {
		return nil
	}
	if _, err := language.Parse(raw); err != nil {
		return fmt.Errorf("invalid language tag %q", raw)
	}
	return nil
}

func compilableRegexp(value any) error {
	raw, _ := value.(string)
	if _, err := regexp.Compile(raw); err != nil {
		return fmt.Errorf("invalid pattern %q: %w", raw, err)
	}
	return nil
}

func existingFile(value any) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	info, err := os.Stat(raw)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return errors.New("must be a file")
	}
	return nil
}

func positiveDuration(minimum time.Duration) validation.RuleFunc {
	return func(value any) error {
		raw, _ := value.(string)
		if raw == "" {
			return nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q", raw)
		}
		if d <= 0 || d < minimum {
			return fmt.Errorf("must be at least %s", max(minimum, time.Millisecond))
		}
		return nil
	}
}

// within reports whether path lies strictly below dir (both cleaned, absolutized when possible).
func within(dir, path string) bool {
	absDir, err1 := filepath.Abs(dir)
	absPath, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
