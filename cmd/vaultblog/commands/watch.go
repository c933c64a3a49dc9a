package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/vaultblog/internal/collect"
	"git.home.luguber.info/inful/vaultblog/internal/config"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/generator"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/metrics"
	"git.home.luguber.info/inful/vaultblog/internal/notify"
	"git.home.luguber.info/inful/vaultblog/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	LogFile     string `help:"Override watch.log_file" type:"path"`
	MetricsAddr string `help:"Override watch.metrics_addr (e.g. :9090)"`
}

func (c *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, func(cfg *config.Config) string {
		if c.LogFile != "" {
			return c.LogFile
		}
		return cfg.Watch.LogFile
	})
	if err != nil {
		return err
	}
	if c.MetricsAddr != "" {
		cfg.Watch.MetricsAddr = c.MetricsAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	recorder := metrics.Recorder(metrics.NoopRecorder{})
	if cfg.Watch.MetricsAddr != "" {
		pr := metrics.NewPrometheusRecorder(prom.NewRegistry())
		recorder = pr
		stop := serveMetrics(cfg.Watch.MetricsAddr, pr.Handler())
		g.onClose(stop)
	}

	publisher := notify.Publisher(notify.Nop{})
	if cfg.Notify.Enabled() {
		p, err := notify.NewNATSPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject, cfg.Notify.Retry.Policy())
		if err != nil {
			slog.Warn("Notifications disabled", logfields.Subject(cfg.Notify.Subject), logfields.Error(err))
		} else {
			publisher = p
			g.onClose(p.Close)
		}
	}

	gen, err := generator.New(cfg,
		generator.WithRecorder(recorder),
		generator.WithHistory(openHistory(g, cfg)))
	if err != nil {
		return err
	}

	filter, err := collect.NewPatternFilter(cfg.Files.MarkdownExt, cfg.Files.ImageExts, cfg.Files.ExcludePatterns)
	if err != nil {
		return foundation.WrapError(err, foundation.CategoryConfig, "invalid file filter").Build()
	}
	rec, err := watch.New(gen, watch.Options{
		Source:    cfg.Paths.Source,
		Output:    cfg.Paths.Output,
		Filter:    filter,
		Debounce:  cfg.Watch.DebounceDuration(),
		Resync:    cfg.Watch.ResyncDuration(),
		Recorder:  recorder,
		Publisher: publisher,
	})
	if err != nil {
		return err
	}
	return rec.Run(ctx)
}

// serveMetrics exposes h on addr/metrics and returns a shutdown function.
func serveMetrics(addr string, h http.Handler) func() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", logfields.Addr(addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Addr(addr), logfields.Error(err))
		}
	}()
	return func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
