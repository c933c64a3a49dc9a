package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/vaultblog/internal/config"
	"git.home.luguber.info/inful/vaultblog/internal/history"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/logging"
)

// Global holds process-wide resources shared by subcommands.
type Global struct {
	closers []func() error
}

// Close releases everything registered during the command.
func (g *Global) Close() {
	for i := len(g.closers) - 1; i >= 0; i-- {
		if err := g.closers[i](); err != nil {
			slog.Warn("Cleanup failed", logfields.Error(err))
		}
	}
	g.closers = nil
}

func (g *Global) onClose(fn func() error) { g.closers = append(g.closers, fn) }

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"vaultblog.yaml" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Generate the blog once"`
	Watch    WatchCmd    `cmd:"" help:"Generate, then regenerate whenever the vault changes"`
	Init     InitCmd     `cmd:"" help:"Write an example configuration file"`
	Tree     TreeCmd     `cmd:"" help:"Print the folder tree of publishable posts"`
	History  HistoryCmd  `cmd:"" help:"List recent generation runs"`
}

// AfterApply installs a console logger until a command configures its own.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(logging.ContextHandler{
		Handler: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}),
	}))
	return nil
}

// loadConfig reads root.Config and installs the configured logger. When
// logFile is set and returns a path, output is mirrored to that file.
func loadConfig(g *Global, root *CLI, logFile func(*config.Config) string) (*config.Config, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	mirror := ""
	if logFile != nil {
		mirror = logFile(cfg)
	}
	level := cfg.Logging.Level.SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	logger, closeLog := logging.New(logging.Options{
		Level:   level,
		Format:  logging.Format(cfg.Logging.Format),
		LogFile: mirror,
	})
	slog.SetDefault(logger)
	g.onClose(closeLog)
	slog.Debug("Configuration loaded", logfields.Path(root.Config))
	return cfg, nil
}

// openHistory returns the run history store, or nil when history is disabled.
func openHistory(g *Global, cfg *config.Config) history.Store {
	if !cfg.History.Enabled {
		return nil
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		slog.Warn("Run history unavailable", logfields.Path(cfg.History.Path), logfields.Error(err))
		return nil
	}
	g.onClose(store.Close)
	return store
}
