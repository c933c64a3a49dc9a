package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/vaultblog/internal/config"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/generator"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
)

// GenerateCmd implements the 'generate' command.
type GenerateCmd struct {
	Source string `short:"s" help:"Override paths.source" type:"path"`
	Output string `short:"o" help:"Override paths.output" type:"path"`
}

func (c *GenerateCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, nil)
	if err != nil {
		return err
	}
	if err := applyPathOverrides(cfg, c.Source, c.Output); err != nil {
		return err
	}

	gen, err := generator.New(cfg, generator.WithHistory(openHistory(g, cfg)))
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	res := gen.Generate(ctx, generator.TriggerCLI)
	fmt.Println(res.Report.Summary())
	for _, e := range res.Report.Warnings {
		slog.Debug("Generation warning", logfields.Error(e))
	}
	if !res.Success {
		return foundation.BuildError("generation failed").
			WithContext("run_id", res.RunID).
			WithCause(res.Errors[0]).
			Build()
	}
	return nil
}

// applyPathOverrides replaces the configured source and output directories
// and re-validates the result.
func applyPathOverrides(cfg *config.Config, source, output string) error {
	if source == "" && output == "" {
		return nil
	}
	if source != "" {
		cfg.Paths.Source = source
	}
	if output != "" {
		cfg.Paths.Output = output
	}
	return config.ValidateConfig(cfg)
}
