package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/vaultblog/internal/generator"
	"git.home.luguber.info/inful/vaultblog/internal/logfields"
	"git.home.luguber.info/inful/vaultblog/internal/tree"
)

// TreeCmd implements the 'tree' command.
type TreeCmd struct {
	Sidebar bool `help:"Print the sidebar markup instead of the outline"`
}

func (c *TreeCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, nil)
	if err != nil {
		return err
	}
	gen, err := generator.New(cfg)
	if err != nil {
		return err
	}
	repo, issues, err := gen.LoadPosts(context.Background())
	if err != nil {
		return err
	}
	for _, issue := range issues {
		slog.Warn("Skipped file", logfields.Error(issue))
	}

	t := tree.Build(repo.Posts(), cfg.Site.Language)
	if c.Sidebar {
		markup, err := tree.RenderSidebar(t)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(os.Stdout, markup)
		return err
	}
	return tree.Fprint(os.Stdout, t)
}
