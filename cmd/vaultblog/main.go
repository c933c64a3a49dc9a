package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/vaultblog/cmd/vaultblog/commands"
	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("vaultblog"),
		kong.Description("Publish an Obsidian vault as a static blog"),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	global := &commands.Global{}
	err := parser.Run(global, cli)
	global.Close()
	foundation.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
