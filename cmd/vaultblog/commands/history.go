package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	foundation "git.home.luguber.info/inful/vaultblog/internal/foundation/errors"
	"git.home.luguber.info/inful/vaultblog/internal/history"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" help:"Number of runs to show" default:"10"`
}

func (c *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root, nil)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.History.Path); err != nil {
		return foundation.WrapError(err, foundation.CategoryConfig, "no run history recorded (set history.enabled)").
			WithPath(cfg.History.Path).
			Build()
	}
	store, err := history.NewSQLiteStore(cfg.History.Path)
	if err != nil {
		return err
	}
	g.onClose(store.Close)

	runs, err := history.Runs(context.Background(), store, c.Limit)
	if err != nil {
		return err
	}
	return printRuns(os.Stdout, runs)
}

func printRuns(w io.Writer, runs []history.RunSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STARTED\tRUN\tTRIGGER\tSTATUS\tOUTCOME\tPOSTS\tERRORS\tDURATION")
	for _, r := range runs {
		outcome, posts, errs, dur := "-", "-", "-", "-"
		if r.Result != nil {
			outcome = r.Result.Outcome
			posts = fmt.Sprint(r.Result.PostCount)
			errs = fmt.Sprint(r.Result.ErrorCount)
			dur = (time.Duration(r.Result.DurationMS) * time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.RunID, r.Trigger, r.Status, outcome, posts, errs, dur)
	}
	return tw.Flush()
}
