package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// HistoryCmd implements the 'history' command.
type HistoryCmd struct {
	Limit int `short:"n" default:"10" help:"Number of builds to show"`
}

func (h *HistoryCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	if store == nil {
		return errors.ConfigError("state.path is not set").Build()
	}
	defer closeStore(store)

	ctx, cancel := signalContext()
	defer cancel()

	builds, err := store.ListBuilds(ctx, h.Limit)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tID\tOUTCOME\tPAGES\tDURATION")
	for _, b := range builds {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			b.StartedAt.Local().Format(time.DateTime), b.ID, b.Outcome, b.Pages,
			b.FinishedAt.Sub(b.StartedAt).Truncate(time.Millisecond))
	}
	return tw.Flush()
}
