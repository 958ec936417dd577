package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// PostsCmd implements the 'posts' command.
type PostsCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	All    bool   `short:"a" help:"Include unpublished posts"`
}

func (p *PostsCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	c, _, err := site.NewGenerator(cfg).Collect(ctx)
	if err != nil {
		return err
	}
	nodes := c.Published()
	if p.All {
		nodes = c.All()
	}
	entries := post.Listing(nodes)

	if p.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	tw := tabwriter.NewWriter(g.out(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DATE\tSLUG\tTITLE\tREADING\tSTATUS")
	for _, e := range entries {
		status := "published"
		if !e.Published {
			status = "draft"
		}
		date := "-"
		if !e.Date.IsZero() {
			date = e.Date.Format(time.DateOnly)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", date, e.Slug, e.Title, post.ReadingTimeLabel(e.ReadingTime), status)
	}
	return tw.Flush()
}
