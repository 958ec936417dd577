package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output        string `short:"o" help:"Override output.directory"`
	Drafts        bool   `help:"List unpublished posts on the index page"`
	SkipUnchanged bool   `name:"skip-unchanged" help:"Skip the build when content and configuration match the last successful build"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx, cancel := signalContext()
	defer cancel()

	gen := site.NewGenerator(cfg).WithDrafts(b.Drafts || cfg.Build.ListDrafts)
	if store != nil {
		gen = gen.WithStateStore(store).WithSkipUnchanged(b.SkipUnchanged)
	}
	report, err := gen.Build(ctx)
	if report != nil {
		_, _ = fmt.Fprintf(g.out(), "%s\n", report.Summary())
	}
	return err
}
