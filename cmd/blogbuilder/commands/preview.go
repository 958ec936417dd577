package commands

import (
	"git.home.luguber.info/inful/blogbuilder/internal/preview"
)

// PreviewCmd implements the 'preview' command.
type PreviewCmd struct {
	Addr   string `help:"Override preview.addr"`
	Drafts bool   `help:"List unpublished posts on the index page"`
}

func (p *PreviewCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	if p.Addr != "" {
		cfg.Preview.Addr = p.Addr
	}
	ctx, cancel := signalContext()
	defer cancel()
	return preview.New(cfg, p.Drafts || cfg.Build.ListDrafts).Run(ctx)
}
