package commands

import (
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
}

func (l *LintCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	linter := lint.NewLinter(&lint.Config{Quiet: l.Quiet, Format: l.Format, PathPrefix: cfg.Site.PathPrefix})
	result, err := linter.LintContent(ctx, cfg.Content)
	if err != nil {
		return err
	}
	if err := lint.NewFormatter(l.Format).Format(g.out(), result, cfg.Content.Dirs); err != nil {
		return errors.InternalError("failed to format lint output").WithCause(err).Build()
	}
	if result.HasErrors() {
		return errors.ValidationError("lint found errors").
			WithContext("errors", result.ErrorCount()).Build()
	}
	return nil
}
