package commands

import (
	"git.home.luguber.info/inful/blogbuilder/internal/daemon"
)

// DaemonCmd implements the 'daemon' command.
type DaemonCmd struct{}

func (d *DaemonCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore(store)

	ctx, cancel := signalContext()
	defer cancel()

	var opts []daemon.Option
	if store != nil {
		opts = append(opts, daemon.WithStateStore(store))
	}
	return daemon.New(cfg, opts...).Run(ctx)
}
