package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// NewCmd implements the 'new' command.
type NewCmd struct {
	Title  string `arg:"" help:"Post title"`
	Legacy bool   `help:"Write a .md post instead of .mdx"`
	Date   string `help:"Post date (YYYY-MM-DD), defaults to today"`
}

func (n *NewCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	date := time.Now()
	if n.Date != "" {
		date, err = time.Parse(time.DateOnly, n.Date)
		if err != nil {
			return errors.ValidationError("invalid --date").WithCause(err).WithContext("value", n.Date).Build()
		}
	}

	rel, data, err := post.Scaffold(n.Title, date, n.Legacy)
	if err != nil {
		return err
	}
	dst := filepath.Join(cfg.Content.Dirs[0], filepath.FromSlash(rel))
	if _, err := os.Stat(dst); err == nil {
		return errors.ValidationError("post already exists").WithContext("path", dst).Build()
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("failed to create post directory").WithCause(err).WithContext("path", dst).Build()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write post").WithCause(err).WithContext("path", dst).Build()
	}
	_, _ = fmt.Fprintf(g.out(), "Created %s\n", dst)
	return nil
}
