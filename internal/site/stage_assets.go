package site

import (
	"context"
	"log/slog"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/images"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

const (
	avatarFile = "avatar.png"
	avatarSize = 50
)

// stageAssets publishes the files discovered next to posts, then produces the
// avatar and manifest icons. Missing avatar or icon sources only warn.
func stageAssets(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	cfg := g.cfg
	root := g.outputRoot()
	proc := images.NewProcessor(cfg.Images.MaxWidth, cfg.Images.Quality)

	results := runOrdered(ctx, bs.Assets, cfg.Build.Workers, func(a content.Asset) (images.Result, error) {
		return proc.Process(a.Path, filepath.Join(root, filepath.FromSlash(a.RelativePath)))
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.Aggregate(collectErrors(results)); err != nil {
		return err
	}
	for _, r := range results {
		if r.Value.Resized {
			bs.Report.ResizedImages++
			slog.Debug("Image resized", logfields.Path(r.Value.Dest), slog.Int("width", r.Value.Width))
		}
	}

	if cfg.Site.Avatar != "" {
		if err := images.Avatar(cfg.Site.Avatar, filepath.Join(root, avatarFile), avatarSize); err != nil {
			bs.Report.AddWarning(errors.ContentError("avatar not generated").
				WithCause(err).WithContext("path", cfg.Site.Avatar).Warning().Build())
		} else {
			bs.AvatarURL = g.urlPath(avatarFile)
		}
	}

	if cfg.Manifest.Enabled && cfg.Manifest.Icon != "" {
		icons, err := images.GenerateIcons(cfg.Manifest.Icon, root, cfg.Site.PathPrefix, cfg.Manifest.IconSizes)
		if err != nil {
			bs.Report.AddWarning(errors.ContentError("manifest icons not generated").
				WithCause(err).WithContext("path", cfg.Manifest.Icon).Warning().Build())
		} else {
			bs.Icons = icons
		}
	}
	return nil
}
