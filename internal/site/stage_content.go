package site

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// stageDiscover reads every post and asset from the content directories.
// Posts that fail to read are kept as read errors for stageValidate.
func stageDiscover(ctx context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	res, err := content.NewDiscovery(cfg.Content).Discover(ctx)
	if res == nil {
		return err
	}
	bs.ReadErrors = append(bs.ReadErrors, errors.Flatten(err)...)
	bs.Documents = res.Documents
	bs.Assets = res.Assets
	bs.Report.Documents = len(res.Documents)
	bs.Report.Assets = len(res.Assets)

	hash, err := content.ComputeSetHash(res)
	if err != nil {
		return errors.FileSystemError("failed to hash content").WithCause(err).Build()
	}
	bs.Report.ContentHash = hash

	slog.Info("Content discovered", logfields.Count(len(res.Documents)), slog.Int("assets", len(res.Assets)))
	return nil
}

// stageDerive derives slug, published flag and reading time for every document.
func stageDerive(ctx context.Context, bs *BuildState) error {
	sources, err := post.DeriveAll(ctx, bs.Documents, bs.Generator.cfg.Build.Workers)
	if err != nil && sources == nil {
		return err
	}
	bs.ReadErrors = append(bs.ReadErrors, errors.Flatten(err)...)
	bs.Sources = sources
	return nil
}

// stageValidate applies the title, date and duplicate slug rules. Every fatal
// problem, read errors included, is reported together; recoverable ones become
// report warnings.
func stageValidate(_ context.Context, bs *BuildState) error {
	cfg := bs.Generator.cfg
	res, err := post.Validate(bs.Sources, post.ValidateOptions{
		InvalidDates:   cfg.Build.InvalidDates,
		DuplicateSlugs: cfg.Build.DuplicateSlugs,
	})
	errs := append(append([]error{}, bs.ReadErrors...), errors.Flatten(err)...)
	if err := errors.Aggregate(errs); err != nil {
		return err
	}
	bs.Sources = res.Sources
	for _, w := range res.Warnings {
		bs.Report.AddWarning(errors.ContentError(w).Warning().Build())
	}
	return nil
}

// stageCollate sorts the posts, links neighbors and decides whether the build can be skipped.
func stageCollate(ctx context.Context, bs *BuildState) error {
	bs.Collection = post.Collate(bs.Sources)
	bs.Contexts = post.Link(bs.Collection)
	bs.Report.Posts = bs.Collection.Len()
	bs.Report.Published = len(bs.Collection.Published())

	fps, err := post.Fingerprints(bs.Collection.All())
	if err != nil {
		return errors.InternalError("failed to fingerprint posts").WithCause(err).Build()
	}
	bs.Fingerprints = fps

	g := bs.Generator
	if g.store == nil {
		return nil
	}
	prev, err := g.store.Fingerprints(ctx)
	if err != nil {
		return NewWarnStageError(StageCollate, err)
	}
	bs.Report.Changes = state.Diff(prev, fps)

	if g.skipUnchanged && g.canSkip(ctx, bs.Report) {
		bs.Report.SkipReason = "no_changes"
		bs.SkipRemaining = true
	}
	return nil
}

// canSkip reports whether the last successful build used the same content and
// configuration and its listing page still exists.
func (g *Generator) canSkip(ctx context.Context, r *BuildReport) bool {
	last, err := g.store.LastSuccessfulBuild(ctx)
	if err != nil || last == nil {
		return false
	}
	if last.ContentHash != r.ContentHash || last.ConfigHash != r.ConfigHash {
		return false
	}
	if _, err := os.Stat(filepath.Join(g.outputRoot(), "index.html")); err != nil {
		slog.Info("Content unchanged but output missing; rebuilding")
		return false
	}
	return true
}
