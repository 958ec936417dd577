package content

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Result is the outcome of a discovery pass.
type Result struct {
	Documents []*Document
	Assets    []Asset
}

// Discovery finds posts and assets in the configured content directories.
type Discovery struct {
	dirs   []string
	ignore []string
}

// NewDiscovery creates a discovery for cfg.
func NewDiscovery(cfg config.ContentConfig) *Discovery {
	return &Discovery{dirs: cfg.Dirs, ignore: cfg.Ignore}
}

// Discover walks every content directory in configuration order.
//
// Documents are numbered in discovery order. Read and frontmatter errors do not stop
// the walk; they are collected and returned together once every directory has been read,
// alongside a Result holding the documents that did parse. Any other error yields a nil Result.
func (d *Discovery) Discover(ctx context.Context) (*Result, error) {
	for _, pattern := range d.ignore {
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.ConfigError("invalid content.ignore pattern").
				WithCause(fmt.Errorf("%w: %q", ErrInvalidIgnorePattern, pattern)).Build()
		}
	}

	res := &Result{}
	var docErrs []error

	for _, dir := range d.dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			slog.Warn("Content directory not found", logfields.Path(dir))
			continue
		}

		before := len(res.Documents)
		walkErr := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			name := entry.Name()
			if path != dir && strings.HasPrefix(name, ".") {
				if entry.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return err
			}
			rel = filepath.ToSlash(rel)

			if entry.IsDir() {
				if rel != "." && d.ignored(rel) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.ignored(rel) {
				slog.Debug("Ignoring file", logfields.File(rel))
				return nil
			}

			if _, ok := FormatForPath(name); ok {
				doc, err := ReadDocument(dir, rel, len(res.Documents)+len(docErrs))
				if err != nil {
					docErrs = append(docErrs, errors.ContentError("could not read post").
						WithCause(err).WithContext("file", rel).Build())
					return nil
				}
				res.Documents = append(res.Documents, doc)
				slog.Debug("Discovered post", logfields.File(rel), logfields.Format(string(doc.Format)))
				return nil
			}

			if isAsset(name) {
				res.Assets = append(res.Assets, Asset{Path: path, Root: dir, RelativePath: rel})
			}
			return nil
		})
		if walkErr != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, errors.FileSystemError("content directory walk failed").
				WithCause(fmt.Errorf("%w: %s: %w", ErrWalkFailed, dir, walkErr)).Build()
		}

		slog.Info("Content discovered", logfields.Path(dir), logfields.Count(len(res.Documents)-before))
	}

	slog.Info("Total posts discovered", logfields.Count(len(res.Documents)), slog.Int("assets", len(res.Assets)))
	return res, errors.Aggregate(docErrs)
}

// ignored reports whether rel matches any content.ignore pattern.
// Patterns are validated in Discover, so match errors cannot occur here.
func (d *Discovery) ignored(rel string) bool {
	for _, pattern := range d.ignore {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Dirs returns the content directories this discovery walks.
func (d *Discovery) Dirs() []string {
	out := make([]string, len(d.dirs))
	copy(out, d.dirs)
	return out
}
