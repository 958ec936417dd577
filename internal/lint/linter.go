package lint

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

const ruleFrontmatterParse = "frontmatter-parse"

// Linter checks content directories against the post rules.
type Linter struct {
	cfg   *Config
	rules []Rule
}

// NewLinter creates a linter with every rule enabled.
func NewLinter(cfg *Config) *Linter {
	if cfg == nil {
		cfg = &Config{Format: "text"}
	}
	return &Linter{
		cfg: cfg,
		rules: []Rule{
			&FrontmatterRequiredRule{},
			&FrontmatterDateRule{},
			&DuplicateSlugRule{},
			&FilenameRule{},
			&BrokenLinkRule{},
		},
	}
}

// LintContent lints every post and asset below the configured content directories.
// Files that cannot be read or parsed become issues rather than errors.
func (l *Linter) LintContent(ctx context.Context, cc config.ContentConfig) (*Result, error) {
	result := &Result{Issues: []Issue{}}

	var files []File
	for _, dir := range cc.Dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			slog.Warn("Content directory not found", logfields.Path(dir))
			continue
		}
		found, err := l.collect(ctx, dir, cc.Ignore, result)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}

	idx := NewIndex(files, l.cfg.PathPrefix)
	for _, f := range files {
		l.lintFile(f, idx, result)
	}
	result.FilesTotal += len(files)

	sort.SliceStable(result.Issues, func(i, j int) bool {
		return result.Issues[i].FilePath < result.Issues[j].FilePath
	})
	return result, nil
}

// collect walks dir and reads every post; parse failures are recorded on result.
func (l *Linter) collect(ctx context.Context, dir string, ignore []string, result *Result) ([]File, error) {
	var files []File
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if p != dir && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel != "." && ignored(ignore, rel) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}

		if _, ok := content.FormatForPath(d.Name()); ok {
			doc, err := content.ReadDocument(dir, rel, len(files))
			if err != nil {
				result.FilesTotal++
				result.Issues = append(result.Issues, Issue{
					FilePath:    rel,
					Severity:    SeverityError,
					Rule:        ruleFrontmatterParse,
					Message:     "Post cannot be parsed",
					Explanation: err.Error(),
					Fix:         "Check the frontmatter block for YAML or TOML syntax errors",
				})
				return nil
			}
			files = append(files, File{Path: p, Root: dir, RelativePath: rel, Document: doc})
			return nil
		}
		if isAsset(d.Name()) {
			files = append(files, File{Path: p, Root: dir, RelativePath: rel})
		}
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, errors.FileSystemError("content directory walk failed").
			WithCause(err).WithContext("path", dir).Build()
	}
	return files, nil
}

// lintFile applies all applicable rules to a single file.
func (l *Linter) lintFile(f File, idx *Index, result *Result) {
	for _, rule := range l.rules {
		if !rule.AppliesTo(f) {
			continue
		}
		for _, issue := range rule.Check(f, idx) {
			if l.cfg.Quiet && issue.Severity != SeverityError {
				continue
			}
			result.Issues = append(result.Issues, issue)
		}
	}
}

func ignored(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func isAsset(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp", ".ico", ".pdf", ".mp4", ".webm":
		return true
	}
	return false
}
