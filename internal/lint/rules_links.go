package lint

import (
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// BrokenLinkRule reports internal links whose target is neither a post nor an asset.
type BrokenLinkRule struct{}

func (r *BrokenLinkRule) Name() string { return "broken-internal-link" }

func (r *BrokenLinkRule) AppliesTo(f File) bool { return f.IsPost() }

func (r *BrokenLinkRule) Check(f File, idx *Index) []Issue {
	slug, err := post.Slug(f.RelativePath)
	if err != nil {
		return nil
	}

	var issues []Issue
	seen := make(map[string]bool)
	for _, link := range markdown.ExtractLinks([]byte(f.Document.RawBody)) {
		if link.IsExternal() || link.IsFragment() || seen[link.Destination] {
			continue
		}
		seen[link.Destination] = true
		if resolves(link.Destination, f.Document.Dir(), slug, idx) {
			continue
		}
		issues = append(issues, Issue{
			FilePath:    f.RelativePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Broken internal link: " + link.Destination,
			Explanation: "The target is not a post slug and not a file next to a post.",
			Fix:         "Point the link at an existing post, e.g. ../other-post/",
		})
	}
	return issues
}

// resolves reports whether dest names a post or an asset. Relative destinations are
// tried against the source directory (files) and the page URL (slugs).
func resolves(dest, dir, slug string, idx *Index) bool {
	u, err := url.Parse(dest)
	if err != nil {
		return false
	}
	p := u.Path
	if p == "" {
		return true
	}

	if strings.HasPrefix(p, "/") {
		if idx.PathPrefix != "" {
			p = strings.TrimPrefix(p, idx.PathPrefix)
		}
		return idx.HasSlug(asSlug(p)) || idx.HasAsset(strings.TrimPrefix(path.Clean(p), "/"))
	}

	if _, isPost := content.FormatForPath(p); isPost {
		target, err := post.Slug(path.Join(dir, p))
		return err == nil && idx.HasSlug(target)
	}
	if path.Ext(p) != "" {
		return idx.HasAsset(path.Join(dir, p))
	}
	return idx.HasSlug(asSlug(path.Join(slug, p)))
}

func asSlug(p string) string {
	trimmed := strings.Trim(path.Clean("/"+p), "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed + "/"
}
