package lint

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// DuplicateSlugRule reports posts whose path derives no slug or the same slug as another post.
type DuplicateSlugRule struct{}

func (r *DuplicateSlugRule) Name() string { return "duplicate-slug" }

func (r *DuplicateSlugRule) AppliesTo(f File) bool { return f.IsPost() }

func (r *DuplicateSlugRule) Check(f File, idx *Index) []Issue {
	slug, err := post.Slug(f.RelativePath)
	if err != nil {
		return []Issue{{
			FilePath:    f.RelativePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Post path derives no slug",
			Explanation: "A post at the root of a content directory has no URL of its own.",
			Fix:         "Move the post into a directory, e.g. my-post/index.md",
		}}
	}

	files := idx.FilesForSlug(slug)
	if len(files) < 2 {
		return nil
	}
	others := make([]string, 0, len(files)-1)
	for _, other := range files {
		if other != f.RelativePath {
			others = append(others, other)
		}
	}
	return []Issue{{
		FilePath:    f.RelativePath,
		Severity:    SeverityError,
		Rule:        r.Name(),
		Message:     "Slug " + slug + " is also derived by " + strings.Join(others, ", "),
		Explanation: "Two posts would be written to the same page. The build fails unless build.duplicate_slugs is first or last.",
		Fix:         "Rename one of the files or directories",
	}}
}
