package lint

import (
	stderrors "errors"
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// FrontmatterRequiredRule reports posts without a title or a date.
type FrontmatterRequiredRule struct{}

func (r *FrontmatterRequiredRule) Name() string { return "frontmatter-required" }

func (r *FrontmatterRequiredRule) AppliesTo(f File) bool { return f.IsPost() }

func (r *FrontmatterRequiredRule) Check(f File, _ *Index) []Issue {
	fm := post.DecodeFrontmatter(f.Document.Frontmatter)
	var issues []Issue
	if fm.Title == "" {
		issues = append(issues, Issue{
			FilePath:    f.RelativePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Missing required frontmatter field: title",
			Explanation: "Every post needs a title. It is shown on the post page, the listing and the feed.",
			Fix:         "Add a title field to the frontmatter",
		})
	}
	if stderrors.Is(fm.DateErr, post.ErrMissingDate) {
		issues = append(issues, Issue{
			FilePath:    f.RelativePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Missing required frontmatter field: date",
			Explanation: "Posts are ordered by date. An undated post fails the build unless build.invalid_dates is warn.",
			Fix:         "Add a date field, e.g. date: 2024-01-31",
		})
	}
	return issues
}

// FrontmatterDateRule reports dates that cannot be parsed and fields of the wrong type.
type FrontmatterDateRule struct{}

func (r *FrontmatterDateRule) Name() string { return "frontmatter-date" }

func (r *FrontmatterDateRule) AppliesTo(f File) bool { return f.IsPost() }

func (r *FrontmatterDateRule) Check(f File, _ *Index) []Issue {
	fm := post.DecodeFrontmatter(f.Document.Frontmatter)
	var issues []Issue
	if stderrors.Is(fm.DateErr, post.ErrInvalidDate) {
		issues = append(issues, Issue{
			FilePath:    f.RelativePath,
			Severity:    SeverityError,
			Rule:        r.Name(),
			Message:     "Frontmatter date cannot be parsed",
			Explanation: fmt.Sprintf("Value: %v", fm.Raw["date"]),
			Fix:         "Use an ISO date such as 2024-01-31 or 2024-01-31T09:30:00Z",
		})
	}
	for _, p := range fm.Problems {
		issues = append(issues, Issue{
			FilePath: f.RelativePath,
			Severity: SeverityWarning,
			Rule:     r.Name(),
			Message:  p.Error(),
		})
	}
	return issues
}
