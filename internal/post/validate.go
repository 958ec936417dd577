package post

import (
	"fmt"
	"log/slog"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// ValidateOptions selects how recoverable problems are treated.
type ValidateOptions struct {
	InvalidDates   config.InvalidDatePolicy
	DuplicateSlugs config.DuplicateSlugPolicy
}

// ValidationResult holds the sources that survived validation and the warnings raised.
type ValidationResult struct {
	Sources  []SourceNode
	Warnings []string
}

// Validate checks every source before collation and reports all problems at once.
//
// A missing title or an unusable field is always fatal. Date and slug problems follow opts.
// The returned error is nil, a single error, or an *errors.AggregateError listing each problem.
// The result is always returned so callers can fold further errors into one report.
func Validate(sources []SourceNode, opts ValidateOptions) (*ValidationResult, error) {
	res := &ValidationResult{}
	var errs []error

	for _, s := range sources {
		base := s.source()
		file := base.Document.RelativePath
		fm := base.Frontmatter

		if fm.Title == "" {
			errs = append(errs, errors.ContentError("post has no title").
				WithCause(ErrMissingTitle).WithContext("file", file).Build())
		}
		for _, problem := range fm.Problems {
			errs = append(errs, errors.ContentError("post has an invalid frontmatter field").
				WithCause(problem).WithContext("file", file).Build())
		}
		if fm.DateErr != nil {
			if opts.InvalidDates == config.InvalidDatesWarn {
				msg := fmt.Sprintf("%s: %v (sorted as oldest)", file, fm.DateErr)
				res.Warnings = append(res.Warnings, msg)
				slog.Warn("Post date unusable, sorting as oldest", logfields.File(file), logfields.Error(fm.DateErr))
			} else {
				errs = append(errs, errors.ContentError("post has no usable date").
					WithCause(fm.DateErr).WithContext("file", file).Build())
			}
		}
	}

	kept, dupErrs, dupWarnings := resolveDuplicates(sources, opts.DuplicateSlugs)
	errs = append(errs, dupErrs...)
	res.Warnings = append(res.Warnings, dupWarnings...)
	res.Sources = kept

	return res, errors.Aggregate(errs)
}

// resolveDuplicates applies the duplicate slug policy. Sources keep their input order.
func resolveDuplicates(sources []SourceNode, policy config.DuplicateSlugPolicy) ([]SourceNode, []error, []string) {
	bySlug := make(map[string][]int)
	var order []string
	for i, s := range sources {
		slug := SourceSlug(s)
		if _, seen := bySlug[slug]; !seen {
			order = append(order, slug)
		}
		bySlug[slug] = append(bySlug[slug], i)
	}

	drop := make(map[int]bool)
	var (
		errs     []error
		warnings []string
	)
	for _, slug := range order {
		idx := bySlug[slug]
		if len(idx) < 2 {
			continue
		}
		files := make([]string, len(idx))
		for j, i := range idx {
			files[j] = SourceDocument(sources[i]).RelativePath
		}

		switch policy {
		case config.DuplicateSlugsFirst, config.DuplicateSlugsLast:
			keep := idx[0]
			if policy == config.DuplicateSlugsLast {
				keep = idx[len(idx)-1]
			}
			for _, i := range idx {
				if i != keep {
					drop[i] = true
				}
			}
			kept := SourceDocument(sources[keep]).RelativePath
			warnings = append(warnings, fmt.Sprintf("%s: duplicate slug from %s, keeping %s", slug, strings.Join(files, ", "), kept))
			slog.Warn("Duplicate slug resolved", logfields.Slug(slug), logfields.File(kept), slog.Any("files", files))
		default:
			errs = append(errs, errors.ContentError("posts share a slug").
				WithCause(fmt.Errorf("%w: %s", ErrDuplicateSlug, slug)).
				WithContext("slug", slug).
				WithContext("files", strings.Join(files, ", ")).Build())
		}
	}

	if len(drop) == 0 {
		return sources, errs, warnings
	}
	kept := make([]SourceNode, 0, len(sources)-len(drop))
	for i, s := range sources {
		if !drop[i] {
			kept = append(kept, s)
		}
	}
	return kept, errs, warnings
}
