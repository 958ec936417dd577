package post

import "errors"

// Sentinel errors for post derivation and validation. They are wrapped in
// classified content errors that carry the offending file.
var (
	// ErrEmptySlug indicates a content path derives no usable slug.
	ErrEmptySlug = errors.New("empty slug")

	// ErrMissingTitle indicates the required title frontmatter field is absent or blank.
	ErrMissingTitle = errors.New("missing required frontmatter field: title")

	// ErrMissingDate indicates the date frontmatter field is absent.
	ErrMissingDate = errors.New("missing frontmatter field: date")

	// ErrInvalidDate indicates the date frontmatter field could not be parsed.
	ErrInvalidDate = errors.New("invalid frontmatter date")

	// ErrInvalidField indicates a frontmatter field has an unusable type.
	ErrInvalidField = errors.New("invalid frontmatter field")

	// ErrDuplicateSlug indicates two or more posts derive the same slug.
	ErrDuplicateSlug = errors.New("duplicate slug")
)
