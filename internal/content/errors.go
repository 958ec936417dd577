package content

import "errors"

// Sentinel errors for content discovery. Callers wrap them with %w and the offending path.
var (
	// ErrContentDirNotFound indicates a configured content directory does not exist.
	ErrContentDirNotFound = errors.New("content directory not found")

	// ErrWalkFailed indicates filesystem traversal of a content directory failed.
	ErrWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrInvalidFrontmatter indicates a document's frontmatter block could not be parsed.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")

	// ErrInvalidIgnorePattern indicates a content.ignore glob is malformed.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")
)
