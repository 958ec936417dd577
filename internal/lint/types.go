package lint

import (
	"git.home.luguber.info/inful/blogbuilder/internal/content"
)

// Severity indicates the importance level of a linting issue.
type Severity int

const (
	// SeverityInfo marks purely informational findings.
	SeverityInfo Severity = iota
	// SeverityWarning marks issues that should be fixed but don't fail a build.
	SeverityWarning
	// SeverityError marks issues that fail a build or break a published page.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Issue represents a single linting problem found in a file.
type Issue struct {
	FilePath    string   // Path relative to its content directory
	Severity    Severity // Issue severity level
	Rule        string   // Rule identifier (e.g., "duplicate-slug")
	Message     string   // Brief description of the issue
	Explanation string   // Detailed explanation with context
	Fix         string   // Suggested fix
}

// Result contains all issues found during linting.
type Result struct {
	Issues     []Issue
	FilesTotal int // posts and assets scanned
}

// HasErrors returns true if any error-level issues exist.
func (r *Result) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level issues exist.
func (r *Result) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level issues.
func (r *Result) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level issues.
func (r *Result) WarningCount() int {
	return r.count(SeverityWarning)
}

func (r *Result) count(s Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == s {
			n++
		}
	}
	return n
}

// File is one scanned file. Document is nil for assets.
type File struct {
	Path         string
	Root         string
	RelativePath string
	Document     *content.Document
}

// IsPost reports whether the file is a post document.
func (f File) IsPost() bool { return f.Document != nil }

// Rule defines a linting rule applied to each scanned file.
type Rule interface {
	// Name returns the unique identifier for this rule.
	Name() string

	// AppliesTo returns true if this rule should be checked for the given file.
	AppliesTo(f File) bool

	// Check validates a file against the whole content set and returns any issues found.
	Check(f File, idx *Index) []Issue
}

// Config contains configuration for the linter.
type Config struct {
	// Quiet suppresses warnings, only showing errors.
	Quiet bool

	// Format specifies output format (text, json).
	Format string

	// PathPrefix is stripped from site-absolute links before they are matched to slugs.
	PathPrefix string
}
