package lint

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter formats linting results for output.
type Formatter interface {
	Format(w io.Writer, result *Result, dirs []string) error
}

// TextFormatter formats results as human-readable text.
type TextFormatter struct{}

// Format outputs results in human-readable text format. Issues are grouped by
// file in the order they appear in result.
func (f *TextFormatter) Format(w io.Writer, result *Result, dirs []string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Linting posts in: %s\n", strings.Join(dirs, ", "))
	b.WriteString(strings.Repeat("━", 60) + "\n\n")

	for _, issue := range result.Issues {
		writeIssue(&b, issue)
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("━", 60) + "\n")
	b.WriteString("Results:\n")
	fmt.Fprintf(&b, "  %d files scanned\n", result.FilesTotal)
	if n := result.ErrorCount(); n > 0 {
		fmt.Fprintf(&b, "  %d error%s (fails the build)\n", n, pluralize(n))
	}
	if n := result.WarningCount(); n > 0 {
		fmt.Fprintf(&b, "  %d warning%s (should fix)\n", n, pluralize(n))
	}
	b.WriteString("\n")

	switch {
	case result.HasErrors():
		b.WriteString("✗ Posts have errors that will fail the build.\n")
	case result.HasWarnings():
		b.WriteString("⚠ Posts have warnings. Consider fixing them before publishing.\n")
	default:
		b.WriteString("✓ All posts pass linting.\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeIssue(b *strings.Builder, issue Issue) {
	icon := "ℹ"
	switch issue.Severity {
	case SeverityError:
		icon = "✗"
	case SeverityWarning:
		icon = "⚠"
	}
	fmt.Fprintf(b, "%s %s\n", icon, issue.FilePath)
	fmt.Fprintf(b, "  %s [%s]: %s\n", issue.Severity, issue.Rule, issue.Message)
	if issue.Explanation != "" {
		for line := range strings.SplitSeq(strings.TrimSpace(issue.Explanation), "\n") {
			fmt.Fprintf(b, "  %s\n", line)
		}
	}
	if issue.Fix != "" {
		fmt.Fprintf(b, "  Fix: %s\n", issue.Fix)
	}
}

// JSONFormatter formats results as JSON.
type JSONFormatter struct{}

// JSONOutput represents the JSON output structure.
type JSONOutput struct {
	Dirs         []string    `json:"dirs"`
	FilesTotal   int         `json:"files_total"`
	ErrorCount   int         `json:"error_count"`
	WarningCount int         `json:"warning_count"`
	Issues       []JSONIssue `json:"issues"`
}

// JSONIssue represents a single issue in JSON format.
type JSONIssue struct {
	FilePath    string `json:"file_path"`
	Severity    string `json:"severity"`
	Rule        string `json:"rule"`
	Message     string `json:"message"`
	Explanation string `json:"explanation,omitempty"`
	Fix         string `json:"fix,omitempty"`
}

// Format outputs results in JSON format.
func (f *JSONFormatter) Format(w io.Writer, result *Result, dirs []string) error {
	output := JSONOutput{
		Dirs:         dirs,
		FilesTotal:   result.FilesTotal,
		ErrorCount:   result.ErrorCount(),
		WarningCount: result.WarningCount(),
		Issues:       make([]JSONIssue, 0, len(result.Issues)),
	}
	for _, issue := range result.Issues {
		output.Issues = append(output.Issues, JSONIssue{
			FilePath:    issue.FilePath,
			Severity:    issue.Severity.String(),
			Rule:        issue.Rule,
			Message:     issue.Message,
			Explanation: issue.Explanation,
			Fix:         issue.Fix,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// NewFormatter creates the appropriate formatter based on format string.
func NewFormatter(format string) Formatter {
	if format == "json" {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}
