package lint

import (
	"path"
	"regexp"
	"strings"
	"unicode"
)

var (
	invalidNameChars = regexp.MustCompile(`[^a-z0-9\-_]`)
	multiHyphen      = regexp.MustCompile(`-+`)
	validName        = regexp.MustCompile(`^[a-z0-9\-_.]+$`)
)

// FilenameRule checks that every segment of a content path is lowercase and URL safe,
// since post directories become slugs.
type FilenameRule struct{}

func (r *FilenameRule) Name() string { return "filename" }

func (r *FilenameRule) AppliesTo(File) bool { return true }

func (r *FilenameRule) Check(f File, _ *Index) []Issue {
	var issues []Issue
	for _, segment := range strings.Split(f.RelativePath, "/") {
		if segment == "" {
			continue
		}
		suggested := suggestFilename(segment)
		switch {
		case hasUppercase(segment):
			issues = append(issues, Issue{
				FilePath: f.RelativePath,
				Severity: SeverityError,
				Rule:     r.Name(),
				Message:  "Path segment contains uppercase letters: " + segment,
				Explanation: `Slugs are derived from paths. Case sensitivity differs between
file systems and web servers, so mixed case breaks links.`,
				Fix: "Rename to lowercase: " + suggested,
			})
		case strings.Contains(segment, " "):
			issues = append(issues, Issue{
				FilePath:    f.RelativePath,
				Severity:    SeverityError,
				Rule:        r.Name(),
				Message:     "Path segment contains spaces: " + segment,
				Explanation: "Spaces become %20 in URLs: /my%20post/",
				Fix:         "Rename using hyphens: " + suggested,
			})
		case !validName.MatchString(segment):
			issues = append(issues, Issue{
				FilePath:    f.RelativePath,
				Severity:    SeverityWarning,
				Rule:        r.Name(),
				Message:     "Path segment contains special characters: " + strings.Join(findSpecialChars(segment), ", "),
				Explanation: "Allowed characters: [a-z0-9-_.]",
				Fix:         "Rename to " + suggested,
			})
		}
	}
	return issues
}

func hasUppercase(name string) bool {
	for _, r := range name {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func findSpecialChars(name string) []string {
	seen := make(map[rune]bool)
	var chars []string
	for _, r := range name {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		if !seen[r] {
			seen[r] = true
			chars = append(chars, string(r))
		}
	}
	return chars
}

// suggestFilename lowercases name, turns spaces into hyphens and drops other characters.
func suggestFilename(name string) string {
	ext := path.Ext(name)
	base := strings.TrimSuffix(name, ext)
	base = strings.ReplaceAll(strings.ToLower(base), " ", "-")
	base = invalidNameChars.ReplaceAllString(base, "")
	base = multiHyphen.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-_")
	return base + strings.ToLower(ext)
}
