package post

import (
	"path"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// DirName turns a post title into a lowercase, hyphenated directory name.
// Accents are dropped; "Crème Brûlée 101" becomes "creme-brulee-101".
func DirName(title string) string {
	var b strings.Builder
	hyphen := false
	for _, r := range norm.NFD.String(title) {
		switch {
		case unicode.Is(unicode.Mn, r):
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(unicode.ToLower(r))
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

var scaffoldKeyOrder = []string{"title", "date", "published", "description", "categories"}

// Scaffold returns the relative path and contents of a new unpublished post.
// Legacy posts are written as index.md, current ones as index.mdx.
func Scaffold(title string, date time.Time, legacy bool) (string, []byte, error) {
	dir := DirName(title)
	if dir == "" {
		return "", nil, errors.ValidationError("title must contain letters or digits").
			WithContext("title", title).Build()
	}
	ext := ".mdx"
	if legacy {
		ext = ".md"
	}

	fields := map[string]any{
		"title":       title,
		"date":        date.UTC().Truncate(24 * time.Hour),
		"published":   false,
		"categories":  []string{},
		"description": "",
	}
	fm, err := frontmatter.SerializeYAML(fields, frontmatter.Style{LeadingKeys: scaffoldKeyOrder})
	if err != nil {
		return "", nil, errors.InternalError("failed to serialize frontmatter").WithCause(err).Build()
	}
	body := []byte("\nWrite your post here.\n")
	return path.Join(dir, "index"+ext), frontmatter.Join(fm, body, frontmatter.KindYAML, frontmatter.Style{}), nil
}
