package post

import (
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
)

// doc parses an in-memory document; the format follows the extension of rel.
func doc(t *testing.T, index int, rel, raw string) *content.Document {
	t.Helper()
	format, ok := content.FormatForPath(rel)
	require.True(t, ok, rel)
	d, err := content.ParseDocument("content", rel, index, format, []byte(raw))
	require.NoError(t, err)
	return d
}

func derive(t *testing.T, d *content.Document) SourceNode {
	t.Helper()
	s, err := Derive(d)
	require.NoError(t, err)
	return s
}

func post(t *testing.T, index int, slug, date string, published bool) SourceNode {
	t.Helper()
	pub := "true"
	if !published {
		pub = "false"
	}
	raw := "---\ntitle: " + slug + "\ndate: " + date + "\npublished: " + pub + "\n---\nword word word\n"
	return derive(t, doc(t, index, slug+"/index.md", raw))
}

func slugs(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Slug
	}
	return out
}
