package post

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
)

func TestDirName(t *testing.T) {
	tests := map[string]string{
		"Hello World":          "hello-world",
		"Crème Brûlée 101":     "creme-brulee-101",
		"  Go: the good parts ": "go-the-good-parts",
		"C++ & Rust?":          "c-rust",
		"日本語":                  "",
	}
	for title, want := range tests {
		assert.Equal(t, want, DirName(title), title)
	}
}

func TestScaffold_ProducesUnpublishedPost(t *testing.T) {
	date := time.Date(2024, 5, 17, 15, 4, 0, 0, time.UTC)
	rel, data, err := Scaffold("My First Post", date, false)
	require.NoError(t, err)
	assert.Equal(t, "my-first-post/index.mdx", rel)

	doc, err := content.ParseDocument("/content", rel, 0, content.FormatMDX, data)
	require.NoError(t, err)
	fm := DecodeFrontmatter(doc.Frontmatter)
	assert.Equal(t, "My First Post", fm.Title)
	require.NoError(t, fm.DateErr)
	assert.Equal(t, "2024-05-17", fm.Date.Format(time.DateOnly))
	require.NotNil(t, fm.Published)
	assert.False(t, *fm.Published)
	assert.Empty(t, fm.Categories)

	slug, err := Slug(rel)
	require.NoError(t, err)
	assert.Equal(t, "/my-first-post/", slug)
}

func TestScaffold_Legacy(t *testing.T) {
	rel, _, err := Scaffold("Old School", time.Now(), true)
	require.NoError(t, err)
	assert.Equal(t, "old-school/index.md", rel)
}

func TestScaffold_RejectsEmptyTitle(t *testing.T) {
	_, _, err := Scaffold("???", time.Now(), false)
	require.Error(t, err)
}

func TestScaffold_FrontmatterKeyOrder(t *testing.T) {
	_, data, err := Scaffold("Ordered", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "---\ntitle: Ordered\ndate: 2024-01-02\npublished: false\n"), string(data))
}
