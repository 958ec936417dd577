package post

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"blog/hello.md", "/blog/hello/"},
		{"hello/index.mdx", "/hello/"},
		{"hello-world/index.md", "/hello-world/"},
		{"./notes/today.markdown", "/notes/today/"},
		{"a\\b\\index.md", "/a/b/"},
		{"café/index.md", "/café/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Slug(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlugIsDeterministic(t *testing.T) {
	a, err := Slug("blog/hello.md")
	require.NoError(t, err)
	b, err := Slug("blog/hello.md")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSlugRejectsEmpty(t *testing.T) {
	for _, in := range []string{"", "  ", "/", "index.md", "../index.md", "../post.md", ".."} {
		_, err := Slug(in)
		require.ErrorIs(t, err, ErrEmptySlug, in)
	}
}

func TestPublishedDefaultsToTrue(t *testing.T) {
	assert.True(t, Published(Frontmatter{}))

	no := false
	assert.False(t, Published(Frontmatter{Published: &no}))

	s := derive(t, doc(t, 0, "a/index.md", "---\ntitle: A\ndate: 2020-01-01\n---\nbody\n"))
	assert.True(t, s.source().Fields.Published)
}

func TestEstimateReadingTime(t *testing.T) {
	assert.Equal(t, 5, EstimateReadingTime(""))
	assert.Equal(t, 5, EstimateReadingTime("  \n\t "))
	assert.Equal(t, 0, EstimateReadingTime("one two three"))
	assert.Equal(t, 1, EstimateReadingTime(strings.Repeat("word ", 100)))
	assert.Equal(t, 1, EstimateReadingTime(strings.Repeat("word ", 299)))
	assert.Equal(t, 2, EstimateReadingTime(strings.Repeat("word ", 300)))
	assert.Equal(t, 10, EstimateReadingTime(strings.Repeat("word ", 2000)))

	for _, n := range []int{0, 1, 50, 99, 100, 101, 1000} {
		assert.GreaterOrEqual(t, EstimateReadingTime(strings.Repeat("w ", n)), 0)
	}
}

func TestDeriveProducesFormatVariant(t *testing.T) {
	md := derive(t, doc(t, 0, "legacy/index.md", "---\ntitle: Legacy\ndate: 2018-05-01\n---\nhello\n"))
	_, isMarkdown := md.(*MarkdownSource)
	assert.True(t, isMarkdown)

	mdx := derive(t, doc(t, 1, "current/index.mdx",
		"---\ntitle: Current\ndate: 2020-05-01\n---\nimport Embed from '../embed'\nexport const meta = {}\n\n```js\nimport x from 'y'\n```\nbody\n"))
	src, isMDX := mdx.(*MDXSource)
	require.True(t, isMDX)
	assert.Equal(t, []string{"import Embed from '../embed'", "export const meta = {}"}, src.ESM)
	assert.Equal(t, "/current/", SourceSlug(mdx))
}

func TestDeriveReadingTimeComesFromBody(t *testing.T) {
	s := derive(t, doc(t, 0, "a/index.md", "---\ntitle: A\ndate: 2020-01-01\nestimatedReadingTime: 12\n---\nshort\n"))
	require.NotNil(t, s.source().ReadingTime)
	assert.Equal(t, 0, *s.source().ReadingTime)

	empty := derive(t, doc(t, 1, "b/index.mdx", "---\ntitle: B\ndate: 2020-01-01\nestimatedReadingTime: 42\n---\n"))
	assert.Equal(t, DefaultReadingTime, *empty.source().ReadingTime)
	assert.Empty(t, empty.source().Frontmatter.Problems)
}

func TestDeriveIDIsStable(t *testing.T) {
	a := derive(t, doc(t, 0, "a/index.md", "---\ntitle: A\n---\n"))
	b := derive(t, doc(t, 3, "a/index.md", "---\ntitle: changed\n---\n"))
	assert.Equal(t, a.source().ID, b.source().ID)
}

func TestDeriveRootIndexFails(t *testing.T) {
	_, err := Derive(doc(t, 0, "index.md", "---\ntitle: Home\n---\n"))
	require.ErrorIs(t, err, ErrEmptySlug)
	assert.True(t, errors.HasCategory(err, errors.CategoryContent))
}

func TestDecodeFrontmatter(t *testing.T) {
	fm := DecodeFrontmatter(map[string]any{
		"title":          " Hello ",
		"date":           "2019-02-03",
		"description":    "desc",
		"published":      "false",
		"categories":     []any{"go", "", "blog"},
		"canonical_link": "https://medium.com/x",
	})
	assert.Equal(t, "Hello", fm.Title)
	assert.Equal(t, time.Date(2019, 2, 3, 0, 0, 0, 0, time.UTC), fm.Date)
	require.NoError(t, fm.DateErr)
	require.NotNil(t, fm.Published)
	assert.False(t, *fm.Published)
	assert.Equal(t, []string{"go", "blog"}, fm.Categories)
	assert.Equal(t, "https://medium.com/x", fm.CanonicalLink)
	assert.Empty(t, fm.Problems)
}

func TestDecodeFrontmatterProblems(t *testing.T) {
	fm := DecodeFrontmatter(map[string]any{
		"title":      "x",
		"published":  42,
		"categories": 7,
		"date":       "yesterday",
	})
	require.Len(t, fm.Problems, 2)
	require.ErrorIs(t, fm.Problems[0], ErrInvalidField)
	require.ErrorIs(t, fm.DateErr, ErrInvalidDate)

	missing := DecodeFrontmatter(map[string]any{"title": "x"})
	require.ErrorIs(t, missing.DateErr, ErrMissingDate)
}

func TestParseDateLayouts(t *testing.T) {
	want := time.Date(2019, 3, 4, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2019-03-04", "2019/03/04", "March 4, 2019", "Mar 4, 2019", "2019-03-04T00:00:00Z"} {
		got, err := ParseDate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), in)
	}
	_, err := ParseDate(42)
	require.ErrorIs(t, err, ErrInvalidDate)
}

func TestDeriveAllKeepsOrderAndAggregates(t *testing.T) {
	var docs []*content.Document
	for i := range 20 {
		docs = append(docs, doc(t, i, fmt.Sprintf("p%02d/index.md", i), "---\ntitle: x\n---\n"))
	}

	sources, err := DeriveAll(context.Background(), docs, 4)
	require.NoError(t, err)
	require.Len(t, sources, 20)
	for i, s := range sources {
		assert.Equal(t, fmt.Sprintf("/p%02d/", i), SourceSlug(s))
	}

	bad := append([]*content.Document{}, docs[:2]...)
	bad = append(bad, doc(t, 20, "index.md", "---\ntitle: x\n---\n"), doc(t, 21, "index.mdx", "---\ntitle: y\n---\n"))
	partial, err := DeriveAll(context.Background(), bad, 3)
	require.Error(t, err)
	assert.Len(t, errors.Flatten(err), 2)
	require.Len(t, partial, 2)
	assert.Equal(t, "/p00/", SourceSlug(partial[0]))
	assert.Equal(t, "/p01/", SourceSlug(partial[1]))
}

func TestDeriveAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	docs := []*content.Document{doc(t, 0, "a/index.md", "---\ntitle: a\n---\n")}
	_, err := DeriveAll(ctx, docs, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestDeriveAllEmpty(t *testing.T) {
	sources, err := DeriveAll(context.Background(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, sources)
}
