package post

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

var strict = ValidateOptions{InvalidDates: config.InvalidDatesError, DuplicateSlugs: config.DuplicateSlugsError}

func TestValidateAcceptsCompletePosts(t *testing.T) {
	sources := []SourceNode{post(t, 0, "a", "2020-01-01", true), post(t, 1, "b", "2020-01-02", false)}
	res, err := Validate(sources, strict)
	require.NoError(t, err)
	assert.Len(t, res.Sources, 2)
	assert.Empty(t, res.Warnings)
}

func TestValidateSingleMissingTitleIsReturnedDirectly(t *testing.T) {
	sources := []SourceNode{
		post(t, 0, "a", "2020-01-01", true),
		derive(t, doc(t, 1, "untitled/index.md", "---\ndate: 2020-01-01\n---\nbody\n")),
	}
	_, err := Validate(sources, strict)
	require.ErrorIs(t, err, ErrMissingTitle)
	_, isAgg := errors.AsAggregate(err)
	assert.False(t, isAgg)

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.True(t, classified.IsFatal())
	file, _ := classified.Context().GetString("file")
	assert.Equal(t, "untitled/index.md", file)
}

func TestValidateAggregatesEveryProblem(t *testing.T) {
	sources := []SourceNode{
		derive(t, doc(t, 0, "one/index.md", "---\ndate: 2020-01-01\n---\n")),
		derive(t, doc(t, 1, "two/index.mdx", "---\ntitle: Two\n---\n")),
		derive(t, doc(t, 2, "three/index.md", "---\ntitle: Three\ndate: someday\n---\n")),
	}
	_, err := Validate(sources, strict)
	require.Error(t, err)

	agg, ok := errors.AsAggregate(err)
	require.True(t, ok)
	errs := agg.Errors()
	require.Len(t, errs, 3)
	require.ErrorIs(t, errs[0], ErrMissingTitle)
	require.ErrorIs(t, errs[1], ErrMissingDate)
	require.ErrorIs(t, errs[2], ErrInvalidDate)
}

func TestValidateInvalidDateWarnPolicy(t *testing.T) {
	sources := []SourceNode{
		post(t, 0, "dated", "2020-01-01", true),
		derive(t, doc(t, 1, "undated/index.md", "---\ntitle: Undated\n---\n")),
	}
	res, err := Validate(sources, ValidateOptions{InvalidDates: config.InvalidDatesWarn, DuplicateSlugs: config.DuplicateSlugsError})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "undated/index.md")

	c := Collate(res.Sources)
	assert.Equal(t, []string{"/dated/", "/undated/"}, slugs(c.All()))
	assert.False(t, c.All()[1].HasDate)
}

func TestValidateMissingTitleIsFatalUnderWarnPolicy(t *testing.T) {
	sources := []SourceNode{derive(t, doc(t, 0, "x/index.md", "---\n---\n"))}
	_, err := Validate(sources, ValidateOptions{InvalidDates: config.InvalidDatesWarn})
	require.ErrorIs(t, err, ErrMissingTitle)
}

func duplicateSources(t *testing.T) []SourceNode {
	return []SourceNode{
		derive(t, doc(t, 0, "blog/hello.md", "---\ntitle: First\ndate: 2020-01-01\n---\n")),
		derive(t, doc(t, 1, "blog/hello/index.mdx", "---\ntitle: Second\ndate: 2020-01-02\n---\n")),
		post(t, 2, "other", "2020-01-03", true),
	}
}

func TestValidateDuplicateSlugs(t *testing.T) {
	t.Run("error", func(t *testing.T) {
		_, err := Validate(duplicateSources(t), strict)
		require.ErrorIs(t, err, ErrDuplicateSlug)
		assert.Contains(t, err.Error(), "blog/hello.md, blog/hello/index.mdx")
	})

	t.Run("first", func(t *testing.T) {
		res, err := Validate(duplicateSources(t), ValidateOptions{DuplicateSlugs: config.DuplicateSlugsFirst})
		require.NoError(t, err)
		require.Len(t, res.Sources, 2)
		assert.Equal(t, "First", SourceFrontmatter(res.Sources[0]).Title)
		assert.Len(t, res.Warnings, 1)
	})

	t.Run("last", func(t *testing.T) {
		res, err := Validate(duplicateSources(t), ValidateOptions{DuplicateSlugs: config.DuplicateSlugsLast})
		require.NoError(t, err)
		require.Len(t, res.Sources, 2)
		assert.Equal(t, "Second", SourceFrontmatter(res.Sources[0]).Title)
		assert.Equal(t, "/other/", SourceSlug(res.Sources[1]))
	})
}

func TestValidateInvalidFieldIsFatal(t *testing.T) {
	sources := []SourceNode{derive(t, doc(t, 0, "x/index.md", "---\ntitle: X\ndate: 2020-01-01\npublished: maybe\n---\n"))}
	_, err := Validate(sources, strict)
	require.ErrorIs(t, err, ErrInvalidField)
}
