package lint

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

func writeContent(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, data := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	}
}

func lintDir(t *testing.T, files map[string]string) *Result {
	t.Helper()
	root := t.TempDir()
	writeContent(t, root, files)
	res, err := NewLinter(nil).LintContent(t.Context(), config.ContentConfig{Dirs: []string{root}})
	require.NoError(t, err)
	return res
}

func rulesOf(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Rule)
	}
	return out
}

func TestLint_CleanContent(t *testing.T) {
	res := lintDir(t, map[string]string{
		"hello/index.md":  "---\ntitle: Hello\ndate: 2024-01-01\n---\nSee [the other post](../other/) and ![pic](./pic.png).\n",
		"hello/pic.png":   "png",
		"other/index.mdx": "---\ntitle: Other\ndate: 2024-01-02\n---\nBack to [hello](../hello/index.md) or [top](#top).\n",
	})
	assert.Empty(t, res.Issues)
	assert.Equal(t, 3, res.FilesTotal)
	assert.False(t, res.HasErrors())
}

func TestLint_FrontmatterRules(t *testing.T) {
	res := lintDir(t, map[string]string{
		"untitled/index.md": "---\ndate: 2024-01-01\n---\nbody\n",
		"undated/index.md":  "---\ntitle: Undated\n---\nbody\n",
		"baddate/index.md":  "---\ntitle: Bad\ndate: not-a-date\n---\nbody\n",
	})
	require.Len(t, res.Issues, 3)
	assert.ElementsMatch(t, []string{"frontmatter-date", "frontmatter-required", "frontmatter-required"}, rulesOf(res.Issues))
	assert.Equal(t, 3, res.ErrorCount())
}

func TestLint_DuplicateSlug(t *testing.T) {
	res := lintDir(t, map[string]string{
		"hello.md":       "---\ntitle: A\ndate: 2024-01-01\n---\n",
		"hello/index.md": "---\ntitle: B\ndate: 2024-01-01\n---\n",
	})
	require.Len(t, res.Issues, 2)
	for _, issue := range res.Issues {
		assert.Equal(t, "duplicate-slug", issue.Rule)
		assert.Contains(t, issue.Message, "/hello/")
	}
}

func TestLint_RootIndexHasNoSlug(t *testing.T) {
	res := lintDir(t, map[string]string{
		"index.md": "---\ntitle: Root\ndate: 2024-01-01\n---\n",
	})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "duplicate-slug", res.Issues[0].Rule)
	assert.Equal(t, "Post path derives no slug", res.Issues[0].Message)
}

func TestLint_Filename(t *testing.T) {
	res := lintDir(t, map[string]string{
		"My Post/index.md": "---\ntitle: A\ndate: 2024-01-01\n---\n",
	})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, "filename", res.Issues[0].Rule)
	assert.Equal(t, "Rename to lowercase: my-post", res.Issues[0].Fix)
}

func TestLint_BrokenInternalLink(t *testing.T) {
	res := lintDir(t, map[string]string{
		"hello/index.md": "---\ntitle: Hello\ndate: 2024-01-01\n---\n" +
			"[gone](../missing/) [file](./missing.png) [ext](https://example.com/x) " +
			"[abs](/hello/) `[code](../nope/)`\n",
	})
	require.Len(t, res.Issues, 2)
	assert.Equal(t, "Broken internal link: ../missing/", res.Issues[0].Message)
	assert.Equal(t, "Broken internal link: ./missing.png", res.Issues[1].Message)
}

func TestLint_UnparseableFrontmatter(t *testing.T) {
	res := lintDir(t, map[string]string{
		"broken/index.md": "---\ntitle: [unclosed\n---\nbody\n",
	})
	require.Len(t, res.Issues, 1)
	assert.Equal(t, ruleFrontmatterParse, res.Issues[0].Rule)
	assert.Equal(t, 1, res.FilesTotal)
}

func TestLint_QuietDropsWarnings(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root, map[string]string{
		"café/index.md": "---\ntitle: Cafe\ndate: 2024-01-01\n---\n",
	})

	loud, err := NewLinter(nil).LintContent(t.Context(), config.ContentConfig{Dirs: []string{root}})
	require.NoError(t, err)
	require.Len(t, loud.Issues, 1)
	assert.Equal(t, SeverityWarning, loud.Issues[0].Severity)

	quiet, err := NewLinter(&Config{Quiet: true}).LintContent(t.Context(), config.ContentConfig{Dirs: []string{root}})
	require.NoError(t, err)
	assert.Empty(t, quiet.Issues)
}

func TestFormatters(t *testing.T) {
	res := &Result{FilesTotal: 2, Issues: []Issue{
		{FilePath: "a/index.md", Severity: SeverityError, Rule: "frontmatter-required", Message: "Missing title", Fix: "Add one"},
	}}

	var text bytes.Buffer
	require.NoError(t, NewFormatter("text").Format(&text, res, []string{"content"}))
	assert.Contains(t, text.String(), "✗ a/index.md")
	assert.Contains(t, text.String(), "ERROR [frontmatter-required]: Missing title")
	assert.Contains(t, text.String(), "1 error (fails the build)")

	var js bytes.Buffer
	require.NoError(t, NewFormatter("json").Format(&js, res, []string{"content"}))
	var out JSONOutput
	require.NoError(t, json.Unmarshal(js.Bytes(), &out))
	assert.Equal(t, 1, out.ErrorCount)
	assert.Equal(t, "ERROR", out.Issues[0].Severity)
}

func TestSuggestFilename(t *testing.T) {
	assert.Equal(t, "my-great-post.md", suggestFilename("My  Great Post!.MD"))
	assert.Equal(t, "hello", suggestFilename("_Hello_"))
}
