package commands

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

type project struct {
	root    *CLI
	content string
	output  string
	out     *bytes.Buffer
}

func (p *project) global() *Global { return &Global{Out: p.out} }

func newProject(t *testing.T, extra string) *project {
	t.Helper()
	base := t.TempDir()
	p := &project{
		content: filepath.Join(base, "content"),
		output:  filepath.Join(base, "public"),
		out:     &bytes.Buffer{},
	}
	require.NoError(t, os.MkdirAll(p.content, 0o750))
	cfgPath := filepath.Join(base, "blogbuilder.yaml")
	yaml := "site:\n  title: CLI Blog\n  site_url: https://blog.example.com\n" +
		"content:\n  dirs: [" + p.content + "]\n" +
		"output:\n  directory: " + p.output + "\n" + extra
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o600))
	p.root = &CLI{Config: cfgPath}
	return p
}

func (p *project) writePost(t *testing.T, rel, raw string) {
	t.Helper()
	path := filepath.Join(p.content, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blogbuilder.yaml")
	out := &bytes.Buffer{}
	root := &CLI{Config: path}

	require.NoError(t, (&InitCmd{}).Run(&Global{Out: out}, root))
	assert.Contains(t, out.String(), path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Blog", cfg.Site.Title)

	err = (&InitCmd{}).Run(&Global{Out: out}, root)
	require.Error(t, err)
	require.NoError(t, (&InitCmd{Force: true}).Run(&Global{Out: out}, root))
}

func TestNewThenBuild(t *testing.T) {
	p := newProject(t, "")
	require.NoError(t, (&NewCmd{Title: "Hello World", Date: "2024-03-01"}).Run(p.global(), p.root))
	assert.FileExists(t, filepath.Join(p.content, "hello-world", "index.mdx"))

	err := (&NewCmd{Title: "Hello World"}).Run(p.global(), p.root)
	require.Error(t, err)

	require.NoError(t, (&BuildCmd{}).Run(p.global(), p.root))
	assert.FileExists(t, filepath.Join(p.output, "hello-world", "index.html"))
	assert.Contains(t, p.out.String(), "outcome=success")

	index, err := os.ReadFile(filepath.Join(p.output, "index.html"))
	require.NoError(t, err)
	assert.NotContains(t, string(index), "Hello World")
}

func TestNew_InvalidDate(t *testing.T) {
	p := newProject(t, "")
	err := (&NewCmd{Title: "Post", Date: "March 1st"}).Run(p.global(), p.root)
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryValidation, ce.Category())
}

func TestBuild_DraftsFlagListsUnpublished(t *testing.T) {
	p := newProject(t, "")
	p.writePost(t, "draft/index.md", "---\ntitle: Secret Draft\ndate: 2024-01-01\npublished: false\n---\nBody\n")

	require.NoError(t, (&BuildCmd{Drafts: true}).Run(p.global(), p.root))
	index, err := os.ReadFile(filepath.Join(p.output, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Secret Draft")
}

func TestBuild_SkipUnchangedUsesState(t *testing.T) {
	p := newProject(t, "state:\n  path: "+filepath.Join(t.TempDir(), "state.db")+"\n")
	p.writePost(t, "a/index.md", "---\ntitle: A\ndate: 2024-01-01\n---\nBody\n")

	require.NoError(t, (&BuildCmd{SkipUnchanged: true}).Run(p.global(), p.root))
	p.out.Reset()
	require.NoError(t, (&BuildCmd{SkipUnchanged: true}).Run(p.global(), p.root))
	assert.Contains(t, p.out.String(), "outcome=skipped")

	p.out.Reset()
	require.NoError(t, (&HistoryCmd{Limit: 5}).Run(p.global(), p.root))
	assert.Contains(t, p.out.String(), "skipped")
	assert.Contains(t, p.out.String(), "success")
}

func TestHistory_RequiresStatePath(t *testing.T) {
	p := newProject(t, "")
	require.Error(t, (&HistoryCmd{Limit: 5}).Run(p.global(), p.root))
}

func TestPosts_JSON(t *testing.T) {
	p := newProject(t, "")
	p.writePost(t, "old/index.md", "---\ntitle: Old\ndate: 2023-01-01\n---\nBody\n")
	p.writePost(t, "new/index.mdx", "---\ntitle: New\ndate: 2024-01-01\n---\nBody\n")
	p.writePost(t, "draft/index.md", "---\ntitle: Draft\ndate: 2024-06-01\npublished: false\n---\nBody\n")

	require.NoError(t, (&PostsCmd{Format: "json"}).Run(p.global(), p.root))
	var entries []post.ListingEntry
	require.NoError(t, json.Unmarshal(p.out.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "/new/", entries[0].Slug)
	assert.Equal(t, "/old/", entries[1].Slug)

	p.out.Reset()
	require.NoError(t, (&PostsCmd{Format: "text", All: true}).Run(p.global(), p.root))
	assert.Contains(t, p.out.String(), "/draft/")
	assert.Contains(t, p.out.String(), "draft")
	assert.NoDirExists(t, p.output)
}

func TestLint_ErrorsFailTheCommand(t *testing.T) {
	p := newProject(t, "")
	p.writePost(t, "ok/index.md", "---\ntitle: Fine\ndate: 2024-01-01\n---\nBody\n")
	require.NoError(t, (&LintCmd{Format: "text"}).Run(p.global(), p.root))

	p.writePost(t, "bad/index.md", "---\ndate: 2024-01-01\n---\nNo title\n")
	p.out.Reset()
	err := (&LintCmd{Format: "json"}).Run(p.global(), p.root)
	require.Error(t, err)
	ce, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryValidation, ce.Category())
	assert.Contains(t, p.out.String(), "frontmatter-required")
}

func TestResolveLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, resolveLevel(true, "error", config.LogLevelWarn))
	assert.Equal(t, slog.LevelError, resolveLevel(false, "error", config.LogLevelWarn))
	assert.Equal(t, slog.LevelWarn, resolveLevel(false, "", config.LogLevelWarn))
	assert.Equal(t, slog.LevelInfo, resolveLevel(false, "", ""))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, slog.LevelInfo, config.LogFormatJSON).Info("hello", slog.String("k", "v"))
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "v", rec["k"])
}
