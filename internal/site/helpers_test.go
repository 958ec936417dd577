package site

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// testConfig returns defaults pointing at a fresh content and output directory.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Site.Title = "Test Blog"
	cfg.Site.SiteURL = "https://blog.example.com"
	cfg.Content.Dirs = []string{filepath.Join(base, "content")}
	cfg.Output.Directory = filepath.Join(base, "public")
	cfg.Build.Workers = 2
	require.NoError(t, os.MkdirAll(cfg.Content.Dirs[0], 0o750))
	return cfg
}

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
}

func writePost(t *testing.T, cfg *config.Config, rel, title, date string, published bool) {
	t.Helper()
	pub := "true"
	if !published {
		pub = "false"
	}
	raw := "---\ntitle: " + title + "\ndate: " + date + "\npublished: " + pub +
		"\ncategories: [go, testing]\n---\nSome words about " + title + ".\n"
	writeFile(t, filepath.Join(cfg.Content.Dirs[0], filepath.FromSlash(rel)), raw)
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
