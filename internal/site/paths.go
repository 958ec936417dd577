package site

import (
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// outputRoot is the directory that maps to the site's path prefix.
func (g *Generator) outputRoot() string {
	prefix := strings.TrimPrefix(g.cfg.Site.PathPrefix, "/")
	return filepath.Join(g.cfg.Output.Directory, filepath.FromSlash(prefix))
}

// urlPath prefixes a site-absolute path with the path prefix.
func (g *Generator) urlPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return g.cfg.Site.PathPrefix + p
}

// absURL returns the public URL of a site-absolute path.
func (g *Generator) absURL(p string) string {
	return g.cfg.Site.SiteURL + g.urlPath(p)
}

// writeOutput writes data to rel (slash-separated, relative to the output directory).
func (g *Generator) writeOutput(rel string, data []byte) error {
	dst := filepath.Join(g.cfg.Output.Directory, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return errors.FileSystemError("failed to create output directory").WithCause(err).WithContext("path", dst).Build()
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return errors.FileSystemError("failed to write output file").WithCause(err).WithContext("path", dst).Build()
	}
	return nil
}

// prefixed joins the path prefix (without its leading slash) and rel.
func (g *Generator) prefixed(rel string) string {
	prefix := strings.TrimPrefix(g.cfg.Site.PathPrefix, "/")
	if prefix == "" {
		return strings.TrimPrefix(rel, "/")
	}
	return prefix + "/" + strings.TrimPrefix(rel, "/")
}
