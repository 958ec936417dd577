package site

import (
	"context"
	"html/template"
	"net/url"
	"os"
	"path"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// stagePrepareOutput empties (when configured) and creates the output directory.
func stagePrepareOutput(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	dir := g.cfg.Output.Directory
	if g.cfg.Output.Clean {
		if err := os.RemoveAll(dir); err != nil {
			return errors.FileSystemError("failed to clean output directory").WithCause(err).WithContext("path", dir).Build()
		}
	}
	if err := os.MkdirAll(g.outputRoot(), 0o755); err != nil {
		return errors.FileSystemError("failed to create output directory").WithCause(err).WithContext("path", dir).Build()
	}
	return nil
}

// stageRenderPosts materializes a page per post and renders its body.
func stageRenderPosts(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	pages, err := MaterializeAll(bs.Collection, bs.Contexts, g.cfg.Site.PathPrefix)
	if err != nil {
		return err
	}

	assets := make(map[string]bool, len(bs.Assets))
	for _, a := range bs.Assets {
		assets[a.RelativePath] = true
	}

	results := runOrdered(ctx, pages, g.cfg.Build.Workers, func(p *Page) (struct{}, error) {
		out, err := g.rendererFor(p.Post).Render([]byte(p.Post.RawBody), g.assetResolver(p.Post, assets))
		if err != nil {
			return struct{}{}, errors.RenderError("failed to render post").
				WithCause(err).WithContext("file", p.Post.RelativePath).Build()
		}
		p.HTML = template.HTML(out) // #nosec G203 -- output of the site's own Markdown renderer
		p.Excerpt = markdown.Excerpt(out, g.cfg.Markdown.ExcerptLength)
		return struct{}{}, nil
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.Aggregate(collectErrors(results)); err != nil {
		return err
	}

	bs.Pages = pages
	return nil
}

func (g *Generator) rendererFor(n *post.Node) markdown.Renderer {
	if n.Format == content.FormatMDX {
		return g.mdx
	}
	return g.legacy
}

// assetResolver resolves references relative to the post's directory to the
// published URL of a discovered asset.
func (g *Generator) assetResolver(n *post.Node, assets map[string]bool) markdown.AssetResolver {
	return func(ref string) (string, bool) {
		u, err := url.Parse(ref)
		if err != nil || u.Path == "" {
			return "", false
		}
		rel := path.Clean(path.Join(n.SourceDir, u.Path))
		if !assets[rel] {
			return "", false
		}
		resolved := g.urlPath(rel)
		if u.Fragment != "" {
			resolved += "#" + u.Fragment
		}
		return resolved, true
	}
}
