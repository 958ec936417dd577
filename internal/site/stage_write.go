package site

import (
	"context"
	"log/slog"
	"net/url"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

const manifestFile = "manifest.webmanifest"

// stageWritePages executes the layouts for every post page and the listing page.
func stageWritePages(ctx context.Context, bs *BuildState) error {
	g := bs.Generator
	tmpl, err := LoadTemplates(g.cfg.Site.LayoutsDir, g.templateFuncs())
	if err != nil {
		return err
	}

	results := runOrdered(ctx, bs.Pages, g.cfg.Build.Workers, func(p *Page) (struct{}, error) {
		out, err := tmpl.Execute(TemplatePost, g.postPageData(bs, p))
		if err != nil {
			return struct{}{}, errors.RenderError("failed to render post page").
				WithCause(err).WithContext("file", p.Post.RelativePath).Build()
		}
		if err := g.writeOutput(p.OutputFile, out); err != nil {
			return struct{}{}, err
		}
		slog.Debug("Post page written", logfields.Slug(p.Post.Slug), logfields.Path(p.OutputFile))
		return struct{}{}, nil
	})
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := errors.Aggregate(collectErrors(results)); err != nil {
		return err
	}

	out, err := tmpl.Execute(TemplateIndex, g.indexPageData(bs))
	if err != nil {
		return err
	}
	if err := g.writeOutput(g.prefixed("index.html"), out); err != nil {
		return err
	}

	bs.Report.RenderedPages = len(bs.Pages) + 1
	return nil
}

// listed returns the posts shown on the listing page, newest first.
func (g *Generator) listed(bs *BuildState) []*post.Node {
	if g.drafts {
		return bs.Collection.All()
	}
	return bs.Collection.Published()
}

func (g *Generator) basePageData(bs *BuildState) pageData {
	cfg := g.cfg
	d := pageData{
		Site:      cfg.Site,
		Analytics: cfg.Analytics,
		Generator: version.Generator(),
		AvatarURL: bs.AvatarURL,
	}
	if cfg.Feed.Enabled {
		d.FeedURL = g.urlPath(cfg.Feed.Output)
	}
	if cfg.Manifest.Enabled {
		d.ManifestURL = g.urlPath(manifestFile)
	}
	return d
}

func (g *Generator) indexPageData(bs *BuildState) pageData {
	d := g.basePageData(bs)
	d.Posts = post.Listing(g.listed(bs))
	d.SEO = seoData{
		Title:       g.cfg.Site.Title,
		Description: g.cfg.Site.Description,
		Canonical:   g.absURL("/"),
		Type:        "website",
	}
	return d
}

func (g *Generator) postPageData(bs *BuildState, p *Page) pageData {
	n := p.Post
	d := g.basePageData(bs)
	d.Page = p
	d.PublicURL = g.absURL(n.Slug)
	d.DiscussURL = "https://twitter.com/search?q=" + url.QueryEscape(d.PublicURL)
	if gh := g.cfg.Site.GithubURL; gh != "" {
		d.EditURL = gh + "/edit/master/" + path.Join("content", n.RelativePath)
	}

	description := n.Description
	if description == "" {
		description = p.Excerpt
	}
	canonical := n.CanonicalLink
	if canonical == "" {
		canonical = d.PublicURL
	}
	d.SEO = seoData{
		Title:       postTitle(n.Title, g.cfg.Site.Title),
		Description: description,
		Canonical:   canonical,
		Type:        "article",
		Keywords:    n.Categories,
		Meta: []metaTag{
			{Name: "twitter:label1", Content: "Reading time"},
			{Name: "twitter:data1", Content: post.ReadingTimeLabel(n.ReadingTime)},
		},
	}
	return d
}

func postTitle(title, siteTitle string) string {
	if strings.TrimSpace(siteTitle) == "" {
		return title
	}
	return title + " | " + siteTitle
}
