package site

import (
	"context"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

const sitemapFile = "sitemap.xml"

// stageFeeds writes the RSS feed, the sitemap and the web app manifest.
func stageFeeds(_ context.Context, bs *BuildState) error {
	g := bs.Generator
	cfg := g.cfg

	published := bs.Collection.Published()
	pages := make(map[string]*Page, len(bs.Pages))
	for _, p := range bs.Pages {
		pages[p.Post.Slug] = p
	}

	if cfg.Feed.Enabled {
		data, err := BuildFeed(FeedChannel{
			Title:       cfg.Feed.Title,
			Link:        g.absURL("/"),
			Description: cfg.Site.Description,
			Generator:   version.Generator(),
			Updated:     time.Now(),
		}, g.feedItems(published, pages))
		if err != nil {
			return errors.RenderError("failed to encode feed").WithCause(err).Build()
		}
		if err := g.writeOutput(g.prefixed(cfg.Feed.Output), data); err != nil {
			return err
		}
	}

	entries := []SitemapEntry{{Loc: g.absURL("/")}}
	for _, n := range published {
		entries = append(entries, SitemapEntry{Loc: g.absURL(n.Slug), LastMod: sitemapDate(n)})
	}
	data, err := BuildSitemap(entries)
	if err != nil {
		return errors.RenderError("failed to encode sitemap").WithCause(err).Build()
	}
	if err := g.writeOutput(g.prefixed(sitemapFile), data); err != nil {
		return err
	}

	if cfg.Manifest.Enabled {
		data, err := BuildManifest(cfg.Manifest, g.urlPath(cfg.Manifest.StartURL), bs.Icons)
		if err != nil {
			return errors.InternalError("failed to encode manifest").WithCause(err).Build()
		}
		if err := g.writeOutput(g.prefixed(manifestFile), data); err != nil {
			return err
		}
	}
	return nil
}

// feedItems lists published posts newest first, truncated to feed.limit.
func (g *Generator) feedItems(published []*post.Node, pages map[string]*Page) []FeedItem {
	if limit := g.cfg.Feed.Limit; limit > 0 && len(published) > limit {
		published = published[:limit]
	}
	items := make([]FeedItem, 0, len(published))
	for _, n := range published {
		item := FeedItem{
			Title:       n.Title,
			URL:         g.absURL(n.Slug),
			Date:        n.Date,
			Description: n.Description,
			Categories:  n.Categories,
		}
		if p, ok := pages[n.Slug]; ok {
			item.HTML = string(p.HTML)
			if p.Excerpt != "" {
				item.Description = p.Excerpt
			}
		}
		items = append(items, item)
	}
	return items
}

func sitemapDate(n *post.Node) string {
	if !n.HasDate {
		return ""
	}
	return n.Date.Format(time.DateOnly)
}
