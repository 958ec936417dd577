// Package markdown renders post bodies to HTML and analyzes their links.
package markdown

import (
	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// Renderer converts a Markdown body (frontmatter already removed) to HTML.
type Renderer interface {
	Render(body []byte, resolve AssetResolver) ([]byte, error)
	Name() string
}

// AssetResolver maps a relative reference found in a post to its published URL.
// ok is false when the reference does not name a known asset. A nil resolver
// leaves every reference untouched.
type AssetResolver func(ref string) (url string, ok bool)

// Options carries the rendering switches shared by every engine.
type Options struct {
	Typographer        bool
	AutolinkHeadings   config.AutolinkBehavior
	ExternalLinks      bool
	SiteURL            string // links to this host are not treated as external
	CodeClassPrefix    string
	IframeWrapperStyle string
	ShowCaptions       bool
	LazyImages         bool
	GistUser           string // default user for `gist:id` embeds
}

// OptionsFromConfig maps configuration onto renderer options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Typographer:        cfg.Markdown.Typographer,
		AutolinkHeadings:   cfg.Markdown.AutolinkHeadings,
		ExternalLinks:      cfg.Markdown.ExternalLinks,
		SiteURL:            cfg.Site.SiteURL,
		CodeClassPrefix:    cfg.Markdown.CodeClassPrefix,
		IframeWrapperStyle: cfg.Markdown.IframeWrapperStyle,
		ShowCaptions:       cfg.Images.ShowCaptions,
		LazyImages:         cfg.Images.Lazy,
		GistUser:           cfg.Site.Social.Github,
	}
}

// NewLegacyRenderer returns the renderer for legacy .md posts selected by engine.
func NewLegacyRenderer(engine config.MarkdownEngine, opts Options) Renderer {
	if engine == config.EngineGoldmark {
		return NewGoldmarkRenderer(opts, false)
	}
	return NewBlackfridayRenderer(opts)
}

// NewMDXRenderer returns the renderer for current .mdx posts. Embedded JSX-style
// components are expanded and raw HTML is passed through.
func NewMDXRenderer(opts Options) Renderer {
	return NewGoldmarkRenderer(opts, true)
}
