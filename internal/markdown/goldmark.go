package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// GoldmarkRenderer renders CommonMark with GitHub extensions.
type GoldmarkRenderer struct {
	md   goldmark.Markdown
	opts Options
	mdx  bool
}

// NewGoldmarkRenderer creates a goldmark based renderer. With mdx set, <Embed/> components
// are expanded before parsing.
func NewGoldmarkRenderer(opts Options, mdx bool) *GoldmarkRenderer {
	exts := []goldmark.Extender{extension.GFM, extension.Footnote}
	if opts.Typographer {
		exts = append(exts, extension.Typographer)
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithUnsafe(),
		),
	)
	return &GoldmarkRenderer{md: md, opts: opts, mdx: mdx}
}

func (r *GoldmarkRenderer) Name() string {
	if r.mdx {
		return "goldmark-mdx"
	}
	return "goldmark"
}

// Render converts body to post-processed HTML.
func (r *GoldmarkRenderer) Render(body []byte, resolve AssetResolver) ([]byte, error) {
	if r.mdx {
		body = ExpandComponents(body)
	}

	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, err
	}
	return PostProcess(buf.Bytes(), r.opts, resolve)
}
