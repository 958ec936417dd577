package markdown

import (
	"github.com/russross/blackfriday/v2"
)

// BlackfridayRenderer renders legacy Markdown posts.
type BlackfridayRenderer struct {
	opts  Options
	flags blackfriday.HTMLFlags
}

// NewBlackfridayRenderer creates a blackfriday based renderer.
func NewBlackfridayRenderer(opts Options) *BlackfridayRenderer {
	flags := blackfriday.CommonHTMLFlags
	if !opts.Typographer {
		flags &^= blackfriday.Smartypants | blackfriday.SmartypantsFractions |
			blackfriday.SmartypantsDashes | blackfriday.SmartypantsLatexDashes
	}
	return &BlackfridayRenderer{opts: opts, flags: flags}
}

func (r *BlackfridayRenderer) Name() string { return "blackfriday" }

// Render converts body to post-processed HTML.
func (r *BlackfridayRenderer) Render(body []byte, resolve AssetResolver) ([]byte, error) {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{Flags: r.flags})
	out := blackfriday.Run(normalizeNewlines(body),
		blackfriday.WithExtensions(blackfriday.CommonExtensions|blackfriday.AutoHeadingIDs|blackfriday.Footnotes),
		blackfriday.WithRenderer(renderer),
	)
	return PostProcess(out, r.opts, resolve)
}

// normalizeNewlines converts CRLF input, which blackfriday does not handle in fenced blocks.
func normalizeNewlines(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] == '\r' && i+1 < len(b) && b[i+1] == '\n' {
			continue
		}
		out = append(out, b[i])
	}
	return out
}
