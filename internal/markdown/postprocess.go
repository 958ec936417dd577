package markdown

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

const (
	iframeWrapperClass = "responsive-iframe"
	externalLinkRel    = "nofollow noopener noreferrer"
)

// PostProcess applies the site's HTML transforms to rendered Markdown:
// heading self links, external link attributes, code language classes,
// responsive iframes, image captions, lazy loading and asset URL rewriting.
func PostProcess(src []byte, opts Options, resolve AssetResolver) ([]byte, error) {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(bytes.NewReader(src), container)
	if err != nil {
		return nil, err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}

	p := &processor{opts: opts, resolve: resolve, siteHost: hostOf(opts.SiteURL)}
	p.walk(container)

	var buf bytes.Buffer
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

type processor struct {
	opts     Options
	resolve  AssetResolver
	siteHost string
}

// walk visits children before their parent so replacements never get revisited.
func (p *processor) walk(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			p.walk(c)
			p.element(c)
		}
		c = next
	}
}

func (p *processor) element(n *html.Node) {
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.heading(n)
	case atom.A:
		p.anchor(n)
	case atom.Img:
		p.image(n)
	case atom.Pre:
		p.codeBlock(n)
	case atom.Iframe:
		p.iframe(n)
	case atom.P:
		p.paragraph(n)
	}
}

func (p *processor) heading(n *html.Node) {
	id := getAttr(n, "id")
	if id == "" {
		return
	}

	behavior := p.opts.AutolinkHeadings
	if behavior == config.AutolinkWrap && containsElement(n, atom.A) {
		behavior = config.AutolinkPrepend
	}

	switch behavior {
	case config.AutolinkWrap:
		a := element(atom.A, html.Attribute{Key: "href", Val: "#" + id}, html.Attribute{Key: "class", Val: "anchor"})
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			a.AppendChild(c)
			c = next
		}
		n.AppendChild(a)
	case config.AutolinkPrepend:
		a := element(atom.A,
			html.Attribute{Key: "href", Val: "#" + id},
			html.Attribute{Key: "aria-hidden", Val: "true"},
			html.Attribute{Key: "class", Val: "anchor"},
		)
		n.InsertBefore(a, n.FirstChild)
	}
}

func (p *processor) anchor(n *html.Node) {
	href := getAttr(n, "href")
	if href == "" {
		return
	}
	if isRelativeRef(href) {
		if resolved, ok := p.lookup(href); ok {
			setAttr(n, "href", resolved)
		}
		return
	}
	if p.opts.ExternalLinks && p.isExternal(href) {
		setAttr(n, "target", "_blank")
		setAttr(n, "rel", externalLinkRel)
	}
}

func (p *processor) image(n *html.Node) {
	if src := getAttr(n, "src"); isRelativeRef(src) {
		if resolved, ok := p.lookup(src); ok {
			setAttr(n, "src", resolved)
		}
	}
	if p.opts.LazyImages && getAttr(n, "loading") == "" {
		setAttr(n, "loading", "lazy")
	}
}

func (p *processor) codeBlock(n *html.Node) {
	prefix := p.opts.CodeClassPrefix
	if prefix == "" {
		return
	}

	lang := "text"
	code := firstElementChild(n)
	if code != nil && code.DataAtom == atom.Code {
		for _, class := range strings.Fields(getAttr(code, "class")) {
			if l, ok := strings.CutPrefix(class, "language-"); ok && l != "" {
				lang = l
				break
			}
		}
		setAttr(code, "class", prefix+lang)
	}
	setAttr(n, "class", prefix+lang)
}

func (p *processor) iframe(n *html.Node) {
	if n.Parent == nil || hasClass(n.Parent, iframeWrapperClass) {
		return
	}
	wrapper := p.iframeWrapper()
	n.Parent.InsertBefore(wrapper, n)
	n.Parent.RemoveChild(n)
	wrapper.AppendChild(n)
}

func (p *processor) iframeWrapper() *html.Node {
	attrs := []html.Attribute{{Key: "class", Val: iframeWrapperClass}}
	if p.opts.IframeWrapperStyle != "" {
		attrs = append(attrs, html.Attribute{Key: "style", Val: p.opts.IframeWrapperStyle})
	}
	return element(atom.Div, attrs...)
}

// paragraph replaces paragraphs holding a single embed code span or a single image.
func (p *processor) paragraph(n *html.Node) {
	only := soleElementChild(n)
	if only == nil || n.Parent == nil {
		return
	}

	switch only.DataAtom {
	case atom.Code:
		if repl := p.embed(textContent(only)); repl != nil {
			n.Parent.InsertBefore(repl, n)
			n.Parent.RemoveChild(n)
		}
	case atom.Img:
		if !p.opts.ShowCaptions {
			return
		}
		caption := getAttr(only, "title")
		if caption == "" {
			caption = getAttr(only, "alt")
		}
		figure := element(atom.Figure, html.Attribute{Key: "class", Val: "post-image"})
		n.RemoveChild(only)
		figure.AppendChild(only)
		if caption != "" {
			figcaption := element(atom.Figcaption)
			figcaption.AppendChild(&html.Node{Type: html.TextNode, Data: caption})
			figure.AppendChild(figcaption)
		}
		n.Parent.InsertBefore(figure, n)
		n.Parent.RemoveChild(n)
	}
}

func (p *processor) embed(code string) *html.Node {
	e, ok := parseEmbed(code, p.opts.GistUser)
	if !ok {
		return nil
	}
	if e.script {
		return element(atom.Script, html.Attribute{Key: "src", Val: e.src})
	}
	wrapper := p.iframeWrapper()
	wrapper.AppendChild(iframeNode(e.src))
	return wrapper
}

func (p *processor) lookup(ref string) (string, bool) {
	if p.resolve == nil {
		return "", false
	}
	return p.resolve(ref)
}

func (p *processor) isExternal(href string) bool {
	u, err := url.Parse(href)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return !strings.EqualFold(u.Host, p.siteHost)
}

func hostOf(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// isRelativeRef reports whether ref is relative to the post's own directory.
func isRelativeRef(ref string) bool {
	if ref == "" || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "?") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func iframeNode(src string) *html.Node {
	return element(atom.Iframe,
		html.Attribute{Key: "src", Val: src},
		html.Attribute{Key: "width", Val: "100%"},
		html.Attribute{Key: "height", Val: "400"},
		html.Attribute{Key: "frameborder", Val: "0"},
		html.Attribute{Key: "allowfullscreen", Val: ""},
	)
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(getAttr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func containsElement(n *html.Node, a atom.Atom) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.DataAtom == a || containsElement(c, a)) {
			return true
		}
	}
	return false
}

func firstElementChild(n *html.Node) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return c
		}
	}
	return nil
}

// soleElementChild returns the only element child of n, or nil when n holds
// other elements or non-blank text.
func soleElementChild(n *html.Node) *html.Node {
	var only *html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			if only != nil {
				return nil
			}
			only = c
		case html.TextNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil
			}
		}
	}
	return only
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
