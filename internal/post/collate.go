package post

import (
	"cmp"
	"slices"
	"strings"
)

// Collection is the date-sorted sequence of every post, published or not.
type Collection struct {
	nodes  []*Node
	bySlug map[string]*Node
}

// Collate normalizes sources of both formats into nodes and sorts them newest first.
// Posts with equal dates keep discovery order, whatever group they arrive in.
// Unpublished posts are retained.
func Collate(sources ...[]SourceNode) *Collection {
	var nodes []*Node
	for _, group := range sources {
		for _, s := range group {
			nodes = append(nodes, normalize(s))
		}
	}

	slices.SortStableFunc(nodes, func(a, b *Node) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.Index, b.Index)
	})

	c := &Collection{nodes: nodes, bySlug: make(map[string]*Node, len(nodes))}
	for _, n := range nodes {
		c.bySlug[n.Slug] = n
	}
	return c
}

// normalize resolves the source variant into the unified node shape.
func normalize(s SourceNode) *Node {
	var (
		base *sourceBase
		body string
	)
	switch v := s.(type) {
	case *MarkdownSource:
		base = &v.sourceBase
		body = v.Document.RawBody
	case *MDXSource:
		base = &v.sourceBase
		body = v.Body
	default:
		panic("post: unknown source node type")
	}

	doc := base.Document
	fm := base.Frontmatter
	rt := DefaultReadingTime
	if base.ReadingTime != nil && *base.ReadingTime >= 0 {
		rt = *base.ReadingTime
	}

	return &Node{
		ID:              base.ID,
		Format:          doc.Format,
		Title:           fm.Title,
		Date:            fm.Date,
		HasDate:         fm.DateErr == nil,
		Description:     fm.Description,
		Categories:      fm.Categories,
		CanonicalLink:   fm.CanonicalLink,
		Slug:            base.Fields.Slug,
		Published:       base.Fields.Published,
		ReadingTime:     rt,
		ContentFilePath: doc.Path,
		RelativePath:    doc.RelativePath,
		SourceDir:       doc.Dir(),
		RawBody:         body,
		Frontmatter:     fm.Raw,
		Index:           doc.Index,
	}
}

// Len returns the number of posts, published or not.
func (c *Collection) Len() int { return len(c.nodes) }

// All returns every post in sorted order.
func (c *Collection) All() []*Node {
	return slices.Clone(c.nodes)
}

// Published returns the listing view: published posts in sorted order.
func (c *Collection) Published() []*Node {
	out := make([]*Node, 0, len(c.nodes))
	for _, n := range c.nodes {
		if n.Published {
			out = append(out, n)
		}
	}
	return out
}

// BySlug looks a post up by slug. The slug may omit its surrounding slashes.
func (c *Collection) BySlug(slug string) (*Node, bool) {
	if n, ok := c.bySlug[slug]; ok {
		return n, true
	}
	n, ok := c.bySlug["/"+strings.Trim(slug, "/")+"/"]
	return n, ok
}
