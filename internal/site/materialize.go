package site

import (
	"html/template"
	"path"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// TemplatePost is the layout bound to every post page.
const TemplatePost = "post"

// Page is the output binding of one post: the template, the URL path and output
// file it is written to, the source file it came from and its neighbors.
type Page struct {
	Template   string
	URLPath    string // {pathPrefix}{slug}
	OutputFile string // slash-separated, relative to the output directory
	SourceFile string
	Post       *post.Node
	Previous   *post.Node
	Next       *post.Node

	HTML    template.HTML // rendered body, set by the render stage
	Excerpt string
}

// Materialize binds a post and its page context to the post template.
// A post without a title cannot be materialized.
func Materialize(n *post.Node, pc post.PageContext, pathPrefix string) (*Page, error) {
	if strings.TrimSpace(n.Title) == "" {
		return nil, errors.ContentError("post has no title").
			WithCause(post.ErrMissingTitle).WithContext("file", n.RelativePath).Build()
	}
	urlPath := pathPrefix + n.Slug
	return &Page{
		Template:   TemplatePost,
		URLPath:    urlPath,
		OutputFile: path.Join(strings.TrimPrefix(urlPath, "/"), "index.html"),
		SourceFile: n.ContentFilePath,
		Post:       n,
		Previous:   pc.Previous,
		Next:       pc.Next,
	}, nil
}

// MaterializeAll materializes every post of the collection. Failures for all posts
// are collected and returned together.
func MaterializeAll(c *post.Collection, contexts []post.PageContext, pathPrefix string) ([]*Page, error) {
	nodes := c.All()
	pages := make([]*Page, 0, len(nodes))
	var errs []error
	for i, n := range nodes {
		p, err := Materialize(n, contexts[i], pathPrefix)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		pages = append(pages, p)
	}
	if err := errors.Aggregate(errs); err != nil {
		return nil, err
	}
	return pages, nil
}
