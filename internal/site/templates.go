package site

import (
	"bytes"
	"embed"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplateIndex is the layout of the listing page.
const TemplateIndex = "index"

// sharedLayouts are parsed into every page template.
var sharedLayouts = []string{"base.html", "seo.html", "analytics.html", "bio.html", "pills.html"}

// Templates holds one parsed template set per page kind.
type Templates struct {
	sets map[string]*template.Template
}

// LoadTemplates parses the embedded layouts. A file of the same name in
// layoutsDir replaces the embedded one.
func LoadTemplates(layoutsDir string, funcs template.FuncMap) (*Templates, error) {
	t := &Templates{sets: make(map[string]*template.Template, 2)}
	for _, kind := range []string{TemplateIndex, TemplatePost} {
		set := template.New(kind).Funcs(funcs)
		for _, name := range append(append([]string{}, sharedLayouts...), kind+".html") {
			src, err := readLayout(layoutsDir, name)
			if err != nil {
				return nil, err
			}
			if _, err := set.New(name).Parse(src); err != nil {
				return nil, errors.RenderError("failed to parse template").
					WithCause(err).WithContext("template", name).Build()
			}
		}
		t.sets[kind] = set
	}
	return t, nil
}

func readLayout(layoutsDir, name string) (string, error) {
	if layoutsDir != "" {
		override := filepath.Join(layoutsDir, name)
		data, err := os.ReadFile(filepath.Clean(override))
		if err == nil {
			return string(data), nil
		}
		if !os.IsNotExist(err) {
			return "", errors.FileSystemError("failed to read layout override").
				WithCause(err).WithContext("path", override).Build()
		}
	}
	data, err := embeddedTemplates.ReadFile("templates/" + name)
	if err != nil {
		return "", errors.InternalError("embedded template missing").WithCause(err).WithContext("template", name).Build()
	}
	return string(data), nil
}

// Execute renders the page kind with data.
func (t *Templates) Execute(kind string, data any) ([]byte, error) {
	set, ok := t.sets[kind]
	if !ok {
		return nil, errors.InternalError("unknown template").WithContext("template", kind).Build()
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, "base", data); err != nil {
		return nil, errors.RenderError("failed to execute template").WithCause(err).WithContext("template", kind).Build()
	}
	return buf.Bytes(), nil
}

func (g *Generator) templateFuncs() template.FuncMap {
	return template.FuncMap{
		"formatDate":  post.FormatPostDate,
		"readingTime": post.FormatReadingTime,
		"url":         g.urlPath,
		"absURL":      g.absURL,
		"join":        strings.Join,
	}
}

// pageData is the value every layout executes against.
type pageData struct {
	Site        config.SiteMetadata
	Analytics   config.AnalyticsConfig
	SEO         seoData
	Generator   string
	FeedURL     string
	ManifestURL string
	AvatarURL   string

	Posts []post.ListingEntry // listing page only

	Page       *Page // post pages only
	PublicURL  string
	DiscussURL string
	EditURL    string
}

type seoData struct {
	Title       string
	Description string
	Canonical   string
	Type        string
	Keywords    []string
	Meta        []metaTag
}

type metaTag struct {
	Name    string
	Content string
}
