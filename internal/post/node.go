package post

import (
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
)

// Node is a post with every frontmatter field and the derived fields resolved.
// Both source formats normalize to this shape.
type Node struct {
	ID              string
	Format          content.Format
	Title           string
	Date            time.Time // zero when HasDate is false
	HasDate         bool
	Description     string
	Categories      []string
	CanonicalLink   string
	Slug            string
	Published       bool
	ReadingTime     int // minutes estimated from the body, never negative
	ContentFilePath string
	RelativePath    string
	SourceDir       string // slash-separated directory of the source file within its content root
	RawBody         string
	Frontmatter     map[string]any
	Index           int // discovery order
}

// PageContext is the data bound to a post page besides the post itself.
// Previous points to the older neighbor and Next to the newer one; both are nil
// when the neighbor does not exist or is unpublished.
type PageContext struct {
	ID       string
	Previous *Node
	Next     *Node
}

// Frontmatter is the typed view of a post's frontmatter block.
type Frontmatter struct {
	Title         string
	Date          time.Time
	DateErr       error // ErrMissingDate or ErrInvalidDate, nil when Date is usable
	Description   string
	Published     *bool
	Categories    []string
	CanonicalLink string
	Problems      []error // fields present with an unusable type
	Raw           map[string]any
}

// Fields holds values derived from a document rather than read from it.
type Fields struct {
	Slug      string
	Published bool
}

// SourceNode is a derived post in one of the supported source formats.
// It is a closed set: MarkdownSource and MDXSource.
type SourceNode interface {
	source() *sourceBase
}

type sourceBase struct {
	ID          string
	Document    *content.Document
	Frontmatter Frontmatter
	Fields      Fields
	ReadingTime *int // nil when it could not be resolved
}

func (b *sourceBase) source() *sourceBase { return b }

// MarkdownSource is a legacy .md post.
type MarkdownSource struct {
	sourceBase
}

// MDXSource is a current .mdx post. Imports and exports lines are kept apart from the body.
type MDXSource struct {
	sourceBase
	Body string // RawBody without the ESM lines
	ESM  []string
}

// NewMarkdownSource assembles a legacy source from already derived parts.
func NewMarkdownSource(id string, doc *content.Document, fm Frontmatter, fields Fields, readingTime *int) *MarkdownSource {
	return &MarkdownSource{sourceBase{ID: id, Document: doc, Frontmatter: fm, Fields: fields, ReadingTime: readingTime}}
}

// NewMDXSource assembles a current-format source from already derived parts.
func NewMDXSource(id string, doc *content.Document, fm Frontmatter, fields Fields, readingTime *int, body string, esm []string) *MDXSource {
	return &MDXSource{
		sourceBase: sourceBase{ID: id, Document: doc, Frontmatter: fm, Fields: fields, ReadingTime: readingTime},
		Body:       body,
		ESM:        esm,
	}
}

// SourceSlug returns the derived slug of any source node.
func SourceSlug(s SourceNode) string { return s.source().Fields.Slug }

// SourceDocument returns the document a source node was derived from.
func SourceDocument(s SourceNode) *content.Document { return s.source().Document }

// SourceFrontmatter returns the typed frontmatter of a source node.
func SourceFrontmatter(s SourceNode) Frontmatter { return s.source().Frontmatter }
