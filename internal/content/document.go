package content

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
)

// Format is the source format of a post.
type Format string

const (
	// FormatMarkdown is the legacy plain Markdown format (.md).
	FormatMarkdown Format = "markdown"
	// FormatMDX is the current format (.mdx).
	FormatMDX Format = "mdx"
)

// FormatForPath returns the post format for a file name and whether it is a post at all.
func FormatForPath(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return FormatMarkdown, true
	case ".mdx":
		return FormatMDX, true
	default:
		return "", false
	}
}

// Document is a source post as read from disk. It is not modified after ReadDocument returns.
type Document struct {
	Path            string         // Absolute or config-relative path on disk
	Root            string         // Content directory the document was found in
	RelativePath    string         // Slash-separated path relative to Root
	Format          Format         // Source format, from the file extension
	Index           int            // Discovery order across all content directories
	Raw             []byte         // Full file content
	Frontmatter     map[string]any // Parsed frontmatter; empty when the document has none
	FrontmatterKind frontmatter.Kind
	RawBody         string // Content after the frontmatter block
}

// Dir returns the slash-separated directory of the document relative to its content root.
// Documents at the root yield "".
func (d *Document) Dir() string {
	dir := filepath.ToSlash(filepath.Dir(filepath.FromSlash(d.RelativePath)))
	if dir == "." {
		return ""
	}
	return dir
}

// ReadDocument reads and parses the document at root/rel.
func ReadDocument(root, rel string, index int) (*Document, error) {
	format, ok := FormatForPath(rel)
	if !ok {
		return nil, fmt.Errorf("%w: %s: unsupported extension", ErrFileReadFailed, rel)
	}

	path := filepath.Join(root, filepath.FromSlash(rel))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFileReadFailed, path, err)
	}

	return ParseDocument(root, filepath.ToSlash(rel), index, format, raw)
}

// ParseDocument builds a Document from in-memory content.
func ParseDocument(root, rel string, index int, format Format, raw []byte) (*Document, error) {
	doc := &Document{
		Path:         filepath.Join(root, filepath.FromSlash(rel)),
		Root:         root,
		RelativePath: rel,
		Format:       format,
		Index:        index,
		Raw:          raw,
	}

	fm, body, kind, _, err := frontmatter.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFrontmatter, rel, err)
	}
	fields, err := frontmatter.Parse(fm, kind)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFrontmatter, rel, err)
	}

	doc.Frontmatter = fields
	doc.FrontmatterKind = kind
	doc.RawBody = string(body)
	return doc, nil
}

// Asset is a non-post file living next to posts, such as an image.
type Asset struct {
	Path         string
	Root         string
	RelativePath string // Slash-separated path relative to Root
}

// IsImage reports whether the asset is a raster or vector image.
func (a Asset) IsImage() bool {
	switch strings.ToLower(filepath.Ext(a.RelativePath)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg":
		return true
	}
	return false
}

var assetExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".svg": true, ".webp": true, ".ico": true,
	".pdf": true, ".mp4": true, ".webm": true, ".csv": true, ".json": true, ".txt": true,
}

func isAsset(name string) bool {
	return assetExtensions[strings.ToLower(filepath.Ext(name))]
}
