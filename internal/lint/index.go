package lint

import (
	"path"
	"sort"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Index holds what cross-file rules need: every post slug and every asset path.
type Index struct {
	PathPrefix string

	slugs  map[string][]string // slug -> relative paths of the posts deriving it
	assets map[string]bool     // root-relative asset paths
}

// NewIndex builds an index over files.
func NewIndex(files []File, pathPrefix string) *Index {
	idx := &Index{
		PathPrefix: pathPrefix,
		slugs:      make(map[string][]string),
		assets:     make(map[string]bool),
	}
	for _, f := range files {
		if !f.IsPost() {
			idx.assets[f.RelativePath] = true
			continue
		}
		slug, err := post.Slug(f.RelativePath)
		if err != nil {
			continue
		}
		idx.slugs[slug] = append(idx.slugs[slug], f.RelativePath)
	}
	for _, files := range idx.slugs {
		sort.Strings(files)
	}
	return idx
}

// HasSlug reports whether some post derives slug.
func (idx *Index) HasSlug(slug string) bool {
	return len(idx.slugs[slug]) > 0
}

// FilesForSlug returns the posts deriving slug, sorted.
func (idx *Index) FilesForSlug(slug string) []string {
	return idx.slugs[slug]
}

// HasAsset reports whether rel names a discovered asset.
func (idx *Index) HasAsset(rel string) bool {
	return idx.assets[path.Clean(rel)]
}
