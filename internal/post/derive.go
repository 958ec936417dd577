package post

import (
	"context"
	"fmt"
	"math"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const (
	// DefaultReadingTime is used when a post's reading time cannot be estimated.
	DefaultReadingTime = 5
	wordsPerMinute     = 200
)

// nodeNamespace scopes deterministic node ids.
var nodeNamespace = uuid.MustParse("6f1f7f40-3a43-4c1e-9d59-0b1d5b8c9e11")

// Slug derives the directory-style URL path of a post from its path relative to the
// content root: "blog/hello.md" becomes "/blog/hello/" and "hello/index.mdx" becomes "/hello/".
func Slug(relativePath string) (string, error) {
	p := strings.TrimSpace(strings.ReplaceAll(relativePath, "\\", "/"))
	p = norm.NFC.String(p)
	p = strings.TrimPrefix(p, "./")
	p = strings.Trim(p, "/")
	if p == "" {
		return "", fmt.Errorf("%w: path %q", ErrEmptySlug, relativePath)
	}

	p = path.Clean(p)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
	}
	if p == "." || p == "" || p == ".." || strings.HasPrefix(p, "../") {
		return "", fmt.Errorf("%w: path %q", ErrEmptySlug, relativePath)
	}
	return "/" + p + "/", nil
}

// Published returns the frontmatter published flag, true when absent.
func Published(fm Frontmatter) bool {
	if fm.Published == nil {
		return true
	}
	return *fm.Published
}

// EstimateReadingTime returns whole minutes to read rawBody at 200 words per minute,
// rounded half away from zero. An empty or blank body yields DefaultReadingTime.
func EstimateReadingTime(rawBody string) int {
	words := len(strings.Fields(rawBody))
	if words == 0 {
		return DefaultReadingTime
	}
	return int(math.Round(float64(words) / wordsPerMinute))
}

// Derive turns a document into a source node of its format.
// Only an underivable slug is an error; frontmatter problems are left for Validate.
func Derive(doc *content.Document) (SourceNode, error) {
	slug, err := Slug(doc.RelativePath)
	if err != nil {
		return nil, errors.ContentError("cannot derive slug").
			WithCause(err).WithContext("file", doc.RelativePath).Build()
	}

	fm := DecodeFrontmatter(doc.Frontmatter)
	fields := Fields{Slug: slug, Published: Published(fm)}
	id := uuid.NewSHA1(nodeNamespace, []byte(doc.Root+"|"+doc.RelativePath)).String()

	switch doc.Format {
	case content.FormatMDX:
		body, esm := splitESM(doc.RawBody)
		rt := EstimateReadingTime(body)
		return NewMDXSource(id, doc, fm, fields, &rt, body, esm), nil
	default:
		rt := EstimateReadingTime(doc.RawBody)
		return NewMarkdownSource(id, doc, fm, fields, &rt), nil
	}
}

// splitESM separates top-level import/export lines of an MDX body from its prose.
// Lines inside fenced code blocks are left alone.
func splitESM(body string) (string, []string) {
	var (
		esm   []string
		kept  []string
		fence string
	)
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if fence != "" {
			if strings.HasPrefix(trimmed, fence) {
				fence = ""
			}
			kept = append(kept, line)
			continue
		}
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			fence = trimmed[:3]
			kept = append(kept, line)
			continue
		}
		if line == trimmed && (strings.HasPrefix(line, "import ") || strings.HasPrefix(line, "export ")) {
			esm = append(esm, line)
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), esm
}

// DeriveAll derives every document on a pool of at most workers goroutines.
// Results keep the order of docs. Errors are aggregated after every document was tried
// and returned alongside the sources that did derive. Cancellation yields nil sources.
func DeriveAll(ctx context.Context, docs []*content.Document, workers int) ([]SourceNode, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(docs) {
		workers = len(docs)
	}

	sources := make([]SourceNode, len(docs))
	errs := make([]error, len(docs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				sources[i], errs[i] = Derive(docs[i])
			}
		}()
	}

	var ctxErr error
feed:
	for i := range docs {
		if ctx.Err() != nil {
			ctxErr = ctx.Err()
			break
		}
		select {
		case <-ctx.Done():
			ctxErr = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	kept := make([]SourceNode, 0, len(sources))
	for i, s := range sources {
		if errs[i] == nil {
			kept = append(kept, s)
		}
	}
	return kept, errors.Aggregate(errs)
}

// DecodeFrontmatter reads the known fields out of a raw frontmatter map.
// Both camelCase and snake_case spellings are accepted for multi-word keys.
func DecodeFrontmatter(raw map[string]any) Frontmatter {
	fm := Frontmatter{Raw: raw}
	if raw == nil {
		fm.DateErr = ErrMissingDate
		return fm
	}

	if v, ok := raw["title"]; ok && v != nil {
		fm.Title = strings.TrimSpace(fmt.Sprint(v))
	}
	if v, ok := raw["description"]; ok && v != nil {
		fm.Description = strings.TrimSpace(fmt.Sprint(v))
	}
	if v, ok := lookup(raw, "canonicalLink", "canonical_link"); ok && v != nil {
		fm.CanonicalLink = strings.TrimSpace(fmt.Sprint(v))
	}

	if v, ok := raw["published"]; ok && v != nil {
		switch b := v.(type) {
		case bool:
			fm.Published = &b
		case string:
			parsed, err := strconv.ParseBool(strings.TrimSpace(b))
			if err != nil {
				fm.Problems = append(fm.Problems, fmt.Errorf("%w: published: %q is not a boolean", ErrInvalidField, b))
			} else {
				fm.Published = &parsed
			}
		default:
			fm.Problems = append(fm.Problems, fmt.Errorf("%w: published: %T is not a boolean", ErrInvalidField, v))
		}
	}

	if v, ok := raw["categories"]; ok && v != nil {
		cats, err := stringList(v)
		if err != nil {
			fm.Problems = append(fm.Problems, fmt.Errorf("%w: categories: %w", ErrInvalidField, err))
		}
		fm.Categories = cats
	}

	v, ok := raw["date"]
	if !ok || v == nil {
		fm.DateErr = ErrMissingDate
	} else if t, err := ParseDate(v); err != nil {
		fm.DateErr = err
	} else {
		fm.Date = t
	}

	return fm
}

func lookup(raw map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := raw[k]; ok {
			return v, true
		}
	}
	return nil, false
}

func stringList(v any) ([]string, error) {
	switch vv := v.(type) {
	case string:
		var out []string
		for _, part := range strings.Split(vv, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
		return out, nil
	case []string:
		return vv, nil
	case []any:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			switch s := item.(type) {
			case string:
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			case nil:
			default:
				out = append(out, fmt.Sprint(s))
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%T is not a list", v)
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.DateOnly,
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate accepts time values and the common written date layouts. Dates without a
// zone are taken as UTC.
func ParseDate(v any) (time.Time, error) {
	switch d := v.(type) {
	case time.Time:
		return d, nil
	case string:
		s := strings.TrimSpace(d)
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, d)
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrInvalidDate, v)
	}
}
