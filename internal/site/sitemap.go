package site

import (
	"bytes"
	"encoding/xml"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapEntry is one page listed in the sitemap.
type SitemapEntry struct {
	Loc     string
	LastMod string // YYYY-MM-DD, optional
}

// BuildSitemap encodes a sitemaps.org urlset.
func BuildSitemap(entries []SitemapEntry) ([]byte, error) {
	urls := make([]sitemapURL, 0, len(entries))
	for _, e := range entries {
		urls = append(urls, sitemapURL{Loc: e.Loc, LastMod: e.LastMod})
	}
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
