package markdown

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

// excerptSkipped elements contribute no text to excerpts.
var excerptSkipped = map[string]bool{
	"pre": true, "script": true, "style": true, "iframe": true,
	"figcaption": true, "sup": true,
}

// excerptBreaks separate words across element boundaries.
var excerptBreaks = map[string]bool{
	"p": true, "li": true, "br": true, "div": true, "blockquote": true, "td": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// Excerpt returns the leading plain text of rendered HTML, cut at a word
// boundary and suffixed with an ellipsis when longer than maxLen runes.
// maxLen <= 0 returns the full text.
func Excerpt(rendered []byte, maxLen int) string {
	z := html.NewTokenizer(bytes.NewReader(rendered))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return truncateWords(strings.Join(strings.Fields(b.String()), " "), maxLen)
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if excerptSkipped[string(name)] && tt == html.StartTagToken {
				skip++
			}
			if excerptBreaks[string(name)] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if excerptSkipped[string(name)] && skip > 0 {
				skip--
			}
			if excerptBreaks[string(name)] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func truncateWords(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:maxLen])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.") + "…"
}
