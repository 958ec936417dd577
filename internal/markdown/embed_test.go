package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseEmbed(t *testing.T) {
	tests := []struct {
		name   string
		code   string
		want   string
		script bool
		ok     bool
	}{
		{name: "youtube id", code: "youtube: dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ", ok: true},
		{name: "youtube short url", code: "youtube: https://youtu.be/dQw4w9WgXcQ", want: "https://www.youtube.com/embed/dQw4w9WgXcQ", ok: true},
		{name: "vimeo url", code: "vimeo: https://vimeo.com/76979871", want: "https://player.vimeo.com/video/76979871", ok: true},
		{name: "video url", code: "video: https://example.org/v.mp4", want: "https://example.org/v.mp4", ok: true},
		{name: "video needs url", code: "video: v.mp4"},
		{name: "gist with user", code: "gist: alice/abc123", want: "https://gist.github.com/alice/abc123.js", script: true, ok: true},
		{name: "gist default user", code: "gist:abc123", want: "https://gist.github.com/octo/abc123.js", script: true, ok: true},
		{name: "plain code", code: "fmt.Println"},
		{name: "unknown kind", code: "tweet: 123"},
		{name: "empty arg", code: "youtube:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseEmbed(tt.code, "octo")
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got.src)
				assert.Equal(t, tt.script, got.script)
			}
		})
	}
}

func TestExpandComponents_SkipsFences(t *testing.T) {
	src := "<Embed src='https://a.example/x' />\n```\n<Embed src=\"https://b.example/y\" />\n```\n"
	got := string(ExpandComponents([]byte(src)))
	assert.Contains(t, got, `<iframe src="https://a.example/x"`)
	assert.Contains(t, got, "<Embed src=\"https://b.example/y\" />")
}

func TestExpandComponents_NoComponents(t *testing.T) {
	src := "Just text\n"
	assert.Equal(t, src, string(ExpandComponents([]byte(src))))
}
