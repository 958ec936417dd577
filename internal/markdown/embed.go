package markdown

import (
	"bytes"
	"html"
	"net/url"
	"regexp"
	"strings"
)

type embedTarget struct {
	src    string
	script bool
}

// parseEmbed recognizes the inline code embeds `youtube: <url|id>`, `vimeo: <url|id>`,
// `video: <url>` and `gist: [user/]id`.
func parseEmbed(code, gistUser string) (embedTarget, bool) {
	kind, arg, ok := strings.Cut(strings.TrimSpace(code), ":")
	if !ok {
		return embedTarget{}, false
	}
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return embedTarget{}, false
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "youtube":
		return embedTarget{src: "https://www.youtube.com/embed/" + youtubeID(arg)}, true
	case "vimeo":
		return embedTarget{src: "https://player.vimeo.com/video/" + lastPathSegment(arg)}, true
	case "video":
		if !strings.HasPrefix(arg, "https://") && !strings.HasPrefix(arg, "http://") {
			return embedTarget{}, false
		}
		return embedTarget{src: arg}, true
	case "gist":
		ref := strings.TrimSuffix(arg, ".js")
		if !strings.Contains(ref, "/") {
			if gistUser == "" {
				return embedTarget{}, false
			}
			ref = gistUser + "/" + ref
		}
		return embedTarget{src: "https://gist.github.com/" + ref + ".js", script: true}, true
	}
	return embedTarget{}, false
}

func youtubeID(arg string) string {
	u, err := url.Parse(arg)
	if err != nil || u.Host == "" {
		return arg
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	return lastPathSegment(u.Path)
}

func lastPathSegment(s string) string {
	s = strings.TrimRight(s, "/")
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}

var embedComponent = regexp.MustCompile(`<Embed\s+src=(?:"([^"]*)"|'([^']*)')\s*/>`)

// ExpandComponents replaces <Embed src="..."/> components outside fenced code
// with responsive iframes.
func ExpandComponents(body []byte) []byte {
	lines := bytes.SplitAfter(body, []byte("\n"))
	inFence := false
	var fence string
	for i, line := range lines {
		trimmed := strings.TrimSpace(string(line))
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case !inFence:
				inFence, fence = true, marker
			case strings.HasPrefix(trimmed, fence):
				inFence = false
			}
			continue
		}
		if inFence {
			continue
		}
		lines[i] = embedComponent.ReplaceAllFunc(line, func(m []byte) []byte {
			sub := embedComponent.FindSubmatch(m)
			src := string(sub[1])
			if src == "" {
				src = string(sub[2])
			}
			return []byte(`<iframe src="` + html.EscapeString(src) + `" width="100%" height="400" frameborder="0" allowfullscreen></iframe>`)
		})
	}
	return bytes.Join(lines, nil)
}

func fenceMarker(line string) string {
	for _, m := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, m) {
			return m
		}
	}
	return ""
}
