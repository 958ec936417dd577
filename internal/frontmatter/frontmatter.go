package frontmatter

import (
	"bytes"
	"errors"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Kind identifies the frontmatter dialect of a document.
type Kind int

const (
	KindNone Kind = iota
	KindYAML      // `---` delimited
	KindTOML      // `+++` delimited
)

func (k Kind) String() string {
	switch k {
	case KindYAML:
		return "yaml"
	case KindTOML:
		return "toml"
	default:
		return "none"
	}
}

func (k Kind) delimiter() string {
	if k == KindTOML {
		return "+++"
	}
	return "---"
}

// Style captures formatting details needed for stable rewriting.
//
// It intentionally focuses on newline/trailing newline shape and does not
// attempt to preserve original formatting of the frontmatter itself.
type Style struct {
	Newline            string
	HasTrailingNewline bool
	// LeadingKeys are written first, in this order. Remaining top-level keys follow sorted.
	LeadingKeys []string
}

// ErrMissingClosingDelimiter indicates the document started with a frontmatter
// delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("frontmatter start delimiter found but closing delimiter is missing")

// Split separates frontmatter from the Markdown body.
//
// YAML (`---`) and TOML (`+++`) blocks are recognized when they open the document.
// Otherwise kind is KindNone and body is the full input.
func Split(content []byte) (frontmatter []byte, body []byte, kind Kind, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline

	for _, k := range []Kind{KindYAML, KindTOML} {
		delim := k.delimiter()
		open := []byte(delim + nl)
		if !bytes.HasPrefix(content, open) {
			continue
		}

		start := len(open)
		if bytes.HasPrefix(content[start:], open) {
			return []byte{}, content[start+len(open):], k, style, nil
		}

		closeSeq := []byte(nl + delim + nl)
		idx := bytes.Index(content[start:], closeSeq)
		if idx < 0 {
			// A closing delimiter on the final line without a newline.
			if bytes.HasSuffix(content, []byte(nl+delim)) && len(content) > start+len(delim) {
				end := len(content) - len(delim)
				return content[start:end], []byte{}, k, style, nil
			}
			return nil, nil, KindNone, style, ErrMissingClosingDelimiter
		}

		end := start + idx + len(nl)
		bodyStart := start + idx + len(closeSeq)
		return content[start:end], content[bodyStart:], k, style, nil
	}

	return nil, content, KindNone, style, nil
}

// Join reassembles a document from raw frontmatter and body.
//
// If kind is KindNone, Join returns body as-is.
func Join(frontmatter []byte, body []byte, kind Kind, style Style) []byte {
	if kind == KindNone {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	delim := []byte(kind.delimiter() + nl)

	out := make([]byte, 0, 2*len(delim)+len(frontmatter)+len(body))
	out = append(out, delim...)
	out = append(out, frontmatter...)
	out = append(out, delim...)
	out = append(out, body...)
	return out
}

// Parse decodes raw frontmatter of the given kind into a map.
func Parse(frontmatter []byte, kind Kind) (map[string]any, error) {
	switch kind {
	case KindYAML:
		return ParseYAML(frontmatter)
	case KindTOML:
		return ParseTOML(frontmatter)
	default:
		return map[string]any{}, nil
	}
}

// ParseYAML parses raw YAML frontmatter (without --- delimiters) into a map.
func ParseYAML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// ParseTOML parses raw TOML frontmatter (without +++ delimiters) into a map.
// TOML local dates and date-times are converted to time.Time in UTC.
func ParseTOML(frontmatter []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := toml.Unmarshal(frontmatter, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return map[string]any{}, nil
	}
	for k, v := range fields {
		fields[k] = fromTOMLValue(v)
	}
	return fields, nil
}

func fromTOMLValue(v any) any {
	switch vv := v.(type) {
	case toml.LocalDate:
		return vv.AsTime(time.UTC)
	case toml.LocalDateTime:
		return vv.AsTime(time.UTC)
	case toml.LocalTime:
		return vv.String()
	case map[string]any:
		for k, item := range vv {
			vv[k] = fromTOMLValue(item)
		}
		return vv
	case []any:
		for i, item := range vv {
			vv[i] = fromTOMLValue(item)
		}
		return vv
	default:
		return v
	}
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i+1 < len(content); i++ {
		if content[i] == '\r' && content[i+1] == '\n' {
			newline = "\r\n"
			break
		}
		if content[i] == '\n' {
			break
		}
	}

	return Style{
		Newline:            newline,
		HasTrailingNewline: len(content) > 0 && content[len(content)-1] == '\n',
	}
}
