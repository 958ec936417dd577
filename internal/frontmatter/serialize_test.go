package frontmatter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerializeYAML_EmptyMap_ReturnsEmpty(t *testing.T) {
	out, err := SerializeYAML(map[string]any{}, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "", string(out))
}

func TestSerializeYAML_DeterministicOrderAndTrailingNewline(t *testing.T) {
	fields := map[string]any{
		"b": "two",
		"a": "one",
		"c": 3,
	}

	out1, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	out2, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	// Must be stable across runs.
	require.Equal(t, string(out1), string(out2))

	// Deterministic key ordering and trailing newline.
	require.Equal(t, "a: one\nb: two\nc: 3\n", string(out1))
}

func TestSerializeYAML_NewlineStyle_CRLF(t *testing.T) {
	fields := map[string]any{"a": "one"}
	out, err := SerializeYAML(fields, Style{Newline: "\r\n"})
	require.NoError(t, err)
	require.Equal(t, "a: one\r\n", string(out))
}

func TestSerializeYAML_NestedMap_SortsKeysRecursively(t *testing.T) {
	fields := map[string]any{
		"outer": map[string]any{
			"b": 2,
			"a": 1,
		},
	}

	out, err := SerializeYAML(fields, Style{Newline: "\n"})
	require.NoError(t, err)
	require.Equal(t, "outer:\n  a: 1\n  b: 2\n", string(out))
}

func TestSerializeYAML_DatesAsCalendarDates(t *testing.T) {
	fields := map[string]any{
		"date":  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		"title": "Hello",
	}
	out, err := SerializeYAML(fields, Style{})
	require.NoError(t, err)
	require.Equal(t, "date: 2026-10-19\ntitle: Hello\n", string(out))
}

func TestSerializeTOML_RoundTrip(t *testing.T) {
	fields := map[string]any{
		"title":      "Hello",
		"published":  false,
		"categories": []string{"go"},
	}
	out, err := Serialize(fields, KindTOML, Style{Newline: "\n"})
	require.NoError(t, err)

	parsed, err := ParseTOML(out)
	require.NoError(t, err)
	require.Equal(t, "Hello", parsed["title"])
	require.Equal(t, false, parsed["published"])
	require.Equal(t, []any{"go"}, parsed["categories"])
}

func TestSerializeYAML_LeadingKeys(t *testing.T) {
	fields := map[string]any{"b": 1, "title": "T", "a": 2, "date": "x"}
	out, err := SerializeYAML(fields, Style{LeadingKeys: []string{"title", "missing", "date"}})
	require.NoError(t, err)
	require.Equal(t, "title: T\ndate: x\na: 2\nb: 1\n", string(out))
}
