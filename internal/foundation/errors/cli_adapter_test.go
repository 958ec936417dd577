package errors

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("invalid input").Build(), expected: 2},
		{name: "content", err: ContentError("missing title").Build(), expected: 4},
		{name: "config", err: ConfigError("bad config").Build(), expected: 7},
		{name: "git", err: GitError("clone failed").Build(), expected: 8},
		{name: "build", err: BuildError("build failed").Build(), expected: 11},
		{name: "render", err: RenderError("template").Build(), expected: 11},
		{name: "internal", err: InternalError("oops").Build(), expected: 10},
		{name: "unclassified error", err: errors.New("unknown error"), expected: 1},
		{
			name: "aggregate uses first member",
			err: Aggregate([]error{
				ContentError("missing title").Build(),
				ConfigError("bad").Build(),
			}),
			expected: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	quiet := NewCLIErrorAdapter(false, slog.Default())
	verbose := NewCLIErrorAdapter(true, slog.Default())

	content := ContentError("missing title").WithContext("file", "a.md").Build()
	assert.Equal(t, "Error: missing title", quiet.FormatError(content))
	assert.Equal(t, content.Error(), verbose.FormatError(content))

	internal := InternalError("nil pointer").Build()
	assert.Contains(t, quiet.FormatError(internal), "use -v")

	assert.Equal(t, "Error: boom", quiet.FormatError(errors.New("boom")))
	assert.Empty(t, quiet.FormatError(nil))

	agg := Aggregate([]error{errors.New("a"), errors.New("b")})
	assert.Contains(t, quiet.FormatError(agg), "2 errors occurred")
}

func TestCLIErrorAdapter_Report(t *testing.T) {
	var logs, out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	adapter := NewCLIErrorAdapter(false, logger)
	adapter.out = &out

	code := adapter.Report(ConfigError("missing content dir").Build())

	assert.Equal(t, 7, code)
	assert.Contains(t, out.String(), "missing content dir")
	assert.Contains(t, logs.String(), "category=config")
	assert.Equal(t, 0, adapter.Report(nil))
}
