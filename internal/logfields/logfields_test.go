package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"BuildID", KeyBuildID, "b1", BuildID("b1")},
		{"Stage", KeyStage, "collate", Stage("collate")},
		{"Slug", KeySlug, "/hello/", Slug("/hello/")},
		{"File", KeyFile, "hello/index.md", File("hello/index.md")},
		{"Path", KeyPath, "/tmp/x", Path("/tmp/x")},
		{"Format", KeyFormat, "mdx", Format("mdx")},
		{"Repository", KeyRepo, "writing", Repository("writing")},
		{"Branch", KeyBranch, "main", Branch("main")},
		{"Subject", KeySubject, "blog.builds", Subject("blog.builds")},
		{"Addr", KeyAddr, ":8080", Addr(":8080")},
		{"JobName", KeyJobName, "rebuild", JobName("rebuild")},
	}

	for _, tc := range cases {
		// Key drift would break log ingestion schemas.
		assert.Equal(t, tc.attrKey, tc.attr.Key, tc.name)
		assert.Equal(t, tc.attrVal, tc.attr.Value.String(), tc.name)
	}
}

func TestNumericAndErrorHelpers(t *testing.T) {
	assert.Equal(t, int64(3), Count(3).Value.Int64())
	assert.InDelta(t, 12.5, DurationMS(12.5).Value.Float64(), 0.0001)
	assert.Equal(t, "boom", Error(errors.New("boom")).Value.String())
	assert.Empty(t, Error(nil).Value.String())
}
