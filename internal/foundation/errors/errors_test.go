package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "config.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		assert.True(t, IsClassified(err))
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.True(t, HasSeverity(err, SeverityFatal))
		assert.False(t, err.CanRetry())
		assert.True(t, err.IsFatal())
	})

	t.Run("Message includes sorted context and cause", func(t *testing.T) {
		err := ContentError("missing title").
			WithCause(errors.New("frontmatter empty")).
			WithContext("slug", "/hello/").
			WithContext("file", "hello/index.md").
			Build()

		assert.Equal(t,
			"[content:fatal] missing title (file=hello/index.md, slug=/hello/): frontmatter empty",
			err.Error())
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Fluent API", func(t *testing.T) {
		originalErr := errors.New("original error")
		err := WrapError(originalErr, CategoryGit, "fetch failed").
			Warning().
			Retryable().
			WithContext("remote", "origin").
			WithContext("depth", 1).
			Build()

		assert.Equal(t, CategoryGit, err.Category())
		assert.Equal(t, SeverityWarning, err.Severity())
		assert.Equal(t, RetryBackoff, err.RetryStrategy())
		require.ErrorIs(t, err, originalErr)

		remote, _ := err.Context().GetString("remote")
		assert.Equal(t, "origin", remote)
		depth, ok := err.Context().Get("depth")
		require.True(t, ok)
		assert.Equal(t, 1, depth)
	})

	t.Run("Convenience constructors", func(t *testing.T) {
		tests := []struct {
			name     string
			builder  *ErrorBuilder
			category ErrorCategory
			severity ErrorSeverity
			retry    bool
		}{
			{"config", ConfigError("x"), CategoryConfig, SeverityFatal, false},
			{"validation", ValidationError("x"), CategoryValidation, SeverityFatal, false},
			{"content", ContentError("x"), CategoryContent, SeverityFatal, false},
			{"render", RenderError("x"), CategoryRender, SeverityFatal, false},
			{"build", BuildError("x"), CategoryBuild, SeverityFatal, false},
			{"filesystem", FileSystemError("x"), CategoryFileSystem, SeverityError, true},
			{"git", GitError("x"), CategoryGit, SeverityError, true},
			{"notify", NotifyError("x"), CategoryNotify, SeverityWarning, true},
			{"state", StateError("x"), CategoryState, SeverityError, false},
			{"internal", InternalError("x"), CategoryInternal, SeverityFatal, false},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := tt.builder.Build()
				assert.Equal(t, tt.category, err.Category())
				assert.Equal(t, tt.severity, err.Severity())
				assert.Equal(t, tt.retry, err.CanRetry())
			})
		}
	})
}

func TestWithContextDoesNotMutateOriginal(t *testing.T) {
	base := ContentError("bad date").Build()
	extended := base.WithContext("file", "a.md")

	_, ok := base.Context().Get("file")
	assert.False(t, ok)
	file, ok := extended.Context().GetString("file")
	require.True(t, ok)
	assert.Equal(t, "a.md", file)
}

func TestAsClassifiedThroughWrapping(t *testing.T) {
	inner := StateError("open database").Build()
	wrapped := fmt.Errorf("startup: %w", inner)

	classified, ok := AsClassified(wrapped)
	require.True(t, ok)
	assert.Same(t, inner, classified)
	assert.Equal(t, CategoryState, GetCategory(wrapped))
	assert.Equal(t, CategoryInternal, GetCategory(errors.New("plain")))
	assert.Equal(t, SeverityError, GetSeverity(errors.New("plain")))
}

func TestAggregate(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		require.NoError(t, Aggregate(nil))
		require.NoError(t, Aggregate([]error{nil, nil}))
	})

	t.Run("single error is returned directly", func(t *testing.T) {
		only := ContentError("missing title").Build()
		err := Aggregate([]error{nil, only})
		assert.Same(t, only, err)
		_, isAgg := AsAggregate(err)
		assert.False(t, isAgg)
	})

	t.Run("many errors keep order", func(t *testing.T) {
		first := ContentError("missing title").Build()
		second := ContentError("missing date").Build()
		err := Aggregate([]error{first, second})

		agg, ok := AsAggregate(err)
		require.True(t, ok)
		require.Len(t, agg.Errors(), 2)
		assert.Same(t, first, agg.Errors()[0])
		assert.Same(t, second, agg.Errors()[1])
		require.ErrorIs(t, err, second)
		assert.Contains(t, err.Error(), "2 errors occurred")
		assert.Contains(t, err.Error(), "missing date")
		assert.Len(t, Flatten(err), 2)
	})

	t.Run("flatten single", func(t *testing.T) {
		e := errors.New("x")
		assert.Equal(t, []error{e}, Flatten(e))
		assert.Nil(t, Flatten(nil))
	})
}
