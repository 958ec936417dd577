// Package errors provides foundational, type-safe error primitives used across blogbuilder.
//
// It contains classified error types and helpers for error handling during a site build,
// including a fluent builder API for constructing ClassifiedError values with context and
// an Aggregate helper for reporting every validation problem of a build at once.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, content, render, filesystem, ...)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - RetryStrategy: Retry behavior (never, immediate, backoff, user)
//   - ClassifiedError: Structured error with category, severity, and context
//   - ErrorBuilder: Fluent API for creating classified errors
//   - AggregateError: Many errors reported together
//   - CLIErrorAdapter: exit codes and user-facing formatting
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryContent, "missing title").
//		WithContext("file", doc.RelativePath).
//		Fatal().
//		Build()
package errors
