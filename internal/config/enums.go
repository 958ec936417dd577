package config

import (
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/normalization"
)

// InvalidDatePolicy decides what happens to posts whose date is missing or unparseable.
type InvalidDatePolicy string

const (
	// InvalidDatesError aggregates the post into the build's fatal errors.
	InvalidDatesError InvalidDatePolicy = "error"
	// InvalidDatesWarn logs the post and sorts it as the oldest.
	InvalidDatesWarn InvalidDatePolicy = "warn"
)

var invalidDateNormalizer = normalization.NewNormalizer(map[string]InvalidDatePolicy{
	"error": InvalidDatesError,
	"warn":  InvalidDatesWarn,
}, InvalidDatesError)

// NormalizeInvalidDatePolicy returns the canonical policy or "" when raw is unknown.
func NormalizeInvalidDatePolicy(raw string) InvalidDatePolicy {
	v, err := invalidDateNormalizer.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

// DuplicateSlugPolicy decides what happens when two posts derive the same slug.
type DuplicateSlugPolicy string

const (
	DuplicateSlugsError DuplicateSlugPolicy = "error"
	DuplicateSlugsFirst DuplicateSlugPolicy = "first" // keep the earliest discovered post
	DuplicateSlugsLast  DuplicateSlugPolicy = "last"  // keep the latest discovered post
)

var duplicateSlugNormalizer = normalization.NewNormalizer(map[string]DuplicateSlugPolicy{
	"error": DuplicateSlugsError,
	"first": DuplicateSlugsFirst,
	"last":  DuplicateSlugsLast,
}, DuplicateSlugsError)

func NormalizeDuplicateSlugPolicy(raw string) DuplicateSlugPolicy {
	v, err := duplicateSlugNormalizer.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

// MarkdownEngine names the renderer used for legacy .md posts.
type MarkdownEngine string

const (
	EngineBlackfriday MarkdownEngine = "blackfriday"
	EngineGoldmark    MarkdownEngine = "goldmark"
)

var engineNormalizer = normalization.NewNormalizer(map[string]MarkdownEngine{
	"blackfriday": EngineBlackfriday,
	"goldmark":    EngineGoldmark,
}, EngineBlackfriday)

func NormalizeMarkdownEngine(raw string) MarkdownEngine {
	v, err := engineNormalizer.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

// AutolinkBehavior controls how headings get self links.
type AutolinkBehavior string

const (
	AutolinkWrap    AutolinkBehavior = "wrap"    // heading text becomes the anchor
	AutolinkPrepend AutolinkBehavior = "prepend" // an empty anchor precedes the text
	AutolinkNone    AutolinkBehavior = "none"
)

var autolinkNormalizer = normalization.NewNormalizer(map[string]AutolinkBehavior{
	"wrap":    AutolinkWrap,
	"prepend": AutolinkPrepend,
	"none":    AutolinkNone,
}, AutolinkWrap)

func NormalizeAutolinkBehavior(raw string) AutolinkBehavior {
	v, err := autolinkNormalizer.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

// RetryBackoffMode selects how the delay grows between retries.
type RetryBackoffMode string

const (
	RetryBackoffFixed       RetryBackoffMode = "fixed"
	RetryBackoffLinear      RetryBackoffMode = "linear"
	RetryBackoffExponential RetryBackoffMode = "exponential"
)

var retryBackoffNormalizer = normalization.NewNormalizer(map[string]RetryBackoffMode{
	"fixed":       RetryBackoffFixed,
	"linear":      RetryBackoffLinear,
	"exponential": RetryBackoffExponential,
}, RetryBackoffLinear)

func NormalizeRetryBackoffMode(raw string) RetryBackoffMode {
	v, err := retryBackoffNormalizer.Parse(raw)
	if err != nil {
		return ""
	}
	return v
}

// LogLevel enumerates supported logging levels.
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

var logLevelNormalizer = normalization.NewNormalizer(map[string]LogLevel{
	"debug":   LogLevelDebug,
	"info":    LogLevelInfo,
	"warn":    LogLevelWarn,
	"warning": LogLevelWarn,
	"error":   LogLevelError,
}, LogLevelInfo)

// NormalizeLogLevel falls back to info for unknown input.
func NormalizeLogLevel(raw string) LogLevel {
	return logLevelNormalizer.Normalize(raw)
}

// LogFormat enumerates supported log output formats.
type LogFormat string

const (
	LogFormatJSON LogFormat = "json"
	LogFormatText LogFormat = "text"
)

var logFormatNormalizer = normalization.NewNormalizer(map[string]LogFormat{
	"json": LogFormatJSON,
	"text": LogFormatText,
}, LogFormatText)

func NormalizeLogFormat(raw string) LogFormat {
	return logFormatNormalizer.Normalize(raw)
}
