package config

import "fmt"

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated fields before defaults are applied.
// Unknown values are replaced with the field default and reported as warnings.
func NormalizeConfig(c *Config) *NormalizationResult {
	res := &NormalizationResult{}
	if c == nil {
		return res
	}

	if v := NormalizeInvalidDatePolicy(string(c.Build.InvalidDates)); v != "" {
		c.Build.InvalidDates = v
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("build.invalid_dates", string(c.Build.InvalidDates), string(InvalidDatesError)))
		c.Build.InvalidDates = InvalidDatesError
	}

	if v := NormalizeDuplicateSlugPolicy(string(c.Build.DuplicateSlugs)); v != "" {
		c.Build.DuplicateSlugs = v
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("build.duplicate_slugs", string(c.Build.DuplicateSlugs), string(DuplicateSlugsError)))
		c.Build.DuplicateSlugs = DuplicateSlugsError
	}

	if v := NormalizeMarkdownEngine(string(c.Markdown.LegacyEngine)); v != "" {
		c.Markdown.LegacyEngine = v
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("markdown.legacy_engine", string(c.Markdown.LegacyEngine), string(EngineBlackfriday)))
		c.Markdown.LegacyEngine = EngineBlackfriday
	}

	if v := NormalizeAutolinkBehavior(string(c.Markdown.AutolinkHeadings)); v != "" {
		c.Markdown.AutolinkHeadings = v
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("markdown.autolink_headings", string(c.Markdown.AutolinkHeadings), string(AutolinkWrap)))
		c.Markdown.AutolinkHeadings = AutolinkWrap
	}

	if v := NormalizeRetryBackoffMode(string(c.Daemon.SyncBackoff)); v != "" {
		c.Daemon.SyncBackoff = v
	} else {
		res.Warnings = append(res.Warnings, warnUnknown("daemon.sync_backoff", string(c.Daemon.SyncBackoff), string(RetryBackoffLinear)))
		c.Daemon.SyncBackoff = RetryBackoffLinear
	}

	if _, err := logLevelNormalizer.Parse(string(c.Logging.Level)); err != nil {
		res.Warnings = append(res.Warnings, warnUnknown("logging.level", string(c.Logging.Level), string(LogLevelInfo)))
	}
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))

	if _, err := logFormatNormalizer.Parse(string(c.Logging.Format)); err != nil {
		res.Warnings = append(res.Warnings, warnUnknown("logging.format", string(c.Logging.Format), string(LogFormatText)))
	}
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))

	return res
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
