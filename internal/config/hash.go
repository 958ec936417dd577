package config

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Hash fingerprints the settings that influence rendered output.
// Logging, preview, daemon, notify and state settings are excluded.
func (c *Config) Hash() string {
	build := c.Build
	build.Workers = 0

	snapshot := struct {
		Site      SiteMetadata    `yaml:"site"`
		Content   ContentConfig   `yaml:"content"`
		Markdown  MarkdownConfig  `yaml:"markdown"`
		Images    ImagesConfig    `yaml:"images"`
		Feed      FeedConfig      `yaml:"feed"`
		Manifest  ManifestConfig  `yaml:"manifest"`
		Analytics AnalyticsConfig `yaml:"analytics"`
		Output    OutputConfig    `yaml:"output"`
		Build     BuildConfig     `yaml:"build"`
	}{c.Site, c.Content, c.Markdown, c.Images, c.Feed, c.Manifest, c.Analytics, c.Output, build}

	data, err := yaml.Marshal(snapshot)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
