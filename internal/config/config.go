package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// Config is the blogbuilder configuration file.
type Config struct {
	Site      SiteMetadata    `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Markdown  MarkdownConfig  `yaml:"markdown"`
	Images    ImagesConfig    `yaml:"images"`
	Feed      FeedConfig      `yaml:"feed"`
	Manifest  ManifestConfig  `yaml:"manifest"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Output    OutputConfig    `yaml:"output"`
	Build     BuildConfig     `yaml:"build"`
	Logging   LoggingConfig   `yaml:"logging"`
	Preview   PreviewConfig   `yaml:"preview"`
	Daemon    DaemonConfig    `yaml:"daemon"`
	Notify    NotifyConfig    `yaml:"notify"`
	State     StateConfig     `yaml:"state"`
}

// SiteMetadata is the global site metadata every page can read.
// It is loaded once and passed explicitly to the generator.
type SiteMetadata struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Author      string `yaml:"author,omitempty"`
	ShortBio    string `yaml:"short_bio,omitempty"`
	Bio         string `yaml:"bio,omitempty"`
	SiteURL     string `yaml:"site_url"`
	GithubURL   string `yaml:"github_url,omitempty"` // Repository holding the content, used for edit links
	PathPrefix  string `yaml:"path_prefix,omitempty"`
	Avatar      string `yaml:"avatar,omitempty"`      // Image resized to the bio avatar
	LayoutsDir  string `yaml:"layouts_dir,omitempty"` // Templates here override the embedded ones
	Social      Social `yaml:"social,omitempty"`
}

// Social holds account handles rendered in the bio.
type Social struct {
	Twitter  string `yaml:"twitter,omitempty"`
	Medium   string `yaml:"medium,omitempty"`
	Github   string `yaml:"github,omitempty"`
	Linkedin string `yaml:"linkedin,omitempty"`
}

// ContentConfig locates source posts.
type ContentConfig struct {
	Dirs       []string          `yaml:"dirs"`
	Ignore     []string          `yaml:"ignore,omitempty"` // doublestar patterns relative to each dir
	Repository *RepositoryConfig `yaml:"repository,omitempty"`
}

// RepositoryConfig describes a git repository the daemon keeps content in sync with.
type RepositoryConfig struct {
	URL      string `yaml:"url"`
	Branch   string `yaml:"branch,omitempty"`
	CloneDir string `yaml:"clone_dir,omitempty"`
	Depth    int    `yaml:"depth,omitempty"`
	Username string `yaml:"username,omitempty"`
	Token    string `yaml:"token,omitempty"`
}

// MarkdownConfig carries renderer options.
type MarkdownConfig struct {
	LegacyEngine       MarkdownEngine   `yaml:"legacy_engine"` // renderer for .md posts
	Typographer        bool             `yaml:"typographer"`
	AutolinkHeadings   AutolinkBehavior `yaml:"autolink_headings"`
	ExternalLinks      bool             `yaml:"external_links"` // open in a new tab with nofollow
	CodeClassPrefix    string           `yaml:"code_class_prefix"`
	IframeWrapperStyle string           `yaml:"iframe_wrapper_style"`
	ExcerptLength      int              `yaml:"excerpt_length"`
}

// ImagesConfig controls image optimization.
type ImagesConfig struct {
	MaxWidth     int  `yaml:"max_width"`
	Quality      int  `yaml:"quality"` // JPEG quality
	ShowCaptions bool `yaml:"show_captions"`
	Lazy         bool `yaml:"lazy"`
}

// FeedConfig controls the RSS feed.
type FeedConfig struct {
	Enabled bool   `yaml:"enabled"`
	Output  string `yaml:"output"`
	Title   string `yaml:"title"`
	Limit   int    `yaml:"limit,omitempty"` // 0 lists every published post
}

// ManifestConfig controls the web app manifest and its icons.
type ManifestConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Name            string `yaml:"name"`
	ShortName       string `yaml:"short_name"`
	StartURL        string `yaml:"start_url"`
	BackgroundColor string `yaml:"background_color"`
	ThemeColor      string `yaml:"theme_color"`
	Display         string `yaml:"display"`
	Icon            string `yaml:"icon,omitempty"`
	IconSizes       []int  `yaml:"icon_sizes,omitempty"`
}

// AnalyticsConfig enables the Google Analytics snippet.
type AnalyticsConfig struct {
	TrackingID string `yaml:"tracking_id,omitempty"`
	Anonymize  bool   `yaml:"anonymize"`
	RespectDNT bool   `yaml:"respect_dnt"`
}

// OutputConfig represents output configuration.
type OutputConfig struct {
	Directory string `yaml:"directory"`
	Clean     bool   `yaml:"clean"` // Clean output directory before build
}

// BuildConfig tunes the build pipeline.
type BuildConfig struct {
	Workers        int                 `yaml:"workers"`
	InvalidDates   InvalidDatePolicy   `yaml:"invalid_dates"`
	DuplicateSlugs DuplicateSlugPolicy `yaml:"duplicate_slugs"`
	ListDrafts     bool                `yaml:"list_drafts"` // show unpublished posts in listings (preview only)
	ReportFile     string              `yaml:"report_file"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// PreviewConfig configures the local preview server.
type PreviewConfig struct {
	Addr       string `yaml:"addr"`
	DebounceMS int    `yaml:"debounce_ms"`
	Metrics    bool   `yaml:"metrics"`
}

// DaemonConfig configures scheduled sync-and-rebuild.
type DaemonConfig struct {
	Interval    string           `yaml:"interval"` // Go duration, e.g. "15m"
	MetricsAddr string           `yaml:"metrics_addr,omitempty"`
	SyncRetries int              `yaml:"sync_retries"` // extra attempts after a retryable sync failure
	SyncBackoff RetryBackoffMode `yaml:"sync_backoff"`
}

// NotifyConfig configures build notifications.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject"`
}

// StateConfig locates the build state database.
type StateConfig struct {
	Path string `yaml:"path"` // empty disables state tracking
}

// Load reads, expands, normalizes and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, errors.ConfigError("configuration file not found").
			WithContext("path", configPath).Build()
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read config file").
			WithContext("path", configPath).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse builds a Config from YAML content. Environment variables are expanded first.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}

	res := NormalizeConfig(cfg)
	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "config normalization: %s\n", w)
	}

	applyDefaults(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).Build()
	}

	example := Default()
	example.Site = SiteMetadata{
		Title:       "My Blog",
		Description: "Notes on software and other things",
		Author:      "Your Name",
		ShortBio:    "who writes about software",
		SiteURL:     "https://blog.example.com",
		GithubURL:   "https://github.com/example/writing",
		Avatar:      "content/assets/profile-pic.png",
		Social:      Social{Twitter: "example", Github: "example"},
	}
	example.Feed.Title = "My Blog RSS Feed"
	example.Manifest.Name = "My Blog"
	example.Manifest.ShortName = "Blog"
	example.Manifest.Icon = "content/assets/icon.png"
	example.State.Path = ".blogbuilder/state.db"

	data, err := yaml.Marshal(example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal config").Build()
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).Build()
	}

	return nil
}
