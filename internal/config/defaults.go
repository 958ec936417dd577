package config

import (
	"runtime"
	"strings"
)

// Default returns a configuration populated with every default value.
// Load unmarshals user YAML on top of it, so omitted keys keep these values.
func Default() *Config {
	return &Config{
		Site: SiteMetadata{
			Title: "Blog",
		},
		Content: ContentConfig{
			Dirs: []string{"content"},
		},
		Markdown: MarkdownConfig{
			LegacyEngine:       EngineBlackfriday,
			Typographer:        true,
			AutolinkHeadings:   AutolinkWrap,
			ExternalLinks:      true,
			CodeClassPrefix:    "language-",
			IframeWrapperStyle: "margin-bottom: 1.0725rem",
			ExcerptLength:      140,
		},
		Images: ImagesConfig{
			MaxWidth:     700,
			Quality:      85,
			ShowCaptions: true,
			Lazy:         true,
		},
		Feed: FeedConfig{
			Enabled: true,
			Output:  "/rss.xml",
		},
		Manifest: ManifestConfig{
			Enabled:         true,
			StartURL:        "/",
			BackgroundColor: "#001724",
			ThemeColor:      "#001724",
			Display:         "minimal-ui",
			IconSizes:       []int{48, 72, 96, 144, 192, 256, 384, 512},
		},
		Analytics: AnalyticsConfig{
			Anonymize:  true,
			RespectDNT: true,
		},
		Output: OutputConfig{
			Directory: "public",
			Clean:     true,
		},
		Build: BuildConfig{
			InvalidDates:   InvalidDatesError,
			DuplicateSlugs: DuplicateSlugsError,
			ReportFile:     "build-report.json",
		},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Preview: PreviewConfig{
			Addr:       "127.0.0.1:8000",
			DebounceMS: 300,
			Metrics:    true,
		},
		Daemon: DaemonConfig{
			Interval:    "15m",
			SyncRetries: 2,
			SyncBackoff: RetryBackoffLinear,
		},
		Notify: NotifyConfig{
			Subject: "blogbuilder.builds",
		},
	}
}

// applyDefaults fills values that YAML may have zeroed or that depend on other fields.
func applyDefaults(cfg *Config) {
	if cfg.Build.Workers <= 0 {
		cfg.Build.Workers = runtime.NumCPU()
	}
	if len(cfg.Content.Dirs) == 0 {
		cfg.Content.Dirs = []string{"content"}
	}
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = "public"
	}
	if cfg.Feed.Output == "" {
		cfg.Feed.Output = "/rss.xml"
	}
	if cfg.Feed.Title == "" {
		cfg.Feed.Title = cfg.Site.Title + " RSS Feed"
	}
	if cfg.Manifest.Name == "" {
		cfg.Manifest.Name = cfg.Site.Title
	}
	if cfg.Manifest.ShortName == "" {
		cfg.Manifest.ShortName = cfg.Manifest.Name
	}
	if cfg.Manifest.StartURL == "" {
		cfg.Manifest.StartURL = "/"
	}
	if cfg.Images.MaxWidth <= 0 {
		cfg.Images.MaxWidth = 700
	}
	if cfg.Images.Quality <= 0 || cfg.Images.Quality > 100 {
		cfg.Images.Quality = 85
	}
	if cfg.Markdown.ExcerptLength <= 0 {
		cfg.Markdown.ExcerptLength = 140
	}
	if cfg.Preview.DebounceMS <= 0 {
		cfg.Preview.DebounceMS = 300
	}
	if cfg.Daemon.Interval == "" {
		cfg.Daemon.Interval = "15m"
	}
	if cfg.Notify.Subject == "" {
		cfg.Notify.Subject = "blogbuilder.builds"
	}
	if repo := cfg.Content.Repository; repo != nil {
		if repo.Branch == "" {
			repo.Branch = "main"
		}
		if repo.CloneDir == "" {
			repo.CloneDir = ".blogbuilder/repo"
		}
		if repo.Depth < 0 {
			repo.Depth = 0
		}
	}
	cfg.Site.PathPrefix = normalizePathPrefix(cfg.Site.PathPrefix)
	cfg.Site.SiteURL = strings.TrimRight(cfg.Site.SiteURL, "/")
	cfg.Site.GithubURL = strings.TrimRight(cfg.Site.GithubURL, "/")
}

// normalizePathPrefix yields "" or "/prefix" without a trailing slash, so that
// prefix + slug always forms a valid absolute path.
func normalizePathPrefix(p string) string {
	p = strings.Trim(strings.TrimSpace(p), "/")
	if p == "" {
		return ""
	}
	return "/" + p
}
