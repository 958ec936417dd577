package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// ValidateConfig checks cross-field constraints after defaults have been applied.
func ValidateConfig(cfg *Config) error {
	v := &configurationValidator{config: cfg}
	for _, check := range []func() error{
		v.validateSite,
		v.validateContent,
		v.validateOutput,
		v.validateDaemon,
		v.validateManifest,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

type configurationValidator struct {
	config *Config
}

func (cv *configurationValidator) validateSite() error {
	site := cv.config.Site
	if strings.TrimSpace(site.Title) == "" {
		return errors.ValidationError("site.title cannot be empty").Build()
	}
	if site.SiteURL != "" {
		u, err := url.Parse(site.SiteURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.ValidationError("site.site_url must be an absolute URL").
				WithContext("value", site.SiteURL).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateContent() error {
	for i, dir := range cv.config.Content.Dirs {
		if strings.TrimSpace(dir) == "" {
			return errors.ValidationError(fmt.Sprintf("content.dirs[%d] cannot be empty", i)).Build()
		}
	}
	if repo := cv.config.Content.Repository; repo != nil && repo.URL == "" {
		return errors.ValidationError("content.repository.url is required when a repository is configured").Build()
	}
	return nil
}

func (cv *configurationValidator) validateOutput() error {
	out := strings.TrimSpace(cv.config.Output.Directory)
	if out == "/" || out == "." {
		return errors.ValidationError("output.directory must not be the filesystem root or the working directory").
			WithContext("value", out).Build()
	}
	for _, dir := range cv.config.Content.Dirs {
		if strings.TrimRight(dir, "/") == strings.TrimRight(out, "/") {
			return errors.ValidationError("output.directory must differ from every content directory").
				WithContext("value", out).Build()
		}
	}
	return nil
}

func (cv *configurationValidator) validateDaemon() error {
	d, err := time.ParseDuration(cv.config.Daemon.Interval)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "daemon.interval is not a valid duration").
			WithContext("value", cv.config.Daemon.Interval).Build()
	}
	if d < time.Second {
		return errors.ValidationError("daemon.interval must be at least 1s").
			WithContext("value", cv.config.Daemon.Interval).Build()
	}
	if cv.config.Daemon.SyncRetries < 0 {
		return errors.ValidationError("daemon.sync_retries cannot be negative").
			WithContext("value", cv.config.Daemon.SyncRetries).Build()
	}
	return nil
}

func (cv *configurationValidator) validateManifest() error {
	for _, size := range cv.config.Manifest.IconSizes {
		if size <= 0 || size > 4096 {
			return errors.ValidationError("manifest.icon_sizes entries must be between 1 and 4096").
				WithContext("value", size).Build()
		}
	}
	return nil
}

// DaemonInterval returns the parsed daemon interval. ValidateConfig guarantees it parses.
func (c *Config) DaemonInterval() time.Duration {
	d, err := time.ParseDuration(c.Daemon.Interval)
	if err != nil {
		return 15 * time.Minute
	}
	return d
}
