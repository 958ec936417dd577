// Package commands implements the blogbuilder command line.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// logLevelEnv overrides logging.level when set.
const logLevelEnv = "BLOGBUILDER_LOG_LEVEL"

// Global carries values shared by every command.
type Global struct {
	Out io.Writer
}

func (g *Global) out() io.Writer {
	if g == nil || g.Out == nil {
		return os.Stdout
	}
	return g.Out
}

// CLI is the root command and its global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"blogbuilder.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Build the site"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
	New     NewCmd     `cmd:"" help:"Create a new unpublished post"`
	Posts   PostsCmd   `cmd:"" help:"List posts in listing order"`
	History HistoryCmd `cmd:"" help:"Show recent builds from the state database"`
	Lint    LintCmd    `cmd:"" help:"Check posts for problems without building"`
	Preview PreviewCmd `cmd:"" help:"Serve the site locally and rebuild on change"`
	Daemon  DaemonCmd  `cmd:"" help:"Sync the content repository and rebuild on an interval"`
}

// AfterApply sets up logging before the configuration is read.
func (c *CLI) AfterApply() error {
	configureLogging(c.Verbose, config.LoggingConfig{Format: config.LogFormatText})
	return nil
}

// loadConfig reads the configuration and applies its logging section.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	configureLogging(c.Verbose, cfg.Logging)
	return cfg, nil
}

// configureLogging installs the default logger. -v wins over the environment,
// which wins over the configuration file.
func configureLogging(verbose bool, lc config.LoggingConfig) {
	slog.SetDefault(newLogger(os.Stderr, resolveLevel(verbose, os.Getenv(logLevelEnv), lc.Level), lc.Format))
}

func resolveLevel(verbose bool, env string, configured config.LogLevel) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	lvl := configured
	if env != "" {
		lvl = config.NormalizeLogLevel(env)
	}
	switch lvl {
	case config.LogLevelDebug:
		return slog.LevelDebug
	case config.LogLevelWarn:
		return slog.LevelWarn
	case config.LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(w io.Writer, level slog.Level, format config.LogFormat) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openStore opens the state database, or returns nil when state tracking is off.
func openStore(cfg *config.Config) (*state.Store, error) {
	if cfg.State.Path == "" {
		return nil, nil
	}
	return state.Open(cfg.State.Path)
}

func closeStore(s *state.Store) {
	if s != nil {
		_ = s.Close()
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
