// Package daemon keeps a blog in sync with its content repository, rebuilding
// the site on a fixed interval when new commits arrive.
package daemon

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/git"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

const jobName = "content-sync"

// Syncer brings the local content clone up to date.
type Syncer interface {
	Sync(ctx context.Context) (git.SyncResult, error)
}

// Builder builds the site.
type Builder interface {
	Build(ctx context.Context) (*site.BuildReport, error)
}

// Daemon runs the sync, build and notify cycle.
type Daemon struct {
	cfg      *config.Config
	syncer   Syncer
	builder  Builder
	notifier notify.Notifier
	recorder metrics.Recorder
	registry *prom.Registry
	store    *state.Store
	retry    *retry.Policy

	mu         sync.Mutex
	needsBuild bool
	lastHead   string
}

// Option customizes a Daemon.
type Option func(*Daemon)

// WithSyncer replaces the git client.
func WithSyncer(s Syncer) Option { return func(d *Daemon) { d.syncer = s } }

// WithBuilder replaces the site generator.
func WithBuilder(b Builder) Option { return func(d *Daemon) { d.builder = b } }

// WithNotifier replaces the notifier built from the notify configuration.
func WithNotifier(n notify.Notifier) Option { return func(d *Daemon) { d.notifier = n } }

// WithRetryPolicy replaces the sync retry policy built from the daemon configuration.
func WithRetryPolicy(p retry.Policy) Option { return func(d *Daemon) { d.retry = &p } }

// WithStateStore lets the generator skip builds whose content did not change.
func WithStateStore(s *state.Store) Option { return func(d *Daemon) { d.store = s } }

// New wires a daemon from cfg. Relative content directories are resolved inside
// the repository clone when a content repository is configured.
func New(cfg *config.Config, opts ...Option) *Daemon {
	d := &Daemon{cfg: cloneContent(cfg), needsBuild: true}
	for _, opt := range opts {
		opt(d)
	}

	if d.retry == nil {
		p := retry.NewPolicy(cfg.Daemon.SyncBackoff, time.Second, 30*time.Second, cfg.Daemon.SyncRetries)
		d.retry = &p
	}

	d.registry = prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(d.registry)
	d.recorder = rec

	if d.syncer == nil && cfg.Content.Repository != nil {
		d.syncer = git.NewClient(*cfg.Content.Repository)
	}
	if d.builder == nil {
		gen := site.NewGenerator(d.cfg).WithRecorder(rec)
		if d.store != nil {
			gen = gen.WithStateStore(d.store).WithSkipUnchanged(true)
		}
		d.builder = gen
	}
	if d.notifier == nil {
		n, err := notify.New(cfg.Notify)
		if err != nil {
			slog.Warn("Build notifications disabled", logfields.Error(err))
			n = notify.Noop{}
		}
		d.notifier = n
	}
	return d
}

// cloneContent returns cfg with relative content directories moved below the clone directory.
func cloneContent(cfg *config.Config) *config.Config {
	repo := cfg.Content.Repository
	if repo == nil {
		return cfg
	}
	c := *cfg
	c.Content.Dirs = make([]string, len(cfg.Content.Dirs))
	for i, dir := range cfg.Content.Dirs {
		if filepath.IsAbs(dir) {
			c.Content.Dirs[i] = dir
			continue
		}
		c.Content.Dirs[i] = filepath.Join(repo.CloneDir, dir)
	}
	return &c
}

// RunOnce syncs the content repository and rebuilds the site when HEAD moved,
// on the first run, or after a failed build. It returns a nil report when the
// build was not needed.
func (d *Daemon) RunOnce(ctx context.Context) (*site.BuildReport, error) {
	var head string
	changed := false
	if d.syncer != nil {
		var res git.SyncResult
		err := d.retry.Do(ctx, jobName, func(ctx context.Context) error {
			start := time.Now()
			var serr error
			res, serr = d.syncer.Sync(ctx)
			d.recorder.ObserveSyncDuration(time.Since(start), serr == nil)
			return serr
		})
		if err != nil {
			return nil, err
		}
		head = res.Head
		changed = res.Changed()
		if changed {
			slog.Info("Content repository updated",
				logfields.Branch(res.Branch), slog.String("head", head), slog.Bool("cloned", res.Cloned))
		}
	}

	d.mu.Lock()
	needed := d.needsBuild || changed
	d.mu.Unlock()
	if !needed {
		slog.Debug("Content unchanged; build not needed", slog.String("head", head))
		return nil, nil
	}

	report, err := d.builder.Build(ctx)

	d.mu.Lock()
	d.needsBuild = err != nil
	d.lastHead = head
	d.mu.Unlock()

	if report != nil && report.Outcome != site.OutcomeSkipped {
		d.notify(ctx, report, head)
	}
	return report, err
}

// LastHead returns the commit the most recent build ran against.
func (d *Daemon) LastHead() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastHead
}

func (d *Daemon) notify(ctx context.Context, r *site.BuildReport, head string) {
	ev := notify.BuildCompleted{
		BuildID:    r.BuildID,
		Outcome:    string(r.Outcome),
		Pages:      r.RenderedPages,
		Posts:      r.Posts,
		Published:  r.Published,
		Commit:     head,
		DurationMS: r.End.Sub(r.Start).Milliseconds(),
		Added:      r.Changes.Added,
		Changed:    r.Changes.Changed,
		Removed:    r.Changes.Removed,
		Timestamp:  r.End.UTC(),
	}
	err := d.notifier.BuildCompleted(ctx, ev)
	d.recorder.IncNotifyResult(err == nil)
	if err != nil {
		slog.Warn("Failed to publish build notification", logfields.BuildID(r.BuildID), logfields.Error(err))
	}
}

// Run schedules RunOnce every daemon.interval, starting immediately, and blocks
// until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	s, err := gocron.NewScheduler()
	if err != nil {
		return errors.InternalError("failed to create scheduler").WithCause(err).Build()
	}

	interval := d.cfg.DaemonInterval()
	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { d.runJob(ctx) }),
		gocron.WithName(jobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return errors.InternalError("failed to schedule content sync").WithCause(err).Build()
	}

	srv := d.startMetricsServer()

	slog.Info("Daemon started", logfields.JobName(jobName), slog.Duration("interval", interval))
	s.Start()
	<-ctx.Done()

	slog.Info("Stopping daemon")
	if err := s.Shutdown(); err != nil {
		slog.Warn("Scheduler shutdown error", logfields.Error(err))
	}
	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}
	d.notifier.Close()
	return nil
}

func (d *Daemon) runJob(ctx context.Context) {
	report, err := d.RunOnce(ctx)
	switch {
	case err != nil && stderrors.Is(err, context.Canceled):
	case err != nil:
		slog.Error("Scheduled run failed", logfields.JobName(jobName), logfields.Error(err))
	case report != nil:
		slog.Info("Scheduled build finished", logfields.JobName(jobName), logfields.BuildID(report.BuildID),
			slog.String("outcome", string(report.Outcome)))
	}
}

func (d *Daemon) startMetricsServer() *http.Server {
	addr := d.cfg.Daemon.MetricsAddr
	if addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	metrics.Mount(mux, d.registry)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server failed", logfields.Addr(addr), logfields.Error(err))
		}
	}()
	slog.Info("Metrics server listening", logfields.Addr(addr))
	return srv
}
