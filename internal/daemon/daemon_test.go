package daemon

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/git"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/retry"
	"git.home.luguber.info/inful/blogbuilder/internal/site"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

type fakeSyncer struct {
	mu      sync.Mutex
	results []git.SyncResult
	err     error
	calls   int
}

func (f *fakeSyncer) Sync(context.Context) (git.SyncResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return git.SyncResult{}, f.err
	}
	res := f.results[0]
	if len(f.results) > 1 {
		f.results = f.results[1:]
	}
	return res, nil
}

type fakeBuilder struct {
	builds  atomic.Int32
	outcome site.BuildOutcome
	err     error
}

func (f *fakeBuilder) Build(context.Context) (*site.BuildReport, error) {
	n := f.builds.Add(1)
	r := site.NewBuildReport(fmt.Sprintf("build-%d", n))
	r.RenderedPages = 3
	r.Posts = 2
	r.Published = 2
	r.Changes = state.Changes{Added: []string{"/hello/"}}
	r.Finish()
	r.Outcome = f.outcome
	if r.Outcome == "" {
		r.Outcome = site.OutcomeSuccess
	}
	return r, f.err
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []notify.BuildCompleted
	err    error
	closed bool
}

func (f *fakeNotifier) BuildCompleted(_ context.Context, ev notify.BuildCompleted) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeNotifier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func unchanged(head string) git.SyncResult {
	return git.SyncResult{Branch: "main", Head: head, Previous: head}
}

func TestRunOnce_BuildsOnFirstRunThenOnlyOnChange(t *testing.T) {
	syncer := &fakeSyncer{results: []git.SyncResult{
		unchanged("aaa"),
		unchanged("aaa"),
		{Branch: "main", Head: "bbb", Previous: "aaa"},
	}}
	builder := &fakeBuilder{}
	notifier := &fakeNotifier{}
	d := New(config.Default(), WithSyncer(syncer), WithBuilder(builder), WithNotifier(notifier))

	report, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.EqualValues(t, 1, builder.builds.Load())

	report, err = d.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Nil(t, report)
	assert.EqualValues(t, 1, builder.builds.Load())

	report, err = d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.EqualValues(t, 2, builder.builds.Load())
	assert.Equal(t, "bbb", d.LastHead())

	require.Len(t, notifier.events, 2)
	ev := notifier.events[1]
	assert.Equal(t, "bbb", ev.Commit)
	assert.Equal(t, "success", ev.Outcome)
	assert.Equal(t, 3, ev.Pages)
	assert.Equal(t, []string{"/hello/"}, ev.Added)
}

func TestRunOnce_SyncErrorSkipsBuild(t *testing.T) {
	syncer := &fakeSyncer{err: stderrors.New("network down")}
	builder := &fakeBuilder{}
	d := New(config.Default(), WithSyncer(syncer), WithBuilder(builder), WithNotifier(&fakeNotifier{}))

	_, err := d.RunOnce(t.Context())
	require.Error(t, err)
	assert.EqualValues(t, 0, builder.builds.Load())
}

func TestRunOnce_RetriesTransientSyncFailure(t *testing.T) {
	syncer := &flakySyncer{failures: 2}
	builder := &fakeBuilder{}
	policy := retry.NewPolicy(config.RetryBackoffFixed, time.Millisecond, time.Millisecond, 2)
	d := New(config.Default(), WithSyncer(syncer), WithBuilder(builder),
		WithNotifier(&fakeNotifier{}), WithRetryPolicy(policy))

	report, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, 3, syncer.calls)
	assert.Equal(t, "c1", d.LastHead())
}

type flakySyncer struct {
	failures int
	calls    int
}

func (f *flakySyncer) Sync(context.Context) (git.SyncResult, error) {
	f.calls++
	if f.calls <= f.failures {
		return git.SyncResult{}, errors.GitError("failed to fetch").Build()
	}
	return git.SyncResult{Branch: "main", Head: "c1", Cloned: true}, nil
}

func TestRunOnce_RetriesAfterFailedBuild(t *testing.T) {
	syncer := &fakeSyncer{results: []git.SyncResult{unchanged("aaa")}}
	builder := &fakeBuilder{outcome: site.OutcomeFailed, err: stderrors.New("render failed")}
	notifier := &fakeNotifier{}
	d := New(config.Default(), WithSyncer(syncer), WithBuilder(builder), WithNotifier(notifier))

	_, err := d.RunOnce(t.Context())
	require.Error(t, err)

	builder.err, builder.outcome = nil, site.OutcomeSuccess
	report, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.EqualValues(t, 2, builder.builds.Load())

	require.Len(t, notifier.events, 2)
	assert.Equal(t, "failed", notifier.events[0].Outcome)
}

func TestRunOnce_SkippedBuildIsNotNotified(t *testing.T) {
	builder := &fakeBuilder{outcome: site.OutcomeSkipped}
	notifier := &fakeNotifier{}
	d := New(config.Default(), WithBuilder(builder), WithNotifier(notifier))

	report, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Zero(t, notifier.count())
}

func TestRunOnce_NotifyFailureDoesNotFailBuild(t *testing.T) {
	notifier := &fakeNotifier{err: stderrors.New("nats down")}
	d := New(config.Default(), WithBuilder(&fakeBuilder{}), WithNotifier(notifier))

	_, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, notifier.count())
}

func TestRun_SchedulesImmediatelyAndStops(t *testing.T) {
	cfg := config.Default()
	cfg.Daemon.Interval = "50ms"
	syncer := &fakeSyncer{results: []git.SyncResult{{Branch: "main", Head: "a", Previous: "b"}}}
	builder := &fakeBuilder{}
	notifier := &fakeNotifier{}
	d := New(cfg, WithSyncer(syncer), WithBuilder(builder), WithNotifier(notifier))

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	require.Eventually(t, func() bool { return builder.builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}
	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.True(t, notifier.closed)
}

func TestRunOnce_BuildsSiteWithoutRepository(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Site.SiteURL = "https://blog.example.com"
	cfg.Content.Dirs = []string{filepath.Join(base, "content")}
	cfg.Output.Directory = filepath.Join(base, "public")
	cfg.Build.Workers = 2
	post := filepath.Join(cfg.Content.Dirs[0], "hello", "index.md")
	require.NoError(t, os.MkdirAll(filepath.Dir(post), 0o750))
	require.NoError(t, os.WriteFile(post, []byte("---\ntitle: Hello\ndate: 2024-01-01\npublished: true\n---\nHi.\n"), 0o600))

	notifier := &fakeNotifier{}
	d := New(cfg, WithNotifier(notifier))

	report, err := d.RunOnce(t.Context())
	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, site.OutcomeSuccess, report.Outcome)
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "hello", "index.html"))
	require.Equal(t, 1, notifier.count())
	assert.Equal(t, report.BuildID, notifier.events[0].BuildID)

	report, err = d.RunOnce(t.Context())
	require.NoError(t, err)
	assert.Nil(t, report)
}

func TestCloneContent(t *testing.T) {
	cfg := config.Default()
	cfg.Content.Dirs = []string{"content", "/abs/posts"}
	cfg.Content.Repository = &config.RepositoryConfig{URL: "https://example.com/blog.git", CloneDir: "/var/lib/clone"}

	got := cloneContent(cfg)
	assert.Equal(t, []string{filepath.Join("/var/lib/clone", "content"), "/abs/posts"}, got.Content.Dirs)
	assert.Equal(t, []string{"content", "/abs/posts"}, cfg.Content.Dirs)

	plain := config.Default()
	assert.Same(t, plain, cloneContent(plain))
}
