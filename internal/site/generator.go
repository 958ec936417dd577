package site

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/images"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/post"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// Generator builds the static site described by a configuration.
type Generator struct {
	cfg           *config.Config
	recorder      metrics.Recorder
	store         *state.Store
	observers     []BuildObserver
	drafts        bool
	skipUnchanged bool
	legacy        markdown.Renderer
	mdx           markdown.Renderer
}

// NewGenerator creates a generator for cfg with metrics disabled and no state store.
func NewGenerator(cfg *config.Config) *Generator {
	opts := markdown.OptionsFromConfig(cfg)
	return &Generator{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		drafts:   cfg.Build.ListDrafts,
		legacy:   markdown.NewLegacyRenderer(cfg.Markdown.LegacyEngine, opts),
		mdx:      markdown.NewMDXRenderer(opts),
	}
}

// WithRecorder sets the metrics recorder.
func (g *Generator) WithRecorder(r metrics.Recorder) *Generator {
	if r == nil {
		r = metrics.NoopRecorder{}
	}
	g.recorder = r
	return g
}

// WithStateStore enables build history, post fingerprints and the event log.
func (g *Generator) WithStateStore(s *state.Store) *Generator {
	g.store = s
	return g
}

// WithObserver adds a build observer.
func (g *Generator) WithObserver(o BuildObserver) *Generator {
	if o != nil {
		g.observers = append(g.observers, o)
	}
	return g
}

// WithDrafts lists unpublished posts on the index page.
func (g *Generator) WithDrafts(drafts bool) *Generator {
	g.drafts = drafts
	return g
}

// WithSkipUnchanged skips rendering when content and configuration match the last
// successful build and its output still exists. Requires a state store.
func (g *Generator) WithSkipUnchanged(skip bool) *Generator {
	g.skipUnchanged = skip
	return g
}

// Config returns the generator's configuration.
func (g *Generator) Config() *config.Config { return g.cfg }

// OutputDir returns the directory the site is written to.
func (g *Generator) OutputDir() string { return g.cfg.Output.Directory }

// Recorder returns the metrics recorder.
func (g *Generator) Recorder() metrics.Recorder { return g.recorder }

// BuildState carries data between the stages of one build.
type BuildState struct {
	Generator     *Generator
	Report        *BuildReport
	Documents     []*content.Document
	Assets        []content.Asset
	Sources       []post.SourceNode
	ReadErrors    []error // discovery and derivation failures, raised with validation errors
	Collection    *post.Collection
	Contexts      []post.PageContext
	Pages         []*Page
	Fingerprints  map[string]string
	AvatarURL     string // empty when no avatar was produced
	Icons         []images.Icon
	SkipRemaining bool

	obs BuildObserver
}

func (bs *BuildState) observer() BuildObserver {
	if bs.obs == nil {
		return NoopObserver{}
	}
	return bs.obs
}

func (bs *BuildState) recorder() metrics.Recorder {
	if bs.Generator == nil {
		return metrics.NoopRecorder{}
	}
	return bs.Generator.recorder
}

// pipeline returns the ordered stages of a full build.
func (g *Generator) pipeline() []StageDef {
	return NewPipeline().
		Add(StageDiscover, stageDiscover).
		Add(StageDerive, stageDerive).
		Add(StageValidate, stageValidate).
		Add(StageCollate, stageCollate).
		Add(StagePrepareOutput, stagePrepareOutput).
		Add(StageRenderPosts, stageRenderPosts).
		Add(StageAssets, stageAssets).
		Add(StageWritePages, stageWritePages).
		Add(StageFeeds, stageFeeds).
		Build()
}

// Build runs every stage and returns the report. The report is returned even when
// the build fails; it is persisted to build.report_file inside the output directory.
func (g *Generator) Build(ctx context.Context) (*BuildReport, error) {
	buildID := uuid.NewString()
	report := NewBuildReport(buildID)
	report.ConfigHash = g.cfg.Hash()

	observers := multiObserver{RecorderObserver{Recorder: g.recorder}}
	if g.store != nil {
		observers = append(observers, EventObserver{Store: g.store, BuildID: buildID})
		if err := g.store.AppendEvent(ctx, buildID, state.EventBuildStarted, nil); err != nil {
			slog.Warn("Failed to record build start", logfields.BuildID(buildID), logfields.Error(err))
		}
	}
	observers = append(observers, g.observers...)

	bs := &BuildState{Generator: g, Report: report, obs: observers}

	slog.Info("Build started", logfields.BuildID(buildID), logfields.Path(g.cfg.Output.Directory))
	err := RunStages(ctx, bs, g.pipeline())

	report.Finish()
	report.DeriveOutcome()
	observers.OnBuildComplete(report)
	g.recordState(bs)

	if g.cfg.Build.ReportFile != "" && report.Outcome != OutcomeSkipped {
		if perr := report.Persist(filepath.Join(g.cfg.Output.Directory, g.cfg.Build.ReportFile)); perr != nil {
			slog.Warn("Failed to persist build report", logfields.Error(perr))
		}
	}

	if err != nil {
		slog.Error("Build failed", logfields.BuildID(buildID), logfields.Error(err))
		return report, err
	}
	slog.Info("Build completed", logfields.BuildID(buildID), slog.String("summary", report.Summary()))
	return report, nil
}

// recordState stores the build row and, after a successful render, the post fingerprints.
func (g *Generator) recordState(bs *BuildState) {
	if g.store == nil {
		return
	}
	r := bs.Report
	// Recording must not be cut short by the build's own cancellation.
	ctx := context.Background()

	outcome := state.OutcomeFailed
	switch r.Outcome {
	case OutcomeSuccess:
		outcome = state.OutcomeSuccess
	case OutcomeWarning:
		outcome = state.OutcomeWarning
	case OutcomeSkipped:
		outcome = state.OutcomeSkipped
	}

	if err := g.store.RecordBuild(ctx, state.Build{
		ID:          r.BuildID,
		StartedAt:   r.Start,
		FinishedAt:  r.End,
		Outcome:     outcome,
		Pages:       r.RenderedPages,
		ConfigHash:  r.ConfigHash,
		ContentHash: r.ContentHash,
	}); err != nil {
		slog.Warn("Failed to record build", logfields.BuildID(r.BuildID), logfields.Error(err))
	}

	if outcome != state.OutcomeSuccess && outcome != state.OutcomeWarning {
		return
	}
	records := make([]state.PostRecord, 0, len(bs.Fingerprints))
	if bs.Collection != nil {
		for _, n := range bs.Collection.All() {
			records = append(records, state.PostRecord{Slug: n.Slug, Fingerprint: bs.Fingerprints[n.Slug], File: n.RelativePath})
		}
	}
	if err := g.store.ReplacePosts(ctx, r.BuildID, records); err != nil {
		slog.Warn("Failed to record post fingerprints", logfields.BuildID(r.BuildID), logfields.Error(err))
	}
}
