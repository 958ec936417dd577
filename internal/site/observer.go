package site

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/state"
)

// BuildObserver receives callbacks around stage execution and build lifecycle.
type BuildObserver interface {
	OnStageStart(stage StageName)
	OnStageComplete(stage StageName, duration time.Duration, result StageResult)
	OnBuildComplete(report *BuildReport)
}

// NoopObserver is a no-op implementation.
type NoopObserver struct{}

func (NoopObserver) OnStageStart(_ StageName)                                    {}
func (NoopObserver) OnStageComplete(_ StageName, _ time.Duration, _ StageResult) {}
func (NoopObserver) OnBuildComplete(_ *BuildReport)                              {}

// RecorderObserver adapts metrics.Recorder into a BuildObserver.
type RecorderObserver struct{ Recorder metrics.Recorder }

func (r RecorderObserver) OnStageStart(_ StageName) {}

func (r RecorderObserver) OnStageComplete(stage StageName, d time.Duration, _ StageResult) {
	if r.Recorder != nil {
		r.Recorder.ObserveStageDuration(string(stage), d)
	}
}

func (r RecorderObserver) OnBuildComplete(report *BuildReport) {
	if r.Recorder == nil {
		return
	}
	r.Recorder.ObserveBuildDuration(report.End.Sub(report.Start))
	r.Recorder.IncBuildOutcome(metrics.BuildOutcomeLabel(report.Outcome))
	r.Recorder.AddPagesRendered(report.RenderedPages)
	r.Recorder.SetPosts(report.Published, report.Posts-report.Published)
}

// EventObserver appends stage and build events to the state store's event log.
type EventObserver struct {
	Store   *state.Store
	BuildID string
}

func (o EventObserver) OnStageStart(_ StageName) {}

func (o EventObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	o.append(state.EventStageCompleted, map[string]any{
		"stage":       string(stage),
		"result":      string(result),
		"duration_ms": d.Milliseconds(),
	})
}

func (o EventObserver) OnBuildComplete(report *BuildReport) {
	o.append(state.EventBuildCompleted, map[string]any{
		"outcome":        string(report.Outcome),
		"rendered_pages": report.RenderedPages,
		"skip_reason":    report.SkipReason,
	})
}

func (o EventObserver) append(eventType string, payload map[string]any) {
	if o.Store == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	// Events are recorded after the build context may have been canceled.
	if err := o.Store.AppendEvent(context.Background(), o.BuildID, eventType, data); err != nil {
		slog.Warn("Failed to record build event", logfields.BuildID(o.BuildID), logfields.Error(err))
	}
}

// multiObserver fans callbacks out to several observers in order.
type multiObserver []BuildObserver

func (m multiObserver) OnStageStart(stage StageName) {
	for _, o := range m {
		o.OnStageStart(stage)
	}
}

func (m multiObserver) OnStageComplete(stage StageName, d time.Duration, result StageResult) {
	for _, o := range m {
		o.OnStageComplete(stage, d, result)
	}
}

func (m multiObserver) OnBuildComplete(report *BuildReport) {
	for _, o := range m {
		o.OnBuildComplete(report)
	}
}
