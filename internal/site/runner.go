package site

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// RunStages executes stages in order, recording timing and stopping on the first
// fatal error. A stage that sets bs.SkipRemaining ends the build early.
func RunStages(ctx context.Context, bs *BuildState, stages []StageDef) error {
	observer := bs.observer()
	recorder := bs.recorder()

	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := NewCanceledStageError(st.Name, ctx.Err())
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			bs.Report.Errors = append(bs.Report.Errors, se)
			bs.Report.RecordStageResult(st.Name, StageResultCanceled, recorder)
			observer.OnStageComplete(st.Name, 0, StageResultCanceled)
			return se
		default:
		}

		observer.OnStageStart(st.Name)

		t0 := time.Now()
		err := st.Fn(ctx, bs)
		dur := time.Since(t0)
		bs.Report.StageDurations[st.Name] = dur

		result := StageResultSuccess
		if se := classifyStageError(st.Name, err); se != nil {
			result = se.Kind.result()
			bs.Report.StageErrorKinds[st.Name] = se.Kind
			if se.Kind == StageErrorWarning {
				bs.Report.AddWarning(se)
				slog.Warn("Stage completed with warnings", logfields.Stage(string(st.Name)), logfields.Error(se.Err))
			} else {
				bs.Report.Errors = append(bs.Report.Errors, se)
			}
		}

		bs.Report.RecordStageResult(st.Name, result, recorder)
		observer.OnStageComplete(st.Name, dur, result)
		slog.Debug("Stage finished", logfields.Stage(string(st.Name)), logfields.DurationMS(float64(dur)/float64(time.Millisecond)), slog.String("result", string(result)))

		if result == StageResultFatal || result == StageResultCanceled {
			if len(bs.Report.Errors) > 0 {
				return bs.Report.Errors[len(bs.Report.Errors)-1]
			}
			return fmt.Errorf("stage %s aborted", st.Name)
		}

		if bs.SkipRemaining {
			slog.Info("Early build exit; skipping remaining stages", slog.String("reason", bs.Report.SkipReason))
			return nil
		}
	}
	return nil
}
