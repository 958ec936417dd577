package site

import (
	"context"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/blogbuilder/internal/post"
)

// Collect runs discovery, derivation, validation and collation without writing
// any output. The collection is nil when validation fails.
func (g *Generator) Collect(ctx context.Context) (*post.Collection, *BuildReport, error) {
	report := NewBuildReport(uuid.NewString())
	bs := &BuildState{Generator: g, Report: report}
	stages := NewPipeline().
		Add(StageDiscover, stageDiscover).
		Add(StageDerive, stageDerive).
		Add(StageValidate, stageValidate).
		Add(StageCollate, stageCollate).
		Build()
	err := RunStages(ctx, bs, stages)
	report.Finish()
	report.DeriveOutcome()
	return bs.Collection, report, err
}
