package archiver

import "context"

// Archiver moves stale or duplicate output files into dated archive folders.
type Archiver interface {
	Stats(ctx context.Context) (Stats, error)
	ListDuplicates(ctx context.Context) ([]DuplicateGroup, error)
	PlanDuplicates(ctx context.Context) (Plan, error)
	PlanOld(ctx context.Context, days int) (Plan, error)
	PlanAudio(ctx context.Context, days int) (Plan, error)
	// Execute carries out plan. With dryRun nothing on disk changes.
	Execute(ctx context.Context, plan Plan, dryRun bool) (Result, error)
}
