package processor

import (
	"context"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// Processor runs audio files through the meeting pipeline.
type Processor interface {
	// Process runs one file: transcribe, classify, summarize, publish and
	// archive. The returned run is non-nil even on failure and records what
	// was produced before the failing stage.
	Process(ctx context.Context, audioPath string, opts meeting.Options) (*meeting.PipelineRun, error)
	// ProcessBatch runs every audio file in dir, one at a time.
	ProcessBatch(ctx context.Context, dir string, opts meeting.Options) (*BatchResult, error)
}

// BatchResult collects the outcome of ProcessBatch.
type BatchResult struct {
	Runs   []*meeting.PipelineRun
	Failed map[string]error
}
