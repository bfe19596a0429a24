package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// Summarizer produces a structured meeting summary from a transcript.
type Summarizer interface {
	Summarize(ctx context.Context, transcript *meeting.TranscriptRecord, mt meeting.MeetingType) (*meeting.SummaryRecord, error)
}

// completer sends one system + user prompt pair to an LLM and returns the
// reply text.
type completer interface {
	complete(ctx context.Context, system, user string) (string, error)
}
