package transcriber

import (
	"context"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// Options override the configured whisper settings for one call. Empty fields
// keep the configured value.
type Options struct {
	Model    string
	Language string
	Task     string
}

// Transcriber turns an audio file into a TranscriptRecord.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string, opts Options) (*meeting.TranscriptRecord, error)
}
