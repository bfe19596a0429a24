package summarizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// Summarize sends the transcript with the role prompt for mt and parses the
// reply into a SummaryRecord.
func (s *implSummarizer) Summarize(ctx context.Context, transcript *meeting.TranscriptRecord, mt meeting.MeetingType) (*meeting.SummaryRecord, error) {
	text := strings.TrimSpace(transcript.Text)
	if text == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	text, cut := truncate(text)
	if cut {
		s.logger.Warn(ctx, "Transcript truncated to %d characters", maxTranscriptChars)
	}

	system := SystemPrompt(mt)
	user := UserPrompt(mt, text, s.cfg.UserContext, s.cfg.CustomPrompt)

	s.logger.Info(ctx, "Summarizing with %s (%s), meeting type %s", s.cfg.Provider, s.cfg.Model, mt)
	start := time.Now()

	markdown, err := s.client.complete(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.Provider, err)
	}
	markdown = strings.TrimSpace(markdown)

	sections, items := ParseSummary(markdown)
	s.logger.Info(ctx, "Summary generated in %s: %d sections, %d action items",
		time.Since(start).Round(time.Millisecond), len(sections), len(items))

	return &meeting.SummaryRecord{
		MeetingType: mt,
		Sections:    sections,
		ActionItems: items,
		Markdown:    markdown,
		Provider:    s.cfg.Provider,
		Model:       s.cfg.Model,
		GeneratedAt: s.now(),
	}, nil
}
