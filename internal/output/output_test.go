package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/archiver"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0s"},
		{42 * time.Second, "42s"},
		{95 * time.Second, "1m35s"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1h02m03s"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.in); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPipelineRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.PipelineRun(&meeting.PipelineRun{
		AudioPath:      "audio_input/standup.m4a",
		Classification: &meeting.Classification{Type: meeting.Team, Confidence: 0.75},
		TranscriptFile: "transcriptions/standup_transcription_20250304_101500.txt",
		SummaryFile:    "summaries/standup_summary_20250304_102000.txt",
		Summary:        &meeting.SummaryRecord{ActionItems: []meeting.ActionItem{{Description: "x"}}},
		Publication:    &meeting.Publication{PageURL: "https://notion.so/p", TaskIDs: []string{"t"}},
	})

	out := buf.String()
	for _, want := range []string{
		"standup.m4a",
		"Type: Team Meeting (confidence 75%)",
		"standup_summary_20250304_102000.txt",
		"Action items: 1",
		"https://notion.so/p (1 tasks)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Audio moved") {
		t.Error("unarchived run should not print an audio line")
	}
}

func TestArchiveResultDryRun(t *testing.T) {
	var buf bytes.Buffer
	f := NewFormatter(&buf)

	f.ArchiveResult(archiver.Result{
		DryRun: true,
		Moved: []archiver.Move{{
			Entry:  archiver.Entry{Name: "A_summary_20250101_0000.txt", Category: archiver.CategorySummaries},
			Target: "archive/summaries/2025-01/A_summary_20250101_0000.txt",
			Reason: "duplicate of A_summary_20250102_0000.txt",
		}},
	})

	out := buf.String()
	if !strings.Contains(out, "Dry run") || !strings.Contains(out, "Would archive 1 files") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestArchiveStats(t *testing.T) {
	var buf bytes.Buffer
	NewFormatter(&buf).ArchiveStats(archiver.Stats{
		Active:   map[archiver.Category]int{archiver.CategorySummaries: 3},
		Archived: map[archiver.Category]int{archiver.CategoryAudio: 2},
	})
	out := buf.String()
	if !strings.Contains(out, "summaries") || !strings.Contains(out, "total") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
