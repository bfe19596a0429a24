package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

const summaryRule = "--------------------------------------------------"

// SummaryFile is everything written into a summary file.
type SummaryFile struct {
	AudioPath  string
	Summary    *meeting.SummaryRecord
	Transcript *meeting.TranscriptRecord
}

// FormatSummary renders the summary file layout: metadata lines, the summary
// body and the full transcript.
func FormatSummary(f SummaryFile) string {
	s := f.Summary
	var sb strings.Builder

	fmt.Fprintf(&sb, "Meeting Summary: %s\n", Stem(f.AudioPath))
	fmt.Fprintf(&sb, "Generated: %s\n", s.GeneratedAt.Format(generatedLayout))
	fmt.Fprintf(&sb, "Audio File: %s\n", f.AudioPath)
	fmt.Fprintf(&sb, "Meeting Type: %s (%s)\n", s.MeetingType.Label(), s.MeetingType)
	fmt.Fprintf(&sb, "Model: %s (%s)\n", s.Provider, s.Model)
	sb.WriteString("\n")

	writeBlock(&sb, "SUMMARY", strings.TrimSpace(s.Markdown))
	sb.WriteString("\n")

	transcript := "No transcript available"
	if f.Transcript != nil && strings.TrimSpace(f.Transcript.Text) != "" {
		transcript = strings.TrimSpace(f.Transcript.Text)
	}
	writeBlock(&sb, "FULL TRANSCRIPT", transcript)

	return sb.String()
}

func writeBlock(sb *strings.Builder, title, body string) {
	sb.WriteString(summaryRule + "\n")
	sb.WriteString(title + "\n")
	sb.WriteString(summaryRule + "\n\n")
	sb.WriteString(body + "\n")
}

// WriteSummary writes f into dir and returns the file path.
func WriteSummary(dir string, f SummaryFile) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create summaries dir: %w", err)
	}

	path := filepath.Join(dir, SummaryName(Stem(f.AudioPath), f.Summary.GeneratedAt))
	if err := os.WriteFile(path, []byte(FormatSummary(f)), 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	return path, nil
}
