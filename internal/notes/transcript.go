package notes

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

const (
	generatedLayout = "2006-01-02 15:04:05"
	headerRule      = "=================================================="
	fullTextMarker  = "Full Text:"
	segmentsMarker  = "Timestamped Segments:"
)

var reSegment = regexp.MustCompile(`^\[(\d+(?:\.\d+)?)s - (\d+(?:\.\d+)?)s\]: ?(.*)$`)

// FormatTranscript renders rec in the transcript file layout.
func FormatTranscript(rec *meeting.TranscriptRecord, withSegments bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Transcription of: %s\n", rec.SourcePath)
	fmt.Fprintf(&sb, "Generated: %s\n", rec.GeneratedAt.Format(generatedLayout))
	fmt.Fprintf(&sb, "Model: %s\n", rec.Model)
	sb.WriteString(headerRule + "\n")

	language := rec.Language
	if language == "" {
		language = "unknown"
	}
	fmt.Fprintf(&sb, "Language: %s\n", language)
	if rec.Duration > 0 {
		fmt.Fprintf(&sb, "Duration: %s\n", rec.Duration.Round(time.Second))
	}
	sb.WriteString("\n")

	sb.WriteString(fullTextMarker + "\n")
	sb.WriteString(strings.TrimSpace(rec.Text) + "\n")

	if withSegments && len(rec.Segments) > 0 {
		sb.WriteString("\n" + segmentsMarker + "\n")
		for _, seg := range rec.Segments {
			fmt.Fprintf(&sb, "[%.2fs - %.2fs]: %s\n", seg.Start.Seconds(), seg.End.Seconds(), strings.TrimSpace(seg.Text))
		}
	}

	return sb.String()
}

// WriteTranscript writes rec into dir and returns the file path. The name is
// derived from the source audio stem and rec.GeneratedAt.
func WriteTranscript(dir string, rec *meeting.TranscriptRecord, withSegments bool) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create transcriptions dir: %w", err)
	}

	path := filepath.Join(dir, TranscriptName(Stem(rec.SourcePath), rec.GeneratedAt))
	if err := os.WriteFile(path, []byte(FormatTranscript(rec, withSegments)), 0644); err != nil {
		return "", fmt.Errorf("write transcript: %w", err)
	}
	return path, nil
}

// ReadTranscript parses a transcript file. Files without the "Full Text:"
// marker are treated as plain text.
func ReadTranscript(path string) (*meeting.TranscriptRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := string(data)
	rec := &meeting.TranscriptRecord{}

	if !strings.Contains(content, fullTextMarker) {
		rec.Text = strings.TrimSpace(content)
		return rec, nil
	}

	const (
		stateHeader = iota
		stateText
		stateSegments
	)

	state := stateHeader
	var text []string

	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch state {
		case stateHeader:
			if line == fullTextMarker {
				state = stateText
				continue
			}
			parseHeaderLine(rec, line)

		case stateText:
			if line == segmentsMarker {
				state = stateSegments
				continue
			}
			text = append(text, line)

		case stateSegments:
			if seg, ok := parseSegment(line); ok {
				rec.Segments = append(rec.Segments, seg)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan transcript: %w", err)
	}

	rec.Text = strings.TrimSpace(strings.Join(text, "\n"))
	return rec, nil
}

func parseHeaderLine(rec *meeting.TranscriptRecord, line string) {
	key, value, ok := strings.Cut(line, ": ")
	if !ok {
		return
	}
	value = strings.TrimSpace(value)

	switch key {
	case "Transcription of":
		rec.SourcePath = value
	case "Generated":
		if t, err := time.ParseInLocation(generatedLayout, value, time.Local); err == nil {
			rec.GeneratedAt = t
		}
	case "Model":
		rec.Model = value
	case "Language":
		rec.Language = value
	case "Duration":
		if d, err := time.ParseDuration(value); err == nil {
			rec.Duration = d
		}
	}
}

func parseSegment(line string) (meeting.Segment, bool) {
	m := reSegment.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return meeting.Segment{}, false
	}
	start, err1 := strconv.ParseFloat(m[1], 64)
	end, err2 := strconv.ParseFloat(m[2], 64)
	if err1 != nil || err2 != nil {
		return meeting.Segment{}, false
	}
	return meeting.Segment{
		Start: secondsToDuration(start),
		End:   secondsToDuration(end),
		Text:  m[3],
	}, true
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s*1000)) * time.Millisecond
}

// FindLatestTranscript returns the newest "{stem}_transcription_*.txt" in dir,
// ordered by the name timestamp and then by modification time.
func FindLatestTranscript(dir, stem string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var (
		best      string
		bestStamp string
		bestMod   time.Time
	)
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		base, stamp, kind := ParseName(e.Name())
		if kind != KindTranscription || base != stem {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}

		stamp = NormalizeStamp(stamp)
		if best == "" || stamp > bestStamp || (stamp == bestStamp && info.ModTime().After(bestMod)) {
			best = filepath.Join(dir, e.Name())
			bestStamp = stamp
			bestMod = info.ModTime()
		}
	}

	if best == "" {
		return "", os.ErrNotExist
	}
	return best, nil
}

// NormalizeStamp pads a "YYYYMMDD[_HHMM[SS]]" stamp with zeros so stamps of
// different precision compare correctly as strings.
func NormalizeStamp(stamp string) string {
	if stamp == "" {
		return ""
	}
	const full = len(stampLayout)
	if len(stamp) == len(dayStampLayout) {
		return stamp + "_000000"
	}
	if len(stamp) < full {
		return stamp + strings.Repeat("0", full-len(stamp))
	}
	return stamp
}
