package meeting

import (
	"fmt"
	"strings"
	"time"
)

// MeetingType is the category used to pick a summary template.
type MeetingType string

const (
	OneOnOne  MeetingType = "one_on_one"
	Forecast  MeetingType = "forecast"
	Customer  MeetingType = "customer"
	Technical MeetingType = "technical"
	Strategic MeetingType = "strategic"
	Team      MeetingType = "team"
	Default   MeetingType = "default"
)

// Priority is the fixed tie-break order, highest first.
var Priority = []MeetingType{OneOnOne, Forecast, Customer, Technical, Strategic, Team, Default}

var labels = map[MeetingType]string{
	OneOnOne:  "1:1",
	Forecast:  "Forecast",
	Customer:  "Customer",
	Technical: "Technical",
	Strategic: "Strategic",
	Team:      "Team Meeting",
	Default:   "Meeting",
}

var aliases = map[string]MeetingType{
	"1:1":          OneOnOne,
	"1-1":          OneOnOne,
	"one-on-one":   OneOnOne,
	"team_meeting": Team,
	"team-meeting": Team,
	"generic":      Default,
}

// Label returns the human readable name of the type.
func (t MeetingType) Label() string {
	if l, ok := labels[t]; ok {
		return l
	}
	return string(t)
}

// Valid reports whether t is one of the known types.
func (t MeetingType) Valid() bool {
	_, ok := labels[t]
	return ok
}

// ParseMeetingType accepts canonical names and the aliases used on the command line.
func ParseMeetingType(s string) (MeetingType, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if t := MeetingType(key); t.Valid() {
		return t, nil
	}
	if t, ok := aliases[key]; ok {
		return t, nil
	}
	return "", fmt.Errorf("unknown meeting type %q", s)
}

// Segment is one timed slice of a transcript.
type Segment struct {
	Start time.Duration
	End   time.Duration
	Text  string
}

// TranscriptRecord is the normalized output of the transcription stage.
type TranscriptRecord struct {
	Text        string
	Language    string
	Model       string
	Segments    []Segment
	Duration    time.Duration
	SourcePath  string
	GeneratedAt time.Time
}

// Classification is the meeting type chosen for a run.
type Classification struct {
	Type       MeetingType
	Scores     map[MeetingType]int
	Confidence float64
	Overridden bool
}

// Section is one "## heading" block of a summary.
type Section struct {
	Heading string
	Body    string
}

// ActionItem is a task extracted from a summary.
type ActionItem struct {
	Description string
	Owner       string
	Due         string
}

// SummaryRecord is the structured output of the summarization stage.
type SummaryRecord struct {
	MeetingType MeetingType
	Sections    []Section
	ActionItems []ActionItem
	Markdown    string
	Provider    string
	Model       string
	GeneratedAt time.Time
}

// Publication identifies what was created in the workspace.
type Publication struct {
	PageID  string
	PageURL string
	TaskIDs []string
}

// Options are the per-run switches of the pipeline.
type Options struct {
	Model          string
	Language       string
	MeetingType    *MeetingType
	SkipTranscribe bool
	SkipSummarize  bool
	SkipNotion     bool
	NoArchive      bool
}

// PipelineRun holds everything produced during one invocation. It is never persisted.
type PipelineRun struct {
	ID             string
	AudioPath      string
	Options        Options
	StartedAt      time.Time
	Transcript     *TranscriptRecord
	Classification *Classification
	Summary        *SummaryRecord
	TranscriptFile string
	SummaryFile    string
	DocxFile       string
	Publication    *Publication
	ArchivedAudio  string
}
