// Package notes owns the on-disk formats of transcript and summary files: how
// they are named, written, found again and parsed back.
package notes

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// File kinds recognised in output directories.
const (
	KindTranscription = "transcription"
	KindSummary       = "summary"
	KindAudio         = "audio"
)

const (
	stampLayout    = "20060102_150405"
	dayStampLayout = "20060102"
)

var namePatterns = []struct {
	re   *regexp.Regexp
	kind string
}{
	{regexp.MustCompile(`^(.+)_transcription_(\d{8}_\d{4,6})$`), KindTranscription},
	{regexp.MustCompile(`^(.+)_summary_(\d{8}_\d{4,6})$`), KindSummary},
	{regexp.MustCompile(`^(.+)_processed_(\d{8})$`), KindAudio},
}

// Stem returns the file name without directory and extension.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Stamp formats t the way output file names carry it.
func Stamp(t time.Time) string {
	return t.Format(stampLayout)
}

// TranscriptName is "{stem}_transcription_{YYYYMMDD_HHMMSS}.txt".
func TranscriptName(stem string, t time.Time) string {
	return stem + "_transcription_" + Stamp(t) + ".txt"
}

// SummaryName is "{stem}_summary_{YYYYMMDD_HHMMSS}.txt".
func SummaryName(stem string, t time.Time) string {
	return stem + "_summary_" + Stamp(t) + ".txt"
}

// ProcessedAudioName is "{stem}_processed_{YYYYMMDD}{ext}".
func ProcessedAudioName(stem, ext string, t time.Time) string {
	return stem + "_processed_" + t.Format(dayStampLayout) + ext
}

// ParseName splits a file name into its base name, timestamp and kind. Names
// without a recognised suffix return the bare stem and empty stamp and kind.
func ParseName(name string) (base, stamp, kind string) {
	stem := Stem(name)
	for _, p := range namePatterns {
		if m := p.re.FindStringSubmatch(stem); m != nil {
			return m[1], m[2], p.kind
		}
	}
	return stem, "", ""
}
