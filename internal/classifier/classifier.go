package classifier

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// KeywordTable maps each meeting type to the phrases that signal it.
type KeywordTable map[meeting.MeetingType][]string

// DefaultKeywords returns a fresh copy of the built-in table.
func DefaultKeywords() KeywordTable {
	return KeywordTable{
		meeting.OneOnOne:  {"1:1", "one on one", "performance review", "career development", "feedback session"},
		meeting.Forecast:  {"forecast", "pipeline", "commit", "quarter close", "best case"},
		meeting.Customer:  {"customer", "client", "prospect", "demo"},
		meeting.Technical: {"architecture", "integration", "api", "technical design"},
		meeting.Strategic: {"strategy", "market", "competitive", "positioning"},
		meeting.Team:      {"sprint", "blocker", "standup", "stand-up", "retro", "team meeting"},
	}
}

// Merge returns a copy of base where every type present in overrides has its
// phrase list replaced. Unknown type names are ignored.
func Merge(base KeywordTable, overrides map[string][]string) KeywordTable {
	out := make(KeywordTable, len(base))
	for mt, phrases := range base {
		out[mt] = append([]string(nil), phrases...)
	}
	for name, phrases := range overrides {
		mt, err := meeting.ParseMeetingType(name)
		if err != nil {
			continue
		}
		out[mt] = append([]string(nil), phrases...)
	}
	return out
}

// Score counts whole-phrase, case-insensitive occurrences per type.
func Score(text string, table KeywordTable) map[meeting.MeetingType]int {
	lower := strings.ToLower(text)
	scores := make(map[meeting.MeetingType]int, len(table))
	for mt, phrases := range table {
		total := 0
		for _, p := range phrases {
			total += countPhrase(lower, strings.ToLower(strings.TrimSpace(p)))
		}
		scores[mt] = total
	}
	return scores
}

// Classify is a pure function of its inputs. An override short-circuits scoring;
// otherwise the highest score wins, ties go to the earlier type in
// meeting.Priority and a zero score everywhere yields fallback.
func Classify(text string, table KeywordTable, override *meeting.MeetingType, fallback meeting.MeetingType) meeting.Classification {
	if override != nil {
		return meeting.Classification{
			Type:       *override,
			Confidence: 1,
			Overridden: true,
		}
	}

	scores := Score(text, table)

	best := fallback
	bestScore := 0
	total := 0
	for _, mt := range meeting.Priority {
		s := scores[mt]
		total += s
		if s > bestScore {
			best, bestScore = mt, s
		}
	}

	result := meeting.Classification{
		Type:   best,
		Scores: scores,
	}
	if bestScore > 0 {
		result.Confidence = float64(bestScore) / float64(total)
	}
	return result
}

// countPhrase counts non-overlapping occurrences of phrase in text that are not
// glued to a letter or digit on either side.
func countPhrase(text, phrase string) int {
	if phrase == "" {
		return 0
	}
	count := 0
	for i := 0; i < len(text); {
		idx := strings.Index(text[i:], phrase)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(phrase)
		if boundaryBefore(text, start) && boundaryAfter(text, end) {
			count++
			i = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		i = start + size
	}
	return count
}

func boundaryBefore(text string, pos int) bool {
	if pos == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:pos])
	return !isWordRune(r)
}

func boundaryAfter(text string, pos int) bool {
	if pos >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[pos:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
