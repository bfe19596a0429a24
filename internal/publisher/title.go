package publisher

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var reDatePrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}[-_]?`)

// GenerateTitle turns an audio stem like "2025-08-04-anna-weekly-1-2-1" into
// "Anna Weekly 1:2:1": the leading date is dropped, then come the person, the
// cadence and the meeting kind with its dashes turned into colons. Stems that
// do not follow that shape are title-cased.
func GenerateTitle(stem string) string {
	rest := reDatePrefix.ReplaceAllString(stem, "")
	if rest == stem {
		return fallbackTitle(stem)
	}

	parts := nonEmpty(strings.Split(rest, "-"))
	if len(parts) == 0 {
		return fallbackTitle(stem)
	}

	person := titleWord(parts[0])
	var frequency, kind string
	if len(parts) > 1 {
		frequency = titleWord(parts[1])
	}
	if len(parts) > 2 {
		kind = strings.Join(parts[2:], ":")
	}

	switch {
	case kind != "" && frequency != "":
		return person + " " + frequency + " " + kind
	case frequency != "":
		return person + " " + frequency
	default:
		return person + " Meeting"
	}
}

func fallbackTitle(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = titleWord(w)
	}
	if len(words) == 0 {
		return "Meeting"
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

func nonEmpty(parts []string) []string {
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
