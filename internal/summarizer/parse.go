package summarizer

import (
	"regexp"
	"strings"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

var (
	reSectionHeading = regexp.MustCompile(`^##\s+(.+?)\s*#*$`)
	reOpenTask       = regexp.MustCompile(`^[\-\*]\s+\[ \]\s+(.+)$`)
	reTaskField      = regexp.MustCompile(`(?i)^(owner|due)\s*:\s*(.*)$`)
)

// ParseSummary splits model markdown into "##" sections and collects the
// open "- [ ]" checklist lines as action items. "Owner:" and "Due:" fields
// separated by " - " are lifted out of the description.
func ParseSummary(markdown string) ([]meeting.Section, []meeting.ActionItem) {
	var (
		sections []meeting.Section
		items    []meeting.ActionItem
		current  *meeting.Section
		body     []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		sections = append(sections, *current)
		current, body = nil, nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)

		if m := reSectionHeading.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = &meeting.Section{Heading: strings.Trim(m[1], "* ")}
			continue
		}

		if m := reOpenTask.FindStringSubmatch(trimmed); m != nil {
			if item, ok := parseActionItem(m[1]); ok {
				items = append(items, item)
			}
		}

		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections, items
}

func parseActionItem(text string) (meeting.ActionItem, bool) {
	parts := strings.Split(text, " - ")

	var item meeting.ActionItem
	var desc []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if m := reTaskField.FindStringSubmatch(stripEmphasis(p)); m != nil {
			value := strings.TrimSpace(m[2])
			if isPlaceholder(value) {
				continue
			}
			if strings.EqualFold(m[1], "owner") {
				item.Owner = value
			} else {
				item.Due = value
			}
			continue
		}
		desc = append(desc, p)
	}

	item.Description = stripEmphasis(strings.Join(desc, " - "))
	if item.Description == "" || isPlaceholder(item.Description) {
		return meeting.ActionItem{}, false
	}
	return item, true
}

func stripEmphasis(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

// isPlaceholder matches unfilled template slots like "[Name]".
func isPlaceholder(s string) bool {
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}
