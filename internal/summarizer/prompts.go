package summarizer

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

const (
	maxTranscriptChars = 100000
	truncationNote     = "\n\n[Transcript truncated...]"
)

var rolePrompts = map[meeting.MeetingType]string{
	meeting.OneOnOne: "You are an experienced senior solutions engineering manager specialising in team development and performance management. " +
		"You excel at identifying coaching opportunities, tracking commitments and ensuring clear action items from 1:1 discussions. " +
		"You understand the importance of both technical growth and soft skills development for solutions engineers.",
	meeting.Team: "You are a senior solutions engineering leader focused on team coordination, delivery excellence and cross-functional collaboration. " +
		"You understand how to balance customer needs, technical requirements and team capacity while keeping morale and productivity high.",
	meeting.Forecast: "You are a seasoned sales operations analyst with deep expertise in pipeline management and revenue forecasting. " +
		"You understand solution engineering metrics, deal progression and risk assessment in enterprise software sales.",
	meeting.Customer: "You are a customer-focused solutions architect who understands both technical requirements and business value. " +
		"You excel at identifying customer pain points, mapping solutions to business outcomes and planning successful technical engagements.",
	meeting.Technical: "You are a principal solutions engineer who understands complex technical architectures and integration challenges. " +
		"You identify both immediate solutions and long-term technical strategies.",
	meeting.Strategic: "You are a strategic business advisor specialising in regional markets and enterprise technology sales. " +
		"You understand regional dynamics, competitive positioning and how to align technical capabilities with market opportunities.",
}

var typeInstructions = map[meeting.MeetingType]string{
	meeting.OneOnOne: `
## 1:1 Meeting Summary

## Discussion Highlights
- **Performance/Development:** [Key points about growth, achievements, or areas for improvement]
- **Current Projects:** [Status updates on key initiatives]
- **Challenges/Blockers:** [Any issues raised and support needed]

## Coaching & Development
- **Strengths Demonstrated:** [Specific examples]
- **Growth Areas:** [Skills or behaviours to develop]
- **Career Progression:** [Any discussions about next steps]

## Action Items
- [ ] **[Manager Action]** - Owner: [Name] - Due: [Date]
- [ ] **[Employee Action]** - Owner: [Name] - Due: [Date]

## Follow-up for Next 1:1
- [Topics to revisit]
- [Progress to check]

## Manager Notes (Confidential)
- [Any observations about engagement, motivation, or concerns]
`,
	meeting.Forecast: `
## Forecast Call Summary

## Pipeline Summary
- **Committed:** [Amount] ([X] deals)
- **Best Case:** [Amount] ([X] deals)
- **Pipeline Coverage:** [X:1 ratio]

## Key Deals
| Deal | Value | Stage | Close Date | Risk Level | Next Steps |
|------|-------|-------|------------|------------|------------|
| [Customer] | [Value] | [Stage] | [Date] | [H/M/L] | [Action] |

## Changes Since Last Forecast
- **New Additions:** [Deals added to forecast]
- **Slipped Deals:** [Deals pushed out with reasons]
- **Lost/Removed:** [Deals removed with reasons]

## Risk Assessment
- **High Risk Deals:** [List with mitigation plans]
- **Dependencies:** [Technical, legal, or commercial blockers]

## Resource Requirements
- **SE Capacity:** [Any resource constraints]
- **Technical Support:** [Specialist needs]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Commitments Made
- [Specific commitments for the period]
`,
	meeting.Team: `
## Team Meeting Summary

## Team Updates
- **Wins/Successes:** [Celebrate achievements]
- **Current Priorities:** [Top 3-5 team focuses]

## Project Status
| Project | Owner | Status | Next Milestone | Risks |
|---------|-------|--------|----------------|-------|
| [Name] | [SE] | [RAG] | [Date/Action] | [Issues] |

## Cross-functional Topics
- **Product Updates:** [Relevant product changes]
- **Process Changes:** [Any new procedures]
- **Training Needs:** [Skills gaps identified]

## Team Health
- **Morale Indicators:** [Observations]
- **Workload Balance:** [Any concerns]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Next Meeting Focus
- [Topics for next sync]
`,
}

const genericInstructions = `
## Meeting Summary

## Key Discussion Points
- **[Topic 1]:** [Summary and outcome]
- **[Topic 2]:** [Summary and outcome]

## Decisions Made
- [List key decisions with rationale]

## Action Items
- [ ] **[Task]** - Owner: [Name] - Due: [Date]

## Next Steps
- [Follow-up actions or meetings]
`

const formattingGuidelines = `---
**Formatting Guidelines:**
- Use consistent ## headers for ALL main sections (never mix ## and ###)
- Bold important labels using **text**
- Use tables where appropriate
- Include checkbox format (- [ ]) for all action items, with "Owner:" and "Due:" when known
- If information isn't mentioned, omit the section
- Keep language professional but conversational
- Use British English spelling
- IMPORTANT: All section headers must be ## (level 2) - no ### headers`

// SystemPrompt returns the role prompt for mt. Types without a dedicated role
// use the team meeting role.
func SystemPrompt(mt meeting.MeetingType) string {
	if p, ok := rolePrompts[mt]; ok {
		return p
	}
	return rolePrompts[meeting.Team]
}

// UserPrompt builds the instruction message for mt around the transcript.
// A non-empty custom prompt replaces the built-in instructions.
func UserPrompt(mt meeting.MeetingType, transcript string, uc config.UserContext, custom string) string {
	if strings.TrimSpace(custom) != "" {
		return custom + "\n\nTranscript:\n" + transcript
	}

	instructions, ok := typeInstructions[mt]
	if !ok {
		instructions = genericInstructions
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "I need you to summarise the following %s transcript.\n", describe(mt))
	if ctxLine := contextLine(uc); ctxLine != "" {
		sb.WriteString(ctxLine + "\n")
	}
	sb.WriteString("\nPlease provide a structured summary using Notion-compatible markdown formatting:\n")
	sb.WriteString(instructions)
	sb.WriteString("\n")
	sb.WriteString(formattingGuidelines)
	sb.WriteString("\n\n**Transcript:**\n")
	sb.WriteString(transcript)
	return sb.String()
}

func describe(mt meeting.MeetingType) string {
	d := strings.ToLower(mt.Label())
	if !strings.Contains(d, "meeting") {
		d += " meeting"
	}
	return d
}

func contextLine(uc config.UserContext) string {
	if uc.Role == "" {
		return ""
	}
	line := "Context: I'm the " + uc.Role
	if uc.Region != "" {
		line += " for " + uc.Region
	}
	if uc.Company != "" {
		line += " at " + uc.Company
	}
	if uc.TeamSize > 0 {
		line += fmt.Sprintf(", managing a team of %d", uc.TeamSize)
	}
	return line + "."
}

// truncate caps transcript at maxTranscriptChars runes and reports whether
// anything was cut.
func truncate(transcript string) (string, bool) {
	runes := []rune(transcript)
	if len(runes) <= maxTranscriptChars {
		return transcript, false
	}
	return string(runes[:maxTranscriptChars]) + truncationNote, true
}
