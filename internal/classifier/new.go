package classifier

import "github.com/nguyentantai21042004/meeting-flow/internal/meeting"

type implClassifier struct {
	table    KeywordTable
	fallback meeting.MeetingType
}

// New creates a Classifier over table. An invalid fallback becomes meeting.Team.
func New(table KeywordTable, fallback meeting.MeetingType) Classifier {
	if !fallback.Valid() {
		fallback = meeting.Team
	}
	if table == nil {
		table = DefaultKeywords()
	}
	return &implClassifier{
		table:    table,
		fallback: fallback,
	}
}

func (c *implClassifier) Classify(text string, override *meeting.MeetingType) meeting.Classification {
	return Classify(text, c.table, override, c.fallback)
}
