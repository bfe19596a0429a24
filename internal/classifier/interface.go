package classifier

import "github.com/nguyentantai21042004/meeting-flow/internal/meeting"

// Classifier picks a meeting type from transcript text.
type Classifier interface {
	Classify(text string, override *meeting.MeetingType) meeting.Classification
}
