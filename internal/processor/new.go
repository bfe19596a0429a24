package processor

import (
	"time"

	"github.com/google/uuid"
	"github.com/nguyentantai21042004/meeting-flow/internal/classifier"
	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
	"github.com/nguyentantai21042004/meeting-flow/internal/publisher"
	"github.com/nguyentantai21042004/meeting-flow/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

// Deps are the stage collaborators. Publisher may be nil when every run
// skips Notion.
type Deps struct {
	Transcriber transcriber.Transcriber
	Classifier  classifier.Classifier
	Summarizer  summarizer.Summarizer
	Publisher   publisher.Publisher
}

type implProcessor struct {
	cfg    *config.Config
	deps   Deps
	logger logger.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a new Processor instance
func New(cfg *config.Config, deps Deps, log logger.Logger) Processor {
	return &implProcessor{
		cfg:    cfg,
		deps:   deps,
		logger: log,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}
