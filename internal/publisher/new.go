package publisher

import (
	"github.com/jomei/notionapi"
	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
)

type implPublisher struct {
	cfg       config.NotionConfig
	pages     pageService
	blocks    blockService
	users     userService
	databases databaseService
	logger    logger.Logger
}

// New creates a Notion Publisher. Credentials are validated by the caller
// through config.RequirePublisher.
func New(cfg config.NotionConfig, log logger.Logger) Publisher {
	client := notionapi.NewClient(notionapi.Token(cfg.Token))
	return &implPublisher{
		cfg:       cfg,
		pages:     client.Page,
		blocks:    client.Block,
		users:     client.User,
		databases: client.Database,
		logger:    log,
	}
}
