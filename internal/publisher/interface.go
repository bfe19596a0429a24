package publisher

import (
	"context"
	"time"

	"github.com/jomei/notionapi"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

// Request is one summary to publish.
type Request struct {
	AudioPath string
	Summary   *meeting.SummaryRecord
	Date      time.Time
}

// Health is what Check found out about the Notion workspace.
type Health struct {
	User         string
	Database     string
	TaskDatabase string
}

// Publisher writes meeting summaries to Notion.
type Publisher interface {
	// Publish creates the meeting page and one task page per action item.
	Publish(ctx context.Context, req Request) (*meeting.Publication, error)
	// Check verifies the token and database access.
	Check(ctx context.Context) (*Health, error)
}

// The subsets of notionapi services the publisher calls.
type (
	pageService interface {
		Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error)
	}
	blockService interface {
		AppendChildren(ctx context.Context, id notionapi.BlockID, req *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error)
	}
	userService interface {
		Me(ctx context.Context) (*notionapi.User, error)
	}
	databaseService interface {
		Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error)
	}
)
