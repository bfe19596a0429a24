package publisher

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jomei/notionapi"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
	"github.com/nguyentantai21042004/meeting-flow/internal/notes"
)

func (p *implPublisher) Publish(ctx context.Context, req Request) (*meeting.Publication, error) {
	sum := req.Summary
	date := req.Date
	if date.IsZero() {
		date = sum.GeneratedAt
	}

	title := GenerateTitle(notes.Stem(req.AudioPath))
	batches := chunkBlocks(BuildBlocks(sum.Markdown, date))

	p.logger.Info(ctx, "Creating Notion page %q (%d blocks)", title, countBlocks(batches))

	create := &notionapi.PageCreateRequest{
		Parent: notionapi.Parent{
			Type:       notionapi.ParentTypeDatabaseID,
			DatabaseID: notionapi.DatabaseID(p.cfg.DatabaseID),
		},
		Properties: p.pageProperties(title, sum.MeetingType, date),
	}
	if len(batches) > 0 {
		create.Children = batches[0]
	}

	page, err := p.pages.Create(ctx, create)
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	pub := &meeting.Publication{
		PageID:  string(page.ID),
		PageURL: page.URL,
	}

	for i, batch := range batches[min(1, len(batches)):] {
		_, err := p.blocks.AppendChildren(ctx, notionapi.BlockID(page.ID), &notionapi.AppendBlockChildrenRequest{Children: batch})
		if err != nil {
			return pub, fmt.Errorf("append blocks batch %d: %w", i+2, err)
		}
	}

	for _, item := range sum.ActionItems {
		task, err := p.pages.Create(ctx, &notionapi.PageCreateRequest{
			Parent: notionapi.Parent{
				Type:       notionapi.ParentTypeDatabaseID,
				DatabaseID: notionapi.DatabaseID(p.cfg.TaskDatabaseID),
			},
			Properties: p.taskProperties(item, page.ID),
		})
		if err != nil {
			return pub, fmt.Errorf("create task %q: %w", item.Description, err)
		}
		pub.TaskIDs = append(pub.TaskIDs, string(task.ID))
	}

	p.logger.Info(ctx, "Notion page created: %s (%d tasks)", pub.PageURL, len(pub.TaskIDs))
	return pub, nil
}

func (p *implPublisher) pageProperties(title string, mt meeting.MeetingType, date time.Time) notionapi.Properties {
	names := p.cfg.Properties
	start := notionapi.Date(date)

	props := notionapi.Properties{
		names.Title: notionapi.TitleProperty{Title: []notionapi.RichText{plain(title)}},
		names.Date:  notionapi.DateProperty{Date: &notionapi.DateObject{Start: &start}},
		names.Type:  notionapi.SelectProperty{Select: notionapi.Option{Name: mt.Label()}},
	}
	if names.StatusValue != "" {
		props[names.Status] = notionapi.SelectProperty{Select: notionapi.Option{Name: names.StatusValue}}
	}
	return props
}

func (p *implPublisher) taskProperties(item meeting.ActionItem, pageID notionapi.ObjectID) notionapi.Properties {
	names := p.cfg.TaskProperties

	props := notionapi.Properties{
		names.Title:   notionapi.TitleProperty{Title: []notionapi.RichText{plain(item.Description)}},
		names.Meeting: notionapi.RelationProperty{Relation: []notionapi.Relation{{ID: notionapi.PageID(pageID)}}},
	}
	if item.Owner != "" {
		props[names.Owner] = notionapi.RichTextProperty{RichText: []notionapi.RichText{plain(item.Owner)}}
	}
	if item.Due != "" {
		props[names.Due] = notionapi.RichTextProperty{RichText: []notionapi.RichText{plain(item.Due)}}
	}
	if names.StatusValue != "" {
		props[names.Status] = notionapi.SelectProperty{Select: notionapi.Option{Name: names.StatusValue}}
	}
	return props
}

func (p *implPublisher) Check(ctx context.Context) (*Health, error) {
	user, err := p.users.Me(ctx)
	if err != nil {
		return nil, fmt.Errorf("notion users.me: %w", err)
	}
	h := &Health{User: user.Name}

	if h.Database, err = p.databaseTitle(ctx, p.cfg.DatabaseID); err != nil {
		return h, err
	}
	if h.TaskDatabase, err = p.databaseTitle(ctx, p.cfg.TaskDatabaseID); err != nil {
		return h, err
	}
	return h, nil
}

func (p *implPublisher) databaseTitle(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", nil
	}
	db, err := p.databases.Get(ctx, notionapi.DatabaseID(id))
	if err != nil {
		return "", fmt.Errorf("notion database %s: %w", id, err)
	}

	var parts []string
	for _, rt := range db.Title {
		parts = append(parts, rt.PlainText)
	}
	title := strings.TrimSpace(strings.Join(parts, ""))
	if title == "" {
		title = "Untitled"
	}
	return title, nil
}

func countBlocks(batches [][]notionapi.Block) int {
	n := 0
	for _, b := range batches {
		n += len(b)
	}
	return n
}
