package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

type fakeNotion struct {
	creates   []*notionapi.PageCreateRequest
	appends   [][]notionapi.Block
	appendIDs []notionapi.BlockID
	createErr error
	failAt    int
}

func (f *fakeNotion) Create(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	f.creates = append(f.creates, req)
	if f.createErr != nil && len(f.creates) == f.failAt {
		return nil, f.createErr
	}
	id := notionapi.ObjectID(fmt.Sprintf("page-%d", len(f.creates)))
	return &notionapi.Page{ID: id, URL: "https://notion.so/" + string(id)}, nil
}

func (f *fakeNotion) AppendChildren(ctx context.Context, id notionapi.BlockID, req *notionapi.AppendBlockChildrenRequest) (*notionapi.AppendBlockChildrenResponse, error) {
	f.appendIDs = append(f.appendIDs, id)
	f.appends = append(f.appends, req.Children)
	return &notionapi.AppendBlockChildrenResponse{}, nil
}

func (f *fakeNotion) Me(ctx context.Context) (*notionapi.User, error) {
	return &notionapi.User{Name: "Pipeline Bot"}, nil
}

func (f *fakeNotion) Get(ctx context.Context, id notionapi.DatabaseID) (*notionapi.Database, error) {
	if id == "missing" {
		return nil, errors.New("object_not_found")
	}
	return &notionapi.Database{Title: []notionapi.RichText{{PlainText: "Meetings " + string(id)}}}, nil
}

func newTestPublisher(f *fakeNotion) *implPublisher {
	cfg := config.Default().Notion
	cfg.DatabaseID = "db"
	cfg.TaskDatabaseID = "tasks"
	return &implPublisher{
		cfg:       cfg,
		pages:     f,
		blocks:    f,
		users:     f,
		databases: f,
		logger:    logger.NewWithWriter("error", logger.FormatText, io.Discard),
	}
}

func blockTypes(blocks []notionapi.Block) []notionapi.BlockType {
	out := make([]notionapi.BlockType, len(blocks))
	for i, b := range blocks {
		out[i] = b.GetType()
	}
	return out
}

func TestBuildBlocks(t *testing.T) {
	md := "## Team Updates\n- **Wins:** shipped\nSome prose\nmore prose\n\n## Action Items\n- [ ] Fix build - Owner: Sam\n- [x] Done thing"
	blocks := BuildBlocks(md, time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local))

	want := []notionapi.BlockType{
		notionapi.BlockTypeHeading2,
		notionapi.BlockTypeBulletedListItem,
		notionapi.BlockTypeParagraph,
		notionapi.BlockTypeHeading2,
		notionapi.BlockTypeToDo,
		notionapi.BlockTypeToDo,
		notionapi.BlockTypeDivider,
		notionapi.BlockTypeParagraph,
	}
	got := blockTypes(blocks)
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("block types = %v, want %v", got, want)
	}

	para := blocks[2].(*notionapi.ParagraphBlock)
	if para.Paragraph.RichText[0].Text.Content != "Some prose\nmore prose" {
		t.Errorf("paragraph = %q", para.Paragraph.RichText[0].Text.Content)
	}

	bullet := blocks[1].(*notionapi.BulletedListItemBlock)
	rt := bullet.BulletedListItem.RichText
	if len(rt) != 2 || rt[0].Text.Content != "Wins:" || rt[0].Annotations == nil || !rt[0].Annotations.Bold || rt[1].Text.Content != " shipped" {
		t.Errorf("bold rich text = %+v", rt)
	}

	if blocks[4].(*notionapi.ToDoBlock).ToDo.Checked || !blocks[5].(*notionapi.ToDoBlock).ToDo.Checked {
		t.Error("to_do checked state mismatch")
	}

	footer := blocks[7].(*notionapi.ParagraphBlock).Paragraph.RichText
	if footer[0].Text.Content != "Generated: 2025-03-04 10:00:00 | " {
		t.Errorf("footer = %q", footer[0].Text.Content)
	}
}

func TestRichTextChunking(t *testing.T) {
	long := strings.Repeat("x", maxRichText*2+10)
	rt := richText(long)
	if len(rt) != 3 {
		t.Fatalf("got %d chunks, want 3", len(rt))
	}
	if len([]rune(rt[0].Text.Content)) != maxRichText || len(rt[2].Text.Content) != 10 {
		t.Error("chunks not split at the limit")
	}
	if len(richText("")) != 1 {
		t.Error("empty text should still yield one rich text")
	}
}

func TestPublish(t *testing.T) {
	f := &fakeNotion{}
	p := newTestPublisher(f)

	sum := &meeting.SummaryRecord{
		MeetingType: meeting.Team,
		Markdown:    "## Action Items\n- [ ] Fix build - Owner: Sam - Due: Friday\n- [ ] Book room",
		ActionItems: []meeting.ActionItem{
			{Description: "Fix build", Owner: "Sam", Due: "Friday"},
			{Description: "Book room"},
		},
		GeneratedAt: time.Date(2025, 3, 4, 10, 0, 0, 0, time.Local),
	}

	pub, err := p.Publish(context.Background(), Request{AudioPath: "audio_input/2025-08-04-anna-weekly-1-2-1.m4a", Summary: sum})
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if pub.PageID != "page-1" || pub.PageURL != "https://notion.so/page-1" {
		t.Errorf("publication = %+v", pub)
	}
	if len(pub.TaskIDs) != 2 || pub.TaskIDs[0] != "page-2" {
		t.Errorf("TaskIDs = %v", pub.TaskIDs)
	}
	if len(f.creates) != 3 || len(f.appends) != 0 {
		t.Fatalf("creates=%d appends=%d", len(f.creates), len(f.appends))
	}

	page := f.creates[0]
	if page.Parent.DatabaseID != "db" {
		t.Errorf("page parent = %+v", page.Parent)
	}
	title := page.Properties["Name"].(notionapi.TitleProperty).Title[0].Text.Content
	if title != "Anna Weekly 1:2:1" {
		t.Errorf("title = %q", title)
	}
	if got := page.Properties["Type"].(notionapi.SelectProperty).Select.Name; got != "Team Meeting" {
		t.Errorf("type = %q", got)
	}
	if got := page.Properties["Status"].(notionapi.SelectProperty).Select.Name; got != "Processed" {
		t.Errorf("status = %q", got)
	}

	task := f.creates[1]
	if task.Parent.DatabaseID != "tasks" {
		t.Errorf("task parent = %+v", task.Parent)
	}
	rel := task.Properties["Meeting"].(notionapi.RelationProperty).Relation
	if len(rel) != 1 || rel[0].ID != "page-1" {
		t.Errorf("relation = %+v", rel)
	}
	if got := task.Properties["Owner"].(notionapi.RichTextProperty).RichText[0].Text.Content; got != "Sam" {
		t.Errorf("owner = %q", got)
	}
	if _, ok := f.creates[2].Properties["Owner"]; ok {
		t.Error("task without owner should not set the property")
	}
}

func TestPublishAppendsOverflow(t *testing.T) {
	f := &fakeNotion{}
	p := newTestPublisher(f)

	var lines []string
	for i := 0; i < 150; i++ {
		lines = append(lines, fmt.Sprintf("- point %d", i))
	}
	sum := &meeting.SummaryRecord{MeetingType: meeting.Default, Markdown: strings.Join(lines, "\n"), GeneratedAt: time.Now()}

	if _, err := p.Publish(context.Background(), Request{AudioPath: "x.m4a", Summary: sum}); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	if len(f.creates[0].Children) != maxBlocksPerRequest {
		t.Errorf("page created with %d blocks, want %d", len(f.creates[0].Children), maxBlocksPerRequest)
	}
	if len(f.appends) != 1 || len(f.appends[0]) != 52 {
		t.Fatalf("appends = %d batches", len(f.appends))
	}
	if f.appendIDs[0] != "page-1" {
		t.Errorf("appended to %s", f.appendIDs[0])
	}
}

func TestPublishErrors(t *testing.T) {
	sum := &meeting.SummaryRecord{
		MeetingType: meeting.Team,
		Markdown:    "## x",
		ActionItems: []meeting.ActionItem{{Description: "a"}},
		GeneratedAt: time.Now(),
	}

	f := &fakeNotion{createErr: errors.New("validation_error"), failAt: 1}
	if _, err := newTestPublisher(f).Publish(context.Background(), Request{AudioPath: "x.m4a", Summary: sum}); err == nil {
		t.Error("page create failure should fail publish")
	}

	f = &fakeNotion{createErr: errors.New("validation_error"), failAt: 2}
	pub, err := newTestPublisher(f).Publish(context.Background(), Request{AudioPath: "x.m4a", Summary: sum})
	if err == nil || !strings.Contains(err.Error(), `create task "a"`) {
		t.Errorf("error = %v", err)
	}
	if pub == nil || pub.PageID != "page-1" {
		t.Error("partial publication should carry the created page")
	}
}

func TestCheck(t *testing.T) {
	f := &fakeNotion{}
	p := newTestPublisher(f)

	h, err := p.Check(context.Background())
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if h.User != "Pipeline Bot" || h.Database != "Meetings db" || h.TaskDatabase != "Meetings tasks" {
		t.Errorf("health = %+v", h)
	}

	p.cfg.TaskDatabaseID = "missing"
	if _, err := p.Check(context.Background()); err == nil {
		t.Error("missing database should fail")
	}
}

func TestGenerateTitle(t *testing.T) {
	tests := map[string]string{
		"2025-08-04-anna-weekly-1-2-1": "Anna Weekly 1:2:1",
		"2025-08-04-bob-monthly":       "Bob Monthly",
		"2025-08-04-carol":             "Carol Meeting",
		"standup":                      "Standup",
		"team_sync-notes":              "Team Sync Notes",
		"2025-08-04":                   "2025 08 04",
	}
	for stem, want := range tests {
		if got := GenerateTitle(stem); got != want {
			t.Errorf("GenerateTitle(%q) = %q, want %q", stem, got, want)
		}
	}
}
