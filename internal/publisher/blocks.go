package publisher

import (
	"regexp"
	"strings"
	"time"

	"github.com/jomei/notionapi"
)

const (
	// maxRichText is Notion's per rich text object content limit.
	maxRichText = 2000
	// maxBlocksPerRequest is Notion's children limit for one create or append.
	maxBlocksPerRequest = 100
	footerSource        = "Whisper + LLM + Notion Pipeline"
)

var (
	reBoldSpan = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reToDo     = regexp.MustCompile(`^[\-\*]\s+\[( |x|X)\]\s+(.*)$`)
)

// BuildBlocks maps summary markdown to Notion blocks: "## " headings become
// heading_2, "- [ ]" lines to_do, "- " lines bulleted_list_item and runs of
// other lines one paragraph. A divider and a generated-at footer close the page.
func BuildBlocks(markdown string, generated time.Time) []notionapi.Block {
	var (
		blocks    []notionapi.Block
		paragraph []string
	)

	flush := func() {
		if len(paragraph) == 0 {
			return
		}
		blocks = append(blocks, paragraphBlock(richText(strings.Join(paragraph, "\n"))))
		paragraph = nil
	}

	for _, line := range strings.Split(markdown, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "## "):
			flush()
			blocks = append(blocks, &notionapi.Heading2Block{
				BasicBlock: basic(notionapi.BlockTypeHeading2),
				Heading2:   notionapi.Heading{RichText: richText(strings.TrimSpace(line[3:]))},
			})
		case reToDo.MatchString(line):
			flush()
			m := reToDo.FindStringSubmatch(line)
			blocks = append(blocks, &notionapi.ToDoBlock{
				BasicBlock: basic(notionapi.BlockTypeToDo),
				ToDo: notionapi.ToDo{
					RichText: richText(m[2]),
					Checked:  strings.EqualFold(m[1], "x"),
				},
			})
		case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "):
			flush()
			blocks = append(blocks, &notionapi.BulletedListItemBlock{
				BasicBlock:       basic(notionapi.BlockTypeBulletedListItem),
				BulletedListItem: notionapi.ListItem{RichText: richText(line[2:])},
			})
		default:
			paragraph = append(paragraph, line)
		}
	}
	flush()

	blocks = append(blocks,
		&notionapi.DividerBlock{BasicBlock: basic(notionapi.BlockTypeDivider), Divider: notionapi.Divider{}},
		paragraphBlock([]notionapi.RichText{
			plain("Generated: " + generated.Format("2006-01-02 15:04:05") + " | "),
			plain(footerSource),
		}),
	)
	return blocks
}

// chunkBlocks splits blocks into request-sized batches.
func chunkBlocks(blocks []notionapi.Block) [][]notionapi.Block {
	var out [][]notionapi.Block
	for len(blocks) > maxBlocksPerRequest {
		out = append(out, blocks[:maxBlocksPerRequest])
		blocks = blocks[maxBlocksPerRequest:]
	}
	if len(blocks) > 0 {
		out = append(out, blocks)
	}
	return out
}

func basic(t notionapi.BlockType) notionapi.BasicBlock {
	return notionapi.BasicBlock{Object: notionapi.ObjectTypeBlock, Type: t}
}

func paragraphBlock(rt []notionapi.RichText) notionapi.Block {
	return &notionapi.ParagraphBlock{
		BasicBlock: basic(notionapi.BlockTypeParagraph),
		Paragraph:  notionapi.Paragraph{RichText: rt},
	}
}

// richText converts inline markdown to rich text. "**bold**" spans are
// annotated and every piece is split at the Notion content limit.
func richText(s string) []notionapi.RichText {
	var out []notionapi.RichText

	last := 0
	for _, loc := range reBoldSpan.FindAllStringSubmatchIndex(s, -1) {
		out = append(out, splitText(s[last:loc[0]], false)...)
		out = append(out, splitText(s[loc[2]:loc[3]], true)...)
		last = loc[1]
	}
	out = append(out, splitText(s[last:], false)...)

	if len(out) == 0 {
		out = append(out, plain(""))
	}
	return out
}

func splitText(s string, bold bool) []notionapi.RichText {
	if s == "" {
		return nil
	}

	var out []notionapi.RichText
	runes := []rune(s)
	for len(runes) > 0 {
		n := len(runes)
		if n > maxRichText {
			n = maxRichText
		}
		rt := plain(string(runes[:n]))
		if bold {
			rt.Annotations = &notionapi.Annotations{Bold: true}
		}
		out = append(out, rt)
		runes = runes[n:]
	}
	return out
}

func plain(s string) notionapi.RichText {
	return notionapi.RichText{
		Type: notionapi.ObjectTypeText,
		Text: &notionapi.Text{Content: s},
	}
}
