// Package output renders command results for humans.
package output

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/archiver"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
)

type Formatter struct {
	w io.Writer
}

func NewFormatter(w io.Writer) *Formatter {
	return &Formatter{w: w}
}

func (f *Formatter) Error(msg string) {
	fmt.Fprintf(f.w, "❌ %s\n", msg)
}

func (f *Formatter) Info(msg string) {
	fmt.Fprintf(f.w, "ℹ️  %s\n", msg)
}

func (f *Formatter) Success(msg string) {
	fmt.Fprintf(f.w, "✅ %s\n", msg)
}

func (f *Formatter) Warning(msg string) {
	fmt.Fprintf(f.w, "⚠️  %s\n", msg)
}

func (f *Formatter) SetupCheck(name string, ok bool, detail string) {
	if ok {
		fmt.Fprintf(f.w, "  ✅ %s: %s\n", name, detail)
	} else {
		fmt.Fprintf(f.w, "  ❌ %s: %s\n", name, detail)
	}
}

func (f *Formatter) TranscribeDone(rec *meeting.TranscriptRecord, path string) {
	fmt.Fprintf(f.w, "✅ Transcript saved: %s\n", path)
	fmt.Fprintf(f.w, "   Language: %s | Duration: %s | Segments: %d\n",
		orUnknown(rec.Language), formatDuration(rec.Duration), len(rec.Segments))
}

// PipelineRun prints what a run produced, including a partial run that failed.
func (f *Formatter) PipelineRun(run *meeting.PipelineRun) {
	if run == nil {
		return
	}
	fmt.Fprintf(f.w, "\n🎙️  %s\n", filepath.Base(run.AudioPath))
	if run.Classification != nil {
		c := run.Classification
		if c.Overridden {
			fmt.Fprintf(f.w, "   Type: %s (override)\n", c.Type.Label())
		} else {
			fmt.Fprintf(f.w, "   Type: %s (confidence %.0f%%)\n", c.Type.Label(), c.Confidence*100)
		}
	}
	if run.TranscriptFile != "" {
		fmt.Fprintf(f.w, "   📝 Transcript: %s\n", run.TranscriptFile)
	}
	if run.SummaryFile != "" {
		fmt.Fprintf(f.w, "   🤖 Summary: %s\n", run.SummaryFile)
	}
	if run.DocxFile != "" {
		fmt.Fprintf(f.w, "   📄 Document: %s\n", run.DocxFile)
	}
	if run.Summary != nil && len(run.Summary.ActionItems) > 0 {
		fmt.Fprintf(f.w, "   Action items: %d\n", len(run.Summary.ActionItems))
	}
	if run.Publication != nil {
		fmt.Fprintf(f.w, "   🔗 Notion: %s (%d tasks)\n", run.Publication.PageURL, len(run.Publication.TaskIDs))
	}
	if run.ArchivedAudio != "" {
		fmt.Fprintf(f.w, "   📁 Audio moved: %s\n", run.ArchivedAudio)
	}
}

func (f *Formatter) BatchSummary(total, failed int) {
	if failed == 0 {
		f.Success(fmt.Sprintf("Processed %d files", total))
		return
	}
	f.Warning(fmt.Sprintf("Processed %d files, %d failed", total, failed))
}

func (f *Formatter) ArchiveStats(s archiver.Stats) {
	fmt.Fprintf(f.w, "📊 Archive statistics:\n\n")
	fmt.Fprintf(f.w, "  %-16s %8s %10s\n", "CATEGORY", "ACTIVE", "ARCHIVED")
	var active, archived int
	for _, c := range archiver.Categories {
		fmt.Fprintf(f.w, "  %-16s %8d %10d\n", c, s.Active[c], s.Archived[c])
		active += s.Active[c]
		archived += s.Archived[c]
	}
	fmt.Fprintf(f.w, "  %-16s %8d %10d\n", "total", active, archived)
}

func (f *Formatter) DuplicateGroups(groups []archiver.DuplicateGroup) {
	if len(groups) == 0 {
		f.Success("No duplicates found")
		return
	}
	fmt.Fprintf(f.w, "🔁 Duplicates:\n")
	for _, g := range groups {
		latest := archiver.Latest(g.Entries)
		fmt.Fprintf(f.w, "\n  %s%s (%s, %d files)\n", g.Base, g.Ext, g.Category, len(g.Entries))
		for _, e := range g.Entries {
			mark := " "
			if e.Path == latest.Path {
				mark = "*"
			}
			fmt.Fprintf(f.w, "   %s %s\n", mark, e.Name)
		}
	}
}

// ArchiveResult prints the moves of an executed or dry-run plan.
func (f *Formatter) ArchiveResult(res archiver.Result) {
	if len(res.Moved) == 0 && len(res.Failed) == 0 {
		f.Info("Nothing to archive")
		return
	}

	verb := "Archived"
	if res.DryRun {
		verb = "Would archive"
		fmt.Fprintf(f.w, "🔍 Dry run, no files changed\n")
	}

	byCat := make(map[archiver.Category][]archiver.Move)
	for _, m := range res.Moved {
		byCat[m.Entry.Category] = append(byCat[m.Entry.Category], m)
	}
	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, string(c))
	}
	sort.Strings(cats)

	for _, c := range cats {
		fmt.Fprintf(f.w, "\n  %s:\n", c)
		for _, m := range byCat[archiver.Category(c)] {
			fmt.Fprintf(f.w, "    %s -> %s (%s)\n", m.Entry.Name, m.Target, m.Reason)
		}
	}
	for _, m := range res.Failed {
		fmt.Fprintf(f.w, "  ❌ %s\n", m.Entry.Path)
	}

	fmt.Fprintf(f.w, "\n")
	f.Success(fmt.Sprintf("%s %d files", verb, len(res.Moved)))
	if res.PrunedDirs > 0 {
		f.Info(fmt.Sprintf("Removed %d empty directories", res.PrunedDirs))
	}
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
