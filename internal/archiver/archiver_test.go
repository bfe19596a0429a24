package archiver

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
)

var (
	jan1 = time.Date(2025, 1, 1, 9, 0, 0, 0, time.Local)
	jan2 = time.Date(2025, 1, 2, 9, 0, 0, 0, time.Local)
)

type fixture struct {
	dirs Dirs
	arch *implArchiver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	dirs := Dirs{
		Transcriptions: filepath.Join(root, "transcriptions"),
		Summaries:      filepath.Join(root, "summaries"),
		Processed:      filepath.Join(root, "processed"),
		Archive:        filepath.Join(root, "archive"),
	}
	for _, d := range []string{dirs.Transcriptions, dirs.Summaries, dirs.Processed} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	a := New(dirs, logger.NewWithWriter("error", logger.FormatText, io.Discard)).(*implArchiver)
	a.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.Local) }
	return &fixture{dirs: dirs, arch: a}
}

func (f *fixture) write(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGroupDuplicates(t *testing.T) {
	entries := []Entry{
		NewEntry("s/A_summary_20250102_0000.txt", CategorySummaries, jan2),
		NewEntry("s/A_summary_20250101_0000.txt", CategorySummaries, jan1),
		NewEntry("s/B_summary_20250101_0000.txt", CategorySummaries, jan1),
		NewEntry("t/A_transcription_20250101_0000.txt", CategoryTranscriptions, jan1),
	}

	groups := GroupDuplicates(entries)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1: %+v", len(groups), groups)
	}
	g := groups[0]
	if g.Base != "A" || g.Category != CategorySummaries || len(g.Entries) != 2 {
		t.Fatalf("group = %+v", g)
	}
	if g.Entries[0].Name != "A_summary_20250101_0000.txt" {
		t.Errorf("members not sorted by name: %s first", g.Entries[0].Name)
	}

	plan := PlanDuplicateMoves(groups, "archive")
	if len(plan.Moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(plan.Moves))
	}
	m := plan.Moves[0]
	if m.Entry.Name != "A_summary_20250101_0000.txt" {
		t.Errorf("moved %s, want the older file", m.Entry.Name)
	}
	want := filepath.Join("archive", "summaries", "2025-01", "A_summary_20250101_0000.txt")
	if m.Target != want {
		t.Errorf("Target = %s, want %s", m.Target, want)
	}
}

func TestLatest(t *testing.T) {
	tests := []struct {
		name    string
		members []Entry
		want    string
	}{
		{
			name: "stamp wins over mtime",
			members: []Entry{
				NewEntry("x_summary_20250102_0900.txt", CategorySummaries, jan1),
				NewEntry("x_summary_20250101_0900.txt", CategorySummaries, jan2),
			},
			want: "x_summary_20250102_0900.txt",
		},
		{
			name: "short and long stamps compare as equal precision",
			members: []Entry{
				NewEntry("x_summary_20250101_093000.txt", CategorySummaries, jan1),
				NewEntry("x_summary_20250101_0931.txt", CategorySummaries, jan1),
			},
			want: "x_summary_20250101_0931.txt",
		},
		{
			name: "mtime breaks stamp ties",
			members: []Entry{
				NewEntry("x.txt", CategorySummaries, jan2),
				NewEntry("x.md", CategorySummaries, jan1),
			},
			want: "x.txt",
		},
		{
			name: "name breaks full ties",
			members: []Entry{
				NewEntry("a/x.txt", CategorySummaries, jan1),
				NewEntry("a/x.md", CategorySummaries, jan1),
			},
			want: "x.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Latest(tt.members).Name; got != tt.want {
				t.Errorf("Latest() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestPlanOlderThan(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local)
	entries := []Entry{
		NewEntry("s/old_summary_20250101_0000.txt", CategorySummaries, now.AddDate(0, 0, -40)),
		NewEntry("s/new_summary_20250225_0000.txt", CategorySummaries, now.AddDate(0, 0, -4)),
		NewEntry("p/old_processed_20250101.m4a", CategoryAudio, now.AddDate(0, 0, -40)),
	}

	plan := PlanOlderThan(entries, "archive", now, 30, CategorySummaries, CategoryTranscriptions)
	if len(plan.Moves) != 1 || plan.Moves[0].Entry.Base != "old" || plan.Moves[0].Entry.Category != CategorySummaries {
		t.Fatalf("plan = %+v", plan.Moves)
	}

	plan = PlanOlderThan(entries, "archive", now, 30, CategoryAudio)
	if len(plan.Moves) != 1 || plan.Moves[0].Entry.Category != CategoryAudio {
		t.Fatalf("audio plan = %+v", plan.Moves)
	}
	if plan.Moves[0].Reason != "older than 30 days" {
		t.Errorf("Reason = %q", plan.Moves[0].Reason)
	}
}

func TestExecuteDryRun(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	older := f.write(t, f.dirs.Summaries, "A_summary_20250101_0000.txt", jan1)
	newer := f.write(t, f.dirs.Summaries, "A_summary_20250102_0000.txt", jan2)

	plan, err := f.arch.PlanDuplicates(ctx)
	if err != nil {
		t.Fatalf("PlanDuplicates() error = %v", err)
	}

	dry, err := f.arch.Execute(ctx, plan, true)
	if err != nil {
		t.Fatalf("Execute(dry) error = %v", err)
	}
	if !dry.DryRun || len(dry.Moved) != 1 || dry.Moved[0].Entry.Path != older {
		t.Fatalf("dry result = %+v", dry)
	}
	for _, p := range []string{older, newer} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("dry run touched %s: %v", p, err)
		}
	}
	if _, err := os.Stat(f.dirs.Archive); !os.IsNotExist(err) {
		t.Error("dry run created the archive root")
	}

	res, err := f.arch.Execute(ctx, plan, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Moved) != len(dry.Moved) || res.Moved[0].Target != dry.Moved[0].Target {
		t.Errorf("real moves %+v differ from dry run %+v", res.Moved, dry.Moved)
	}
	if _, err := os.Stat(older); !os.IsNotExist(err) {
		t.Error("older duplicate still active")
	}
	if _, err := os.Stat(newer); err != nil {
		t.Error("newest duplicate was moved")
	}
	if _, err := os.Stat(filepath.Join(f.dirs.Archive, "summaries", "2025-01", "A_summary_20250101_0000.txt")); err != nil {
		t.Errorf("archived file missing: %v", err)
	}
}

func TestDocxSiblingIsNotDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	feb20 := time.Date(2025, 2, 20, 10, 0, 0, 0, time.Local)
	txt := f.write(t, f.dirs.Summaries, "standup_summary_20250220_100000.txt", feb20)
	f.write(t, f.dirs.Summaries, "standup_summary_20250220_100000.docx", feb20.Add(time.Second))

	groups, err := f.arch.ListDuplicates(ctx)
	if err != nil {
		t.Fatalf("ListDuplicates() error = %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("got %d groups, want none: %+v", len(groups), groups)
	}

	plan, err := f.arch.PlanDuplicates(ctx)
	if err != nil {
		t.Fatalf("PlanDuplicates() error = %v", err)
	}
	if len(plan.Moves) != 0 {
		t.Fatalf("planned %+v, want no moves", plan.Moves)
	}
	if _, err := os.Stat(txt); err != nil {
		t.Errorf("text summary should stay: %v", err)
	}
}

func TestDocxDuplicatesGroupPerExtension(t *testing.T) {
	entries := []Entry{
		NewEntry("s/A_summary_20250101_0000.txt", CategorySummaries, jan1),
		NewEntry("s/A_summary_20250101_0000.docx", CategorySummaries, jan1),
		NewEntry("s/A_summary_20250102_0000.txt", CategorySummaries, jan2),
		NewEntry("s/A_summary_20250102_0000.DOCX", CategorySummaries, jan2),
	}

	groups := GroupDuplicates(entries)
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}
	if groups[0].Ext != ".docx" || groups[1].Ext != ".txt" {
		t.Errorf("group extensions = %s, %s", groups[0].Ext, groups[1].Ext)
	}

	plan := PlanDuplicateMoves(groups, "archive")
	if len(plan.Moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(plan.Moves))
	}
	for _, m := range plan.Moves {
		if m.Entry.Stamp != "20250101_0000" {
			t.Errorf("archived %s, want only the older pair", m.Entry.Name)
		}
	}
}

func TestExecuteNeverOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	old := time.Date(2024, 11, 5, 0, 0, 0, 0, time.Local)
	clash := f.write(t, f.dirs.Transcriptions, "a_transcription_20241105_0000.txt", old)
	ok := f.write(t, f.dirs.Transcriptions, "b_transcription_20241105_0000.txt", old)

	existing := filepath.Join(f.dirs.Archive, "transcriptions", "2024-11", "a_transcription_20241105_0000.txt")
	if err := os.MkdirAll(filepath.Dir(existing), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(existing, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	plan, err := f.arch.PlanOld(ctx, 30)
	if err != nil {
		t.Fatalf("PlanOld() error = %v", err)
	}
	if len(plan.Moves) != 2 {
		t.Fatalf("got %d moves, want 2", len(plan.Moves))
	}

	res, err := f.arch.Execute(ctx, plan, false)
	if !errors.Is(err, errdefs.ErrArchiveIO) {
		t.Fatalf("Execute() error = %v, want archive io", err)
	}
	if len(res.Failed) != 1 || res.Failed[0].Entry.Path != clash {
		t.Errorf("Failed = %+v", res.Failed)
	}
	if len(res.Moved) != 1 || res.Moved[0].Entry.Path != ok {
		t.Errorf("Moved = %+v", res.Moved)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "keep me" {
		t.Error("existing archive file was overwritten")
	}
	if _, err := os.Stat(clash); err != nil {
		t.Error("failed source should stay in place")
	}
}

func TestExecutePrunesEmptyDirs(t *testing.T) {
	f := newFixture(t)
	empty := filepath.Join(f.dirs.Archive, "summaries", "2023-01")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatal(err)
	}

	res, err := f.arch.Execute(context.Background(), Plan{}, false)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.PrunedDirs != 2 {
		t.Errorf("PrunedDirs = %d, want 2", res.PrunedDirs)
	}
	if _, err := os.Stat(f.dirs.Archive); err != nil {
		t.Error("archive root should be kept")
	}
}

func TestStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.write(t, f.dirs.Transcriptions, "a_transcription_20250101_0000.txt", jan1)
	f.write(t, f.dirs.Transcriptions, ".DS_Store", jan1)
	f.write(t, f.dirs.Summaries, "a_summary_20250101_0000.txt", jan1)
	f.write(t, f.dirs.Processed, "a_processed_20250101.m4a", jan1)

	archived := filepath.Join(f.dirs.Archive, "summaries", "2024-12")
	if err := os.MkdirAll(archived, 0755); err != nil {
		t.Fatal(err)
	}
	f.write(t, archived, "z_summary_20241201_0000.txt", jan1)

	stats, err := f.arch.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.Active[CategoryTranscriptions] != 1 || stats.Active[CategorySummaries] != 1 || stats.Active[CategoryAudio] != 1 {
		t.Errorf("Active = %v", stats.Active)
	}
	if stats.Archived[CategorySummaries] != 1 || stats.Archived[CategoryTranscriptions] != 0 {
		t.Errorf("Archived = %v", stats.Archived)
	}
}

func TestPlanAudio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.write(t, f.dirs.Processed, "old_processed_20241201.m4a", time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local))
	f.write(t, f.dirs.Processed, "new_processed_20250228.m4a", time.Date(2025, 2, 28, 0, 0, 0, 0, time.Local))
	f.write(t, f.dirs.Summaries, "old_summary_20241201_0000.txt", time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local))

	plan, err := f.arch.PlanAudio(ctx, 30)
	if err != nil {
		t.Fatalf("PlanAudio() error = %v", err)
	}
	if len(plan.Moves) != 1 {
		t.Fatalf("got %d moves, want 1", len(plan.Moves))
	}
	want := filepath.Join(f.dirs.Archive, "audio", "2024-12", "old_processed_20241201.m4a")
	if plan.Moves[0].Target != want {
		t.Errorf("Target = %s, want %s", plan.Moves[0].Target, want)
	}
}
