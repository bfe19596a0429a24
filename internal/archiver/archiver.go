package archiver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
)

// Stats counts active and archived files per category.
type Stats struct {
	Active   map[Category]int
	Archived map[Category]int
}

// Result reports what Execute did, or would do on a dry run.
type Result struct {
	DryRun     bool
	Moved      []Move
	Failed     []Move
	PrunedDirs int
}

func (a *implArchiver) sourceDir(cat Category) string {
	switch cat {
	case CategoryTranscriptions:
		return a.dirs.Transcriptions
	case CategorySummaries:
		return a.dirs.Summaries
	case CategoryAudio:
		return a.dirs.Processed
	}
	return ""
}

// scan lists the non-hidden regular files of each category's active directory.
// Missing directories are empty.
func (a *implArchiver) scan(cats ...Category) ([]Entry, error) {
	var entries []Entry
	for _, cat := range cats {
		dir := a.sourceDir(cat)
		if dir == "" {
			continue
		}

		items, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", errdefs.ErrArchiveIO, dir, err)
		}

		for _, item := range items {
			if item.IsDir() || strings.HasPrefix(item.Name(), ".") {
				continue
			}
			info, err := item.Info()
			if err != nil {
				continue
			}
			entries = append(entries, NewEntry(filepath.Join(dir, item.Name()), cat, info.ModTime()))
		}
	}
	return entries, nil
}

func (a *implArchiver) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		Active:   make(map[Category]int),
		Archived: make(map[Category]int),
	}

	entries, err := a.scan(Categories...)
	if err != nil {
		return stats, err
	}
	for _, e := range entries {
		stats.Active[e.Category]++
	}

	for _, cat := range Categories {
		root := filepath.Join(a.dirs.Archive, string(cat))
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && !strings.HasPrefix(d.Name(), ".") {
				stats.Archived[cat]++
			}
			return nil
		})
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return stats, fmt.Errorf("%w: walk %s: %v", errdefs.ErrArchiveIO, root, err)
		}
	}

	a.logger.Debug(ctx, "Archive stats: active=%v archived=%v", stats.Active, stats.Archived)
	return stats, nil
}

func (a *implArchiver) ListDuplicates(ctx context.Context) ([]DuplicateGroup, error) {
	entries, err := a.scan(Categories...)
	if err != nil {
		return nil, err
	}
	return GroupDuplicates(entries), nil
}

func (a *implArchiver) PlanDuplicates(ctx context.Context) (Plan, error) {
	groups, err := a.ListDuplicates(ctx)
	if err != nil {
		return Plan{}, err
	}
	return PlanDuplicateMoves(groups, a.dirs.Archive), nil
}

func (a *implArchiver) PlanOld(ctx context.Context, days int) (Plan, error) {
	entries, err := a.scan(CategoryTranscriptions, CategorySummaries)
	if err != nil {
		return Plan{}, err
	}
	return PlanOlderThan(entries, a.dirs.Archive, a.now(), days, CategoryTranscriptions, CategorySummaries), nil
}

func (a *implArchiver) PlanAudio(ctx context.Context, days int) (Plan, error) {
	entries, err := a.scan(CategoryAudio)
	if err != nil {
		return Plan{}, err
	}
	return PlanOlderThan(entries, a.dirs.Archive, a.now(), days, CategoryAudio), nil
}

func (a *implArchiver) Execute(ctx context.Context, plan Plan, dryRun bool) (Result, error) {
	res := Result{DryRun: dryRun}

	if dryRun {
		for _, m := range plan.Moves {
			a.logger.Info(ctx, "[dry-run] would move %s -> %s (%s)", m.Entry.Path, m.Target, m.Reason)
		}
		res.Moved = append(res.Moved, plan.Moves...)
		return res, nil
	}

	var errs []error
	for _, m := range plan.Moves {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if err := MoveFile(m.Entry.Path, m.Target); err != nil {
			a.logger.Error(ctx, "Failed to archive %s: %v", m.Entry.Path, err)
			res.Failed = append(res.Failed, m)
			errs = append(errs, fmt.Errorf("%w: %s: %v", errdefs.ErrArchiveIO, m.Entry.Path, err))
			continue
		}
		a.logger.Info(ctx, "Archived %s -> %s", m.Entry.Path, m.Target)
		res.Moved = append(res.Moved, m)
	}

	pruned, err := removeEmptyDirs(a.dirs.Archive)
	if err != nil {
		a.logger.Warn(ctx, "Failed to prune empty archive folders: %v", err)
	}
	res.PrunedDirs = pruned

	return res, errors.Join(errs...)
}

// MoveFile renames src to dst, creating dst's folder and refusing to replace
// an existing file. Cross-device moves fall back to copy and remove.
func MoveFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("create folder: %w", err)
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("target already exists: %s", dst)
	}

	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	if err := copyFile(src, dst); err != nil {
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

// removeEmptyDirs deletes empty folders below root, deepest first. root
// itself is kept.
func removeEmptyDirs(root string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != root {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	sort.Slice(dirs, func(i, j int) bool { return len(dirs[i]) > len(dirs[j]) })
	for _, dir := range dirs {
		items, err := os.ReadDir(dir)
		if err != nil || len(items) > 0 {
			continue
		}
		if err := os.Remove(dir); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
