package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/meeting-flow/internal/archiver"
	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
	"github.com/nguyentantai21042004/meeting-flow/internal/notes"
)

// archiveAudio moves a processed input file to
// processed/{stem}_processed_{YYYYMMDD}{ext}. Files outside the input folder
// are left where they are.
func (p *implProcessor) archiveAudio(ctx context.Context, run *meeting.PipelineRun) error {
	if !p.cfg.ArchiveProcessed() || run.Options.NoArchive {
		p.logger.Debug(ctx, "Audio archiving disabled, keeping %s", run.AudioPath)
		return nil
	}

	if _, err := os.Stat(run.AudioPath); err != nil {
		p.logger.Debug(ctx, "Audio file %s not present, nothing to archive", run.AudioPath)
		return nil
	}

	inside, err := isWithin(p.cfg.Paths.Input, run.AudioPath)
	if err != nil || !inside {
		p.logger.Info(ctx, "Audio file not in %s, skipping archive", p.cfg.Paths.Input)
		return nil
	}

	ext := filepath.Ext(run.AudioPath)
	dest := filepath.Join(p.cfg.Paths.Processed, notes.ProcessedAudioName(notes.Stem(run.AudioPath), ext, p.now()))

	p.logger.Info(ctx, "Moving to processed folder: %s -> %s", run.AudioPath, dest)

	if err := archiver.MoveFile(run.AudioPath, dest); err != nil {
		return fmt.Errorf("%w: archive processed audio: %v", errdefs.ErrArchiveIO, err)
	}
	run.ArchivedAudio = dest
	return nil
}

// isWithin reports whether path lies below dir.
func isWithin(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, err
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, err
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)), nil
}
