package processor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
	"github.com/nguyentantai21042004/meeting-flow/internal/notes"
	"github.com/nguyentantai21042004/meeting-flow/internal/publisher"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

// Stage names reported in errors.
const (
	StageTranscribe = "transcribe"
	StageSummarize  = "summarize"
	StagePublish    = "publish"
)

// Process orchestrates the entire meeting pipeline for one audio file
func (p *implProcessor) Process(ctx context.Context, audioPath string, opts meeting.Options) (*meeting.PipelineRun, error) {
	audioPath = ResolveAudio(p.cfg.Paths.Input, audioPath)
	run := &meeting.PipelineRun{
		ID:        p.newID(),
		AudioPath: audioPath,
		Options:   opts,
		StartedAt: p.now(),
	}
	ctx = logger.WithRunID(ctx, run.ID)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting pipeline run %s: %s", run.ID, audioPath)
	p.logger.Info(ctx, "========================================")

	if err := p.checkCredentials(opts); err != nil {
		return run, err
	}

	// Step 1: Input check
	if !opts.SkipTranscribe {
		if err := checkAudio(audioPath); err != nil {
			return run, err
		}
	}

	// Step 2-3: Transcript, written to disk as soon as it exists
	if err := p.loadTranscript(ctx, run); err != nil {
		return run, err
	}

	// Step 4: Classify
	cls := p.deps.Classifier.Classify(run.Transcript.Text, opts.MeetingType)
	run.Classification = &cls
	if cls.Overridden {
		p.logger.Info(ctx, "Meeting type: %s (override)", cls.Type)
	} else {
		p.logger.Info(ctx, "Meeting type: %s (confidence %.2f, scores %v)", cls.Type, cls.Confidence, cls.Scores)
	}

	if opts.SkipSummarize {
		p.logger.Info(ctx, "Skipping summarization and Notion publishing")
		return run, p.finish(ctx, run)
	}

	// Step 5: Summarize
	sum, err := p.deps.Summarizer.Summarize(ctx, run.Transcript, cls.Type)
	if err != nil {
		return run, errdefs.Stage(StageSummarize, err)
	}
	run.Summary = sum

	// Step 6: Summary file
	if err := p.writeSummary(ctx, run); err != nil {
		return run, err
	}

	// Step 7: Publish
	if opts.SkipNotion {
		p.logger.Info(ctx, "Skipping Notion publishing")
	} else {
		pub, err := p.deps.Publisher.Publish(ctx, publisher.Request{
			AudioPath: audioPath,
			Summary:   sum,
			Date:      run.StartedAt,
		})
		run.Publication = pub
		if err != nil {
			return run, errdefs.Stage(StagePublish, err)
		}
	}

	return run, p.finish(ctx, run)
}

// finish moves the processed audio out of the input folder and logs the outcome.
func (p *implProcessor) finish(ctx context.Context, run *meeting.PipelineRun) error {
	if err := p.archiveAudio(ctx, run); err != nil {
		return err
	}

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Pipeline completed in %s", p.now().Sub(run.StartedAt).Round(time.Millisecond))
	p.logger.Info(ctx, "Transcript: %s", run.TranscriptFile)
	if run.SummaryFile != "" {
		p.logger.Info(ctx, "Summary: %s", run.SummaryFile)
	}
	if run.Publication != nil {
		p.logger.Info(ctx, "Notion page: %s", run.Publication.PageURL)
	}
	p.logger.Info(ctx, "========================================")

	return nil
}

// checkCredentials fails before any external call when a required key is missing.
func (p *implProcessor) checkCredentials(opts meeting.Options) error {
	if opts.SkipSummarize {
		return nil
	}
	if err := p.cfg.RequireSummarizer(); err != nil {
		return err
	}
	if opts.SkipNotion {
		return nil
	}
	if err := p.cfg.RequirePublisher(); err != nil {
		return err
	}
	if p.deps.Publisher == nil {
		return errdefs.Configf("notion publisher is not configured")
	}
	return nil
}

func checkAudio(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errdefs.Inputf("audio file %s: %v", path, err)
	}
	if info.IsDir() {
		return errdefs.Inputf("audio file %s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return errdefs.Inputf("audio file %s is not readable: %v", path, err)
	}
	return f.Close()
}

func (p *implProcessor) loadTranscript(ctx context.Context, run *meeting.PipelineRun) error {
	opts := run.Options

	if opts.SkipTranscribe {
		stem := notes.Stem(run.AudioPath)
		path, err := notes.FindLatestTranscript(p.cfg.Paths.Transcriptions, stem)
		if err != nil {
			return errdefs.Inputf("no transcript for %q in %s", stem, p.cfg.Paths.Transcriptions)
		}
		rec, err := notes.ReadTranscript(path)
		if err != nil {
			return errdefs.Inputf("read transcript %s: %v", path, err)
		}
		if rec.SourcePath == "" {
			rec.SourcePath = run.AudioPath
		}
		p.logger.Info(ctx, "Skipping transcription, using %s", path)
		run.Transcript = rec
		run.TranscriptFile = path
		return nil
	}

	rec, err := p.deps.Transcriber.Transcribe(ctx, run.AudioPath, transcriber.Options{
		Model:    opts.Model,
		Language: opts.Language,
	})
	if err != nil {
		return errdefs.Stage(StageTranscribe, err)
	}
	run.Transcript = rec

	path, err := notes.WriteTranscript(p.cfg.Paths.Transcriptions, rec, p.cfg.Timestamps())
	if err != nil {
		return err
	}
	run.TranscriptFile = path
	p.logger.Info(ctx, "Transcript saved: %s", path)
	return nil
}

func (p *implProcessor) writeSummary(ctx context.Context, run *meeting.PipelineRun) error {
	path, err := notes.WriteSummary(p.cfg.Paths.Summaries, notes.SummaryFile{
		AudioPath:  run.AudioPath,
		Summary:    run.Summary,
		Transcript: run.Transcript,
	})
	if err != nil {
		return err
	}
	run.SummaryFile = path
	p.logger.Info(ctx, "Summary saved: %s", path)

	if p.cfg.Pipeline.WriteDocx {
		docx := notes.DocxName(path)
		title := "Meeting Summary: " + notes.Stem(run.AudioPath)
		if err := notes.WriteSummaryDocx(docx, title, run.Summary.Markdown); err != nil {
			p.logger.Warn(ctx, "Failed to write %s: %v", docx, err)
		} else {
			run.DocxFile = docx
			p.logger.Info(ctx, "Summary docx saved: %s", docx)
		}
	}
	return nil
}

// ProcessBatch runs the audio files of dir in name order. A failing file is
// recorded and the next one still runs.
func (p *implProcessor) ProcessBatch(ctx context.Context, dir string, opts meeting.Options) (*BatchResult, error) {
	files, err := AudioFiles(dir)
	if err != nil {
		return nil, errdefs.Inputf("read %s: %v", dir, err)
	}

	res := &BatchResult{Failed: make(map[string]error)}
	if len(files) == 0 {
		p.logger.Info(ctx, "No audio files found in %s", dir)
		return res, nil
	}

	p.logger.Info(ctx, "Found %d audio files to process", len(files))

	var errs []error
	for i, path := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		p.logger.Info(ctx, "[%d/%d] %s", i+1, len(files), filepath.Base(path))
		run, err := p.Process(ctx, path, opts)
		res.Runs = append(res.Runs, run)
		if err != nil {
			p.logger.Error(ctx, "Failed to process %s: %v", path, err)
			res.Failed[path] = err
			errs = append(errs, fmt.Errorf("%s: %w", filepath.Base(path), err))
		}
	}

	p.logger.Info(ctx, "Batch complete: %d success, %d failed", len(res.Runs)-len(res.Failed), len(res.Failed))
	return res, errors.Join(errs...)
}

// ResolveAudio looks a bare file name up in inputDir first and falls back to
// the working directory. Paths with a directory part are returned unchanged.
func ResolveAudio(inputDir, path string) string {
	if inputDir == "" || filepath.Base(path) != path {
		return path
	}
	candidate := filepath.Join(inputDir, path)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate
	}
	return path
}

// AudioFiles lists the supported audio files directly inside dir, sorted.
func AudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || e.Name()[0] == '.' {
			continue
		}
		if transcriber.IsAudioFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(files)
	return files, nil
}
