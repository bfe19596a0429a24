package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/notes"
	"github.com/nguyentantai21042004/meeting-flow/internal/processor"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

func NewTranscribeCmd(deps *Dependencies) *cobra.Command {
	var (
		opts         transcriber.Options
		batchDir     string
		timestamps   bool
		noTimestamps bool
	)

	cmd := &cobra.Command{
		Use:   "transcribe [file]",
		Short: "Transcribe an audio file, or every audio file in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (batchDir == "") == (len(args) == 0) {
				return errors.New("pass either an audio file or --batch DIR")
			}

			if err := applyWhisperFlags(deps, opts); err != nil {
				return err
			}
			withSegments := deps.Config.Timestamps()
			switch {
			case cmd.Flags().Changed("no-timestamps"):
				withSegments = !noTimestamps
			case cmd.Flags().Changed("timestamps"):
				withSegments = timestamps
			}

			var files []string
			for _, a := range args {
				files = append(files, processor.ResolveAudio(deps.Config.Paths.Input, a))
			}
			if batchDir != "" {
				var err error
				if files, err = processor.AudioFiles(batchDir); err != nil {
					return errdefs.Inputf("read %s: %v", batchDir, err)
				}
				if len(files) == 0 {
					deps.formatter().Info("No audio files found in " + batchDir)
					return nil
				}
			}

			return transcribeFiles(cmd, deps, files, opts, withSegments)
		},
	}

	cmd.Flags().StringVar(&opts.Model, "model", "", "whisper model size (tiny|base|small|medium|large)")
	cmd.Flags().StringVar(&opts.Language, "language", "", "spoken language code, or auto")
	cmd.Flags().StringVar(&opts.Task, "task", "", "transcribe or translate")
	cmd.Flags().BoolVar(&timestamps, "timestamps", true, "include timestamped segments in the transcript file")
	cmd.Flags().BoolVar(&noTimestamps, "no-timestamps", false, "omit timestamped segments")
	cmd.Flags().StringVar(&batchDir, "batch", "", "transcribe every audio file in DIR")

	return cmd
}

// applyWhisperFlags validates flag overrides through the config rules.
func applyWhisperFlags(deps *Dependencies, opts transcriber.Options) error {
	w := deps.Config.Whisper
	if opts.Model != "" {
		w.Model = opts.Model
	}
	if opts.Language != "" {
		w.Language = opts.Language
	}
	if opts.Task != "" {
		w.Task = opts.Task
	}

	probe := *deps.Config
	probe.Whisper = w
	return probe.Validate()
}

func transcribeFiles(cmd *cobra.Command, deps *Dependencies, files []string, opts transcriber.Options, withSegments bool) error {
	ctx := cmd.Context()
	f := deps.formatter()
	t := deps.newTranscriber()

	var errs []error
	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			errs = append(errs, errdefs.Inputf("audio file %s: %v", path, err))
			continue
		}

		f.Info("Transcribing " + filepath.Base(path))
		rec, err := t.Transcribe(ctx, path, opts)
		if err != nil {
			err = errdefs.Stage(processor.StageTranscribe, err)
			f.Error(fmt.Sprintf("%s: %v", filepath.Base(path), err))
			errs = append(errs, err)
			continue
		}

		out, err := notes.WriteTranscript(deps.Config.Paths.Transcriptions, rec, withSegments)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		f.TranscribeDone(rec, out)
	}

	if len(files) > 1 {
		f.BatchSummary(len(files), len(errs))
	}
	return errors.Join(errs...)
}
