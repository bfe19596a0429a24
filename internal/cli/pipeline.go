package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

func NewPipelineCmd(deps *Dependencies) *cobra.Command {
	var (
		opts        meeting.Options
		meetingType string
	)

	cmd := &cobra.Command{
		Use:   "pipeline <file>",
		Short: "Transcribe, classify, summarize and publish one recording",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if meetingType != "" {
				mt, err := meeting.ParseMeetingType(meetingType)
				if err != nil {
					return fmt.Errorf("invalid --meeting-type: %w", err)
				}
				opts.MeetingType = &mt
			}

			if err := applyWhisperFlags(deps, transcriber.Options{Model: opts.Model, Language: opts.Language}); err != nil {
				return err
			}

			proc, err := deps.newProcessor(!opts.SkipNotion && !opts.SkipSummarize)
			if err != nil {
				return err
			}

			run, err := proc.Process(cmd.Context(), args[0], opts)
			deps.formatter().PipelineRun(run)
			if err != nil {
				return err
			}
			deps.formatter().Success("Pipeline completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&meetingType, "meeting-type", "", "force the meeting type (one_on_one|forecast|customer|technical|strategic|team)")
	cmd.Flags().StringVar(&opts.Model, "model", "", "whisper model size")
	cmd.Flags().StringVar(&opts.Language, "language", "", "spoken language code, or auto")
	cmd.Flags().BoolVar(&opts.SkipTranscribe, "skip-transcribe", false, "reuse the latest transcript for this file")
	cmd.Flags().BoolVar(&opts.SkipSummarize, "skip-summarize", false, "stop after the transcript and meeting type; implies --skip-notion")
	cmd.Flags().BoolVar(&opts.SkipNotion, "skip-notion", false, "do not publish to Notion")
	cmd.Flags().BoolVar(&opts.NoArchive, "no-archive", false, "leave the audio file in the input folder")

	return cmd
}
