package cli

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/meeting"
	"github.com/nguyentantai21042004/meeting-flow/internal/watcher"
)

func NewWatchCmd(deps *Dependencies) *cobra.Command {
	var (
		opts     meeting.Options
		existing bool
		settle   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Process new recordings dropped into the input folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := deps.Logger
			cfg := deps.Config

			if err := os.MkdirAll(cfg.Paths.Input, 0755); err != nil {
				return err
			}

			proc, err := deps.newProcessor(!opts.SkipNotion)
			if err != nil {
				return err
			}

			if existing {
				res, err := proc.ProcessBatch(ctx, cfg.Paths.Input, opts)
				if res != nil {
					for _, run := range res.Runs {
						deps.formatter().PipelineRun(run)
					}
				}
				if err != nil {
					log.Error(ctx, "Existing files: %v", err)
				}
			}

			w, err := watcher.New(cfg.Paths.Input, func(ctx context.Context, path string) error {
				run, err := proc.Process(ctx, path, opts)
				deps.formatter().PipelineRun(run)
				return err
			}, log, settle)
			if err != nil {
				return err
			}
			defer w.Stop()

			log.Info(ctx, "========================================")
			log.Info(ctx, "Meeting pipeline is ready!")
			log.Info(ctx, "Monitoring: %s", cfg.Paths.Input)
			log.Info(ctx, "Transcripts: %s", cfg.Paths.Transcriptions)
			log.Info(ctx, "Summaries: %s", cfg.Paths.Summaries)
			log.Info(ctx, "Press Ctrl+C to stop")
			log.Info(ctx, "========================================")

			err = w.Start(ctx)
			if errors.Is(err, context.Canceled) {
				log.Info(ctx, "Shutting down gracefully...")
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.SkipNotion, "skip-notion", false, "do not publish to Notion")
	cmd.Flags().BoolVar(&opts.NoArchive, "no-archive", false, "leave audio files in the input folder")
	cmd.Flags().BoolVar(&existing, "process-existing", false, "process audio already in the input folder first")
	cmd.Flags().DurationVar(&settle, "settle", watcher.DefaultSettle, "how long a new file must stay unchanged before processing")

	return cmd
}
