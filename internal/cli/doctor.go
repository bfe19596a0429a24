package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/errdefs"
	"github.com/nguyentantai21042004/meeting-flow/internal/publisher"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
)

func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := deps.formatter()
			cfg := deps.Config
			problems := 0

			check := func(name string, err error, okDetail string) {
				if err != nil {
					f.SetupCheck(name, false, err.Error())
					problems++
					return
				}
				f.SetupCheck(name, true, okDetail)
			}

			path, err := deps.Executor.LookPath(cfg.FFmpeg.BinaryPath)
			check("ffmpeg", err, path)

			path, err = deps.Executor.LookPath(cfg.Whisper.BinaryPath)
			check("whisper.cpp", err, path)

			model := transcriber.ModelFile(cfg.Whisper.ModelDir, cfg.Whisper.Model)
			_, err = os.Stat(model)
			check("Whisper model", err, model)

			check(cfg.Summarizer.Provider+" API key", cfg.RequireSummarizer(), "configured ("+cfg.Summarizer.Model+")")

			notionErr := cfg.RequirePublisher()
			check("Notion settings", notionErr, "configured")

			if notionErr == nil && !offline {
				health, err := publisher.New(cfg.Notion, deps.Logger).Check(cmd.Context())
				detail := ""
				if err == nil {
					detail = fmt.Sprintf("%s, database %q, tasks %q", health.User, health.Database, health.TaskDatabase)
				}
				check("Notion access", err, detail)
			}

			f.SetupCheck("Input folder", true, cfg.Paths.Input)

			if problems > 0 {
				f.Warning(fmt.Sprintf("\n%d prerequisites are missing.", problems))
				return errdefs.Configf("doctor found %d problems", problems)
			}
			f.Success("\nAll prerequisites met. Ready to process meetings!")
			return nil
		},
	}

	cmd.Flags().BoolVar(&offline, "offline", false, "skip the Notion API call")

	return cmd
}
