package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/archiver"
	"github.com/nguyentantai21042004/meeting-flow/internal/classifier"
	"github.com/nguyentantai21042004/meeting-flow/internal/config"
	"github.com/nguyentantai21042004/meeting-flow/internal/logger"
	"github.com/nguyentantai21042004/meeting-flow/internal/output"
	"github.com/nguyentantai21042004/meeting-flow/internal/processor"
	"github.com/nguyentantai21042004/meeting-flow/internal/publisher"
	"github.com/nguyentantai21042004/meeting-flow/internal/summarizer"
	"github.com/nguyentantai21042004/meeting-flow/internal/transcriber"
	"github.com/nguyentantai21042004/meeting-flow/pkg/executor"
)

// Dependencies are shared by every command. Config and Logger are filled in
// before a command runs unless the caller provides them.
type Dependencies struct {
	Config   *config.Config
	Logger   logger.Logger
	Executor executor.Executor
	Out      io.Writer
	LogOut   io.Writer

	configPath string
	verbose    bool
}

func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "meetflow",
		Short: "Transcribe, summarize and publish meeting recordings",
		Long: "A CLI tool that transcribes meeting audio with whisper.cpp, picks a meeting type, " +
			"writes an LLM summary with action items and publishes it to Notion.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return deps.init()
		},
	}

	rootCmd.PersistentFlags().StringVar(&deps.configPath, "config", "", "config file (default "+config.DefaultPath+")")
	rootCmd.PersistentFlags().BoolVarP(&deps.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(NewTranscribeCmd(deps))
	rootCmd.AddCommand(NewPipelineCmd(deps))
	rootCmd.AddCommand(NewArchiveCmd(deps))
	rootCmd.AddCommand(NewWatchCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))

	return rootCmd
}

func (d *Dependencies) init() error {
	if d.Out == nil {
		d.Out = os.Stdout
	}
	if d.LogOut == nil {
		d.LogOut = os.Stderr
	}
	if d.Executor == nil {
		d.Executor = executor.New()
	}

	if d.Config == nil {
		cfg, err := config.Load(d.configPath)
		if err != nil {
			return err
		}
		d.Config = cfg
	}

	if d.Logger == nil {
		level := d.Config.Logging.Level
		if d.verbose {
			level = "debug"
		}
		d.Logger = logger.NewWithWriter(level, d.Config.Logging.Format, d.LogOut)
	}
	return nil
}

func (d *Dependencies) formatter() *output.Formatter {
	return output.NewFormatter(d.Out)
}

func (d *Dependencies) newTranscriber() transcriber.Transcriber {
	return transcriber.New(d.Config, d.Executor, d.Logger)
}

func (d *Dependencies) newArchiver() archiver.Archiver {
	return archiver.New(archiver.Dirs{
		Transcriptions: d.Config.Paths.Transcriptions,
		Summaries:      d.Config.Paths.Summaries,
		Processed:      d.Config.Paths.Processed,
		Archive:        d.Config.Paths.Archive,
	}, d.Logger)
}

// newProcessor wires the pipeline stages. The Notion client is only built
// when the run publishes.
func (d *Dependencies) newProcessor(withPublisher bool) (processor.Processor, error) {
	sum, err := summarizer.New(d.Config.Summarizer, d.Logger)
	if err != nil {
		return nil, err
	}

	deps := processor.Deps{
		Transcriber: d.newTranscriber(),
		Classifier: classifier.New(
			classifier.Merge(classifier.DefaultKeywords(), d.Config.KeywordOverrides()),
			d.Config.FallbackType(),
		),
		Summarizer: sum,
	}
	if withPublisher {
		deps.Publisher = publisher.New(d.Config.Notion, d.Logger)
	}

	return processor.New(d.Config, deps, d.Logger), nil
}
