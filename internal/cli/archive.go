package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nguyentantai21042004/meeting-flow/internal/archiver"
)

type archiveFlags struct {
	stats           bool
	listDuplicates  bool
	cleanDuplicates bool
	cleanOld        bool
	cleanAudio      bool
	days            int
	dryRun          bool
}

func NewArchiveCmd(deps *Dependencies) *cobra.Command {
	var fl archiveFlags

	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Move duplicate and old output files into the archive",
		Long: "Without an action flag, archive runs --clean-duplicates and --clean-old together. " +
			"Files are moved to archive/<category>/<YYYY-MM>/ and never overwritten.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fl.days < 0 {
				return errors.New("--days must not be negative")
			}
			return runArchive(cmd.Context(), deps, fl)
		},
	}

	cmd.Flags().BoolVar(&fl.stats, "stats", false, "show active and archived file counts")
	cmd.Flags().BoolVar(&fl.listDuplicates, "list-duplicates", false, "list files sharing a base name")
	cmd.Flags().BoolVar(&fl.cleanDuplicates, "clean-duplicates", false, "archive all but the latest file of each duplicate group")
	cmd.Flags().BoolVar(&fl.cleanOld, "clean-old", false, "archive transcripts and summaries older than --days")
	cmd.Flags().BoolVar(&fl.cleanAudio, "clean-audio", false, "archive processed audio older than --days")
	cmd.Flags().IntVar(&fl.days, "days", 30, "age threshold in days")
	cmd.Flags().BoolVar(&fl.dryRun, "dry-run", false, "show what would move without changing anything")

	return cmd
}

func runArchive(ctx context.Context, deps *Dependencies, fl archiveFlags) error {
	a := deps.newArchiver()
	f := deps.formatter()

	if fl.stats {
		s, err := a.Stats(ctx)
		if err != nil {
			return err
		}
		f.ArchiveStats(s)
		return nil
	}

	if fl.listDuplicates {
		groups, err := a.ListDuplicates(ctx)
		if err != nil {
			return err
		}
		f.DuplicateGroups(groups)
		return nil
	}

	if !fl.cleanDuplicates && !fl.cleanOld && !fl.cleanAudio {
		fl.cleanDuplicates, fl.cleanOld = true, true
	}

	var plans []archiver.Plan
	if fl.cleanDuplicates {
		p, err := a.PlanDuplicates(ctx)
		if err != nil {
			return err
		}
		plans = append(plans, p)
	}
	if fl.cleanOld {
		p, err := a.PlanOld(ctx, fl.days)
		if err != nil {
			return err
		}
		plans = append(plans, p)
	}
	if fl.cleanAudio {
		p, err := a.PlanAudio(ctx, fl.days)
		if err != nil {
			return err
		}
		plans = append(plans, p)
	}

	res, err := a.Execute(ctx, mergePlans(plans...), fl.dryRun)
	f.ArchiveResult(res)
	return err
}

// mergePlans concatenates plans, keeping only the first move of each file.
func mergePlans(plans ...archiver.Plan) archiver.Plan {
	var out archiver.Plan
	seen := make(map[string]bool)
	for _, p := range plans {
		for _, m := range p.Moves {
			if seen[m.Entry.Path] {
				continue
			}
			seen[m.Entry.Path] = true
			out.Moves = append(out.Moves, m)
		}
	}
	return out
}
