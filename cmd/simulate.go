package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/simulate"
	"github.com/lumenlearn/lumen/internal/store"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <course>",
	Short: "Play a course headlessly and print the event trail",
	Long: `Play every item of a course without a terminal UI. Dwell timers run on a
virtual clock unless --realtime is set; quizzes are answered automatically.

Nothing is written to the database unless --record is set.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().Bool("realtime", false, "Wait out timers on the wall clock (LUMEN_TICK_INTERVAL_MS per second)")
	simulateCmd.Flags().String("answers", "correct", "Quiz answer strategy: correct or first")
	simulateCmd.Flags().Bool("record", false, "Record the run in the journal database")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	realtime, _ := cmd.Flags().GetBool("realtime")
	answers, _ := cmd.Flags().GetString("answers")
	record, _ := cmd.Flags().GetBool("record")

	var strategy simulate.Strategy
	switch answers {
	case "correct":
		strategy = simulate.AnswerCorrectly
	case "first":
		strategy = simulate.AnswerFirst
	default:
		return fmt.Errorf("invalid --answers %q: must be correct or first", answers)
	}

	c, err := loadCourse(args[0])
	if err != nil {
		return err
	}

	var journal store.Journal = store.NopJournal{}
	if record {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		journal = st.EventRepo()
	}

	out := cmd.OutOrStdout()
	rep, err := simulate.Run(cmd.Context(), c, simulate.Options{
		Realtime:     realtime,
		TickInterval: cfg.TickInterval,
		Strategy:     strategy,
		Journal:      journal,
		Logger:       log,
		Out:          out,
	})
	if err != nil {
		return err
	}

	sum := rep.Summary
	fmt.Fprintf(out, "\nsession %s: %d/%d items completed (%.0f%%) in %s, %d events\n",
		rep.SessionID, sum.CompletedItems, sum.TotalItems, sum.CompletionPct, rep.Elapsed, rep.Events)
	for _, it := range c.Topics {
		for _, ci := range it.Contents {
			r, ok := rep.Results[ci.ID]
			if !ok {
				continue
			}
			if r.Scored {
				fmt.Fprintf(out, "  %s: %d/%d correct (%d%%)\n", ci.ID, r.CorrectCount, r.Total, r.ScorePercent)
			} else {
				fmt.Fprintf(out, "  %s: %d responses\n", ci.ID, r.Total)
			}
		}
	}
	return nil
}
