package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show playback statistics from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		s, err := st.EventRepo().Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Sessions:            %d\n", s.Sessions)
		fmt.Fprintf(out, "Items completed:     %d\n", s.Completions)
		fmt.Fprintf(out, "Quizzes finished:    %d\n", s.QuizzesFinished)
		fmt.Fprintf(out, "Evaluative quizzes:  %d\n", s.EvaluativeRuns)
		if s.EvaluativeRuns > 0 {
			fmt.Fprintf(out, "Average score:       %.1f%%\n", s.AverageScore)
		}
		return nil
	},
}
