package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/report"
	"github.com/lumenlearn/lumen/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Export finished quizzes to an Excel workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("out")
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		repo := st.EventRepo()
		events, err := repo.QuizEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("read quiz events: %w", err)
		}
		stats, err := repo.Stats(cmd.Context())
		if err != nil {
			return fmt.Errorf("read stats: %w", err)
		}

		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := report.WriteQuizWorkbook(f, events, stats); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d quiz results to %s\n", len(events), path)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("out", "lumen-report.xlsx", "Output workbook path")
	reportCmd.Flags().Int("limit", 0, "Only export the most recent N quizzes (0 for all)")
}
