// Package report exports the playback journal as a spreadsheet.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/lumenlearn/lumen/internal/store"
)

const (
	quizSheet    = "Quizzes"
	summarySheet = "Summary"
)

var quizHeader = []any{"Session", "Content", "Quiz type", "Correct", "Total", "Score %", "Started", "Finished", "Duration (s)"}

// WriteQuizWorkbook writes one row per finished quiz plus a summary sheet
// built from stats.
func WriteQuizWorkbook(w io.Writer, events []store.QuizEventData, stats store.Stats) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", quizSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}

	if err := f.SetSheetRow(quizSheet, "A1", &quizHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(quizHeader))
	if err := f.SetCellStyle(quizSheet, "A1", lastCol+"1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, ev := range events {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		var score any = ""
		if ev.ScorePercent != nil {
			score = *ev.ScorePercent
		}
		row := []any{
			ev.SessionID,
			ev.ContentID,
			ev.QuizType,
			ev.CorrectCount,
			ev.Total,
			score,
			ev.StartedAt.Format(time.RFC3339),
			ev.FinishedAt.Format(time.RFC3339),
			int(ev.FinishedAt.Sub(ev.StartedAt).Seconds()),
		}
		if err := f.SetSheetRow(quizSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(quizSheet, "A", "A", 38); err != nil {
		return err
	}
	if err := f.SetColWidth(quizSheet, "G", "H", 22); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]any{
		{"Sessions", stats.Sessions},
		{"Items completed", stats.Completions},
		{"Quizzes finished", stats.QuizzesFinished},
		{"Evaluative quizzes", stats.EvaluativeRuns},
		{"Average score %", fmt.Sprintf("%.1f", stats.AverageScore)},
	}
	for i, row := range summary {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold); err != nil {
		return err
	}
	if err := f.SetColWidth(summarySheet, "A", "A", 22); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
