package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/course"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <course>",
	Short: "Print the playback order of a course",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCourse(args[0])
		if err != nil {
			return err
		}
		printOutline(cmd, c)
		return nil
	},
}

func printOutline(cmd *cobra.Command, c course.Course) {
	out := cmd.OutOrStdout()
	items := course.Flatten(c)

	fmt.Fprintf(out, "%s\n", c.Name)
	locking := "off"
	if c.ContentLocking.Enabled {
		locking = fmt.Sprintf("on, %ds minimum per item", c.ContentLocking.MinimumTime)
	}
	fmt.Fprintf(out, "Content locking: %s\n\n", locking)

	fmt.Fprintf(out, "%4s  %-20s  %-24s  %-9s  %s\n", "#", "Topic", "ID", "Type", "Title")
	fmt.Fprintln(out, strings.Repeat("─", 90))

	for i, it := range items {
		topic := ""
		if t, ok := course.TopicOf(c, it.ID); ok {
			topic = t.Title
		}
		title := it.Title
		if it.IsQuiz() && it.QuizData != nil {
			title = fmt.Sprintf("%s (%s, %d questions)", title, it.QuizData.QuizType, len(it.QuizData.Questions))
		}
		fmt.Fprintf(out, "%4d  %-20s  %-24s  %-9s  %s\n", i+1, clip(topic, 20), clip(it.ID, 24), it.Type, title)
	}

	fmt.Fprintf(out, "\n%d items in %d topics\n", len(items), len(c.Topics))
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}
