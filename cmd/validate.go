package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/course"
)

var validateCmd = &cobra.Command{
	Use:   "validate <course>",
	Short: "Check a course document against the schema and player rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		c, err := course.Load(args[0])

		var verr *course.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(out, "%s: %d problem(s)\n", args[0], len(verr.Problems))
			for _, p := range verr.Problems {
				fmt.Fprintf(out, "  - %s\n", p)
			}
			return fmt.Errorf("invalid course")
		}
		if err != nil {
			return err
		}

		items := course.Flatten(c)
		fmt.Fprintf(out, "%s: ok (%d topics, %d items)\n", args[0], len(c.Topics), len(items))
		return nil
	},
}
