package cmd

import (
	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/app"
	"github.com/lumenlearn/lumen/internal/logger"
)

var playCmd = &cobra.Command{
	Use:   "play <course>",
	Short: "Play a course in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCourse(args[0])
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		// Logs would draw over the alternate screen unless they go to a file.
		uiLog := logger.Nop()
		if cfg.Log.File != "" {
			uiLog = log
		}

		return app.Run(app.Options{
			Course:       c,
			Journal:      st.EventRepo(),
			Logger:       uiLog,
			TickInterval: cfg.TickInterval,
		})
	},
}
