package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lumenlearn/lumen/internal/config"
	"github.com/lumenlearn/lumen/internal/course"
	"github.com/lumenlearn/lumen/internal/logger"
	"github.com/lumenlearn/lumen/internal/store"
)

var (
	cfg *config.Config
	log = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "Terminal course player",
	Long:  "Lumen plays structured courses in the terminal, unlocking content in order and running embedded quizzes.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides LUMEN_DB env var)")
	rootCmd.PersistentFlags().String("debug", "", "Comma separated course debug transformations (overrides LUMEN_DEBUG)")
	rootCmd.PersistentFlags().String("log-file", "", "Write logs to this file (overrides LUMEN_LOG_FILE)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Log at debug level")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(outlineCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads configuration, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		c.DBPath = v
	}
	if v, _ := cmd.Flags().GetString("debug"); v != "" {
		c.Debug = v
	}
	if v, _ := cmd.Flags().GetString("log-file"); v != "" {
		c.Log.File = v
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		c.Log.Level = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}
	cfg = c

	l, err := logger.New(c.Log.Mode, logger.WithLevel(c.Log.Level), logger.WithOutput(c.Log.File))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log = l
	return nil
}

// resolveDBPath returns the database path using --db flag or LUMEN_DB
// (highest priority), then the default XDG path.
func resolveDBPath() (string, error) {
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore opens the journal database.
func openStore() (*store.Store, error) {
	dbPath, err := resolveDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadCourse reads the course at path and applies the configured debug
// transformations.
func loadCourse(path string) (course.Course, error) {
	c, err := course.Load(path)
	if err != nil {
		return course.Course{}, err
	}
	if cfg == nil || cfg.Debug == "" {
		return c, nil
	}
	opts, err := course.ParseDebugOptions(cfg.Debug)
	if err != nil {
		return course.Course{}, err
	}
	log.Debug("applying debug transformations", "options", cfg.Debug)
	return course.ApplyDebug(c, opts), nil
}
