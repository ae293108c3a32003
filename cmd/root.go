package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/masterypath/internal/app"
	"github.com/abhisek/masterypath/internal/config"
	"github.com/abhisek/masterypath/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "masterypath",
	Short: "Skill-graph mastery tracker",
	Long: "masterypath tracks learners through a graph of prerequisite skills: " +
		"practice raises mastery, mastery unlocks dependents, and idle mastery decays.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MASTERYPATH_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(treeCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads --config (if set) over the defaults and applies
// MASTERYPATH_* overrides.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then MASTERYPATH_DB env var or the config file, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openApp loads config, opens the store and wires the engine. Logs go to
// stderr so command output stays clean.
func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cfg.Level()

	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	return app.Open(dbPath, cfg, app.NewLogger(os.Stderr, level))
}
