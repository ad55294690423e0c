package cmd

import (
	"github.com/abhisek/studydeck/internal/config"
	"github.com/abhisek/studydeck/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "studydeck",
	Short: "Terminal flashcard sessions for your documents",
	Long: "studydeck runs timed quiz and spaced-repetition review sessions over study items\n" +
		"generated from documents held by a content service, or from a local file.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides STUDYDECK_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to TOML config file (overrides STUDYDECK_CONFIG env var)")

	rootCmd.AddCommand(studyCmd)
	rootCmd.AddCommand(docsCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then STUDYDECK_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveConfigPath returns the config path from --config, then
// STUDYDECK_CONFIG, then the XDG default.
func resolveConfigPath(cmd *cobra.Command) string {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p
	}
	return config.DefaultConfigPath()
}
