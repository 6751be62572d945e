package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	dbPath string
)

var rootCmd = &cobra.Command{
	Use:   "page-engine",
	Short: "Page render & experimentation engine for link-in-bio pages",
	Long: `page-engine turns stored block-structured page definitions into
self-contained HTML documents, split-tests them across visitor-facing
variants, and promotes winning variants into the canonical definition.

Running without a subcommand starts the server (same as 'page-engine serve').`,
	RunE: runServe, // Default action is to start server
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", getEnvOrDefault("PAGE_DB_PATH", "./pages.db"), "database path")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
