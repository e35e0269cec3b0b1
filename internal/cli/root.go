// Package cli implements engramd's command-line surface: serve, review,
// stats, and import doc, all built on internal/app's Engine.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "engramd",
	Short: "An incremental-learning review engine",
	Long: `engramd schedules documents, extracts, and learning items for
review using FSRS-5, an incremental-rotation scheduler, and a
simplified extract scheduler, drawing from a single weighted-random
queue.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to engramd.toml (defaults if absent)")
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
