package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/engramd/engram/internal/app"
	"github.com/engramd/engram/internal/config"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print dashboard statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	engine, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer engine.Close()

	dash, err := engine.GetDashboardStats(ctx)
	if err != nil {
		return fmt.Errorf("dashboard stats: %w", err)
	}

	fmt.Fprintf(os.Stdout, "Cards:        %d total, %d due today, %d learned\n", dash.TotalCards, dash.CardsDueToday, dash.LearnedCards)
	fmt.Fprintf(os.Stdout, "Documents:    %d\n", dash.TotalDocuments)
	fmt.Fprintf(os.Stdout, "Extracts:     %d\n", dash.TotalExtracts)
	fmt.Fprintf(os.Stdout, "Reviews today: %d\n", dash.ReviewsToday)
	fmt.Fprintf(os.Stdout, "Streak:       %d days\n", dash.CurrentStreak)
	fmt.Fprintf(os.Stdout, "Retention:    %.1f%%\n", dash.RetentionRate*100)
	fmt.Fprintf(os.Stdout, "Avg difficulty: %.2f\n", dash.AverageDifficulty)
	return nil
}
