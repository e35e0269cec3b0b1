package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/engramd/engram/internal/app"
	"github.com/engramd/engram/internal/config"
	"github.com/engramd/engram/internal/domain"
)

func init() {
	rootCmd.AddCommand(reviewCmd)
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run an interactive terminal review session",
	RunE:  runReview,
}

func runReview(cmd *cobra.Command, args []string) error {
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

	sess, err := engine.StartReview(ctx)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	reviewed := 0
	for {
		item, err := engine.GetNextQueueItem(ctx)
		if err != nil {
			return fmt.Errorf("fetch next item: %w", err)
		}
		if item == nil {
			break
		}

		if err := reviewOne(ctx, engine, reader, item, sess.ID); err != nil {
			return err
		}
		reviewed++
	}

	if _, err := engine.EndReview(ctx, sess.ID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\nSession complete: %d item(s) reviewed.\n", reviewed)
	return nil
}

func reviewOne(ctx context.Context, engine *app.Engine, reader *bufio.Reader, item *domain.QueueItem, sessionID string) error {
	fmt.Fprintf(os.Stdout, "\n%s: %s\n", item.ItemType, item.DocumentTitle)

	outcomes, err := previewForKind(ctx, engine, item)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	fmt.Fprintf(os.Stdout, "  again=%.1fd  hard=%.1fd  good=%.1fd  easy=%.1fd\n",
		outcomes.Again, outcomes.Hard, outcomes.Good, outcomes.Easy)

	rating, err := promptRating(reader)
	if err != nil {
		return err
	}

	return submitForKind(ctx, engine, item, rating, sessionID)
}

func previewForKind(ctx context.Context, engine *app.Engine, item *domain.QueueItem) (domain.FourOutcomes, error) {
	switch item.ItemType {
	case domain.KindLearningItem:
		return engine.PreviewItemReview(ctx, *item.LearningItemID)
	case domain.KindExtract:
		return engine.PreviewExtractReview(ctx, *item.ExtractID)
	default:
		return engine.PreviewDocumentReview(ctx, item.DocumentID)
	}
}

func submitForKind(ctx context.Context, engine *app.Engine, item *domain.QueueItem, rating domain.Rating, sessionID string) error {
	switch item.ItemType {
	case domain.KindLearningItem:
		_, err := engine.SubmitItemReview(ctx, *item.LearningItemID, rating, 0, &sessionID)
		return err
	case domain.KindExtract:
		_, err := engine.SubmitExtractReview(ctx, *item.ExtractID, rating, 0, &sessionID)
		return err
	default:
		_, err := engine.SubmitDocumentReview(ctx, item.DocumentID, rating, 0, &sessionID)
		return err
	}
}

func promptRating(reader *bufio.Reader) (domain.Rating, error) {
	for {
		fmt.Fprint(os.Stdout, "  rate [1=again 2=hard 3=good 4=easy]: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("read rating: %w", err)
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(os.Stdout, "  not a number, try again")
			continue
		}
		rating, err := domain.ParseRating(n)
		if err != nil {
			fmt.Fprintln(os.Stdout, "  rating must be 1-4")
			continue
		}
		return rating, nil
	}
}
