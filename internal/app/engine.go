// Package app wires the store, schedulers, queue, and statistics
// aggregator into a single Engine: the one type both internal/api and
// internal/cli drive.
package app

import (
	"context"
	"time"

	"github.com/engramd/engram/internal/config"
	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/infra/observability"
	"github.com/engramd/engram/internal/ingest"
	"github.com/engramd/engram/internal/queue"
	"github.com/engramd/engram/internal/review"
	"github.com/engramd/engram/internal/stats"
	"github.com/engramd/engram/internal/store"
)

// Engine owns the persistence handle and every stateless collaborator
// built on top of it. All of its methods are safe to call concurrently
// except where store/review's own transaction boundaries apply.
type Engine struct {
	Store *store.DB

	applier  *review.Applier
	stats    *stats.Aggregator
	selector *queue.Selector
	pending  *ingest.PendingQueue
	dedup    *ingest.DedupIndex

	now func() time.Time
}

// New builds an Engine from a config: opens the store, seeds the
// dedup index from existing documents, and constructs the review
// applier and stats aggregator configured per cfg.Review/cfg.Queue.
func New(ctx context.Context, cfg config.Config) (*Engine, error) {
	db, err := store.Open(ctx, cfg.Store.Path, cfg.Store.MaxOpenConns)
	if err != nil {
		return nil, err
	}

	dedup, err := ingest.NewDedupIndex(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	reviewCfg := review.Config{
		DocumentScheduler: documentSchedulerKind(cfg.Review.DocumentScheduler),
		ExtractScheduler:  extractSchedulerKind(cfg.Review.ExtractScheduler),
		TargetRetention:   cfg.Review.TargetRetention,
	}

	return &Engine{
		Store:    db,
		applier:  review.New(db, reviewCfg),
		stats:    stats.New(db),
		selector: queue.NewSelector(cfg.Queue.Randomness),
		pending:  ingest.NewPendingQueue(),
		dedup:    dedup,
		now:      time.Now,
	}, nil
}

func documentSchedulerKind(s string) review.DocumentSchedulerKind {
	if s == "incremental" {
		return review.DocumentIncremental
	}
	return review.DocumentFSRS
}

func extractSchedulerKind(s string) review.ExtractSchedulerKind {
	if s == "fsrs" {
		return review.ExtractFSRS
	}
	return review.ExtractSimplified
}

// Close releases the underlying database connection pool.
func (e *Engine) Close() error { return e.Store.Close() }

// GetQueue builds and returns the full eligible queue in deterministic
// priority order.
func (e *Engine) GetQueue(ctx context.Context) ([]domain.QueueItem, error) {
	start := e.now()
	items, err := queue.Build(ctx, e.Store, start)
	observability.QueueBuildDuration.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	observability.QueueDepth.Set(float64(len(items)))
	return items, nil
}

// GetNextQueueItem draws a single item via the configured
// weighted-random selector.
func (e *Engine) GetNextQueueItem(ctx context.Context) (*domain.QueueItem, error) {
	items, err := e.GetQueue(ctx)
	if err != nil {
		return nil, err
	}
	picked := e.selector.NextItem(items)
	if picked != nil {
		observability.QueueItemsSelected.WithLabelValues(string(picked.ItemType)).Inc()
	}
	return picked, nil
}

// GetDueQueueItems returns every queued item whose due date has
// passed or is unset.
func (e *Engine) GetDueQueueItems(ctx context.Context) ([]domain.QueueItem, error) {
	items, err := e.GetQueue(ctx)
	if err != nil {
		return nil, err
	}
	return queue.FilterDue(items, e.now()), nil
}

// GetDueDocumentsOnly filters the due queue down to document-kind
// entries, for a reading-only view.
func (e *Engine) GetDueDocumentsOnly(ctx context.Context) ([]domain.QueueItem, error) {
	due, err := e.GetDueQueueItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.QueueItem, 0, len(due))
	for _, item := range due {
		if item.ItemType == domain.KindDocument {
			out = append(out, item)
		}
	}
	return out, nil
}

// PreviewItemReview projects the four-outcome interval a rating would
// produce for a learning item, without committing anything.
func (e *Engine) PreviewItemReview(ctx context.Context, itemID string) (domain.FourOutcomes, error) {
	return e.applier.PreviewItem(ctx, itemID)
}

// PreviewDocumentReview projects the four-outcome interval for a
// document, using whichever scheduler the engine is configured with.
func (e *Engine) PreviewDocumentReview(ctx context.Context, docID string) (domain.FourOutcomes, error) {
	return e.applier.PreviewDocument(ctx, docID)
}

// PreviewExtractReview projects the four-outcome interval for an
// extract.
func (e *Engine) PreviewExtractReview(ctx context.Context, extractID string) (domain.FourOutcomes, error) {
	return e.applier.PreviewExtract(ctx, extractID)
}

// SubmitItemReview commits a rating for a learning item.
func (e *Engine) SubmitItemReview(ctx context.Context, itemID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.LearningItem, error) {
	start := e.now()
	item, err := e.applier.SubmitItemReview(ctx, itemID, rating, timeTakenS, sessionID)
	observability.ReviewCommitDuration.WithLabelValues("item").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	observability.ReviewsCommitted.WithLabelValues("item", rating.String()).Inc()
	if rating == domain.RatingAgain {
		observability.ReviewLapses.Inc()
	}
	return item, nil
}

// SubmitDocumentReview commits a rating for a document (RateDocument
// in the original API naming).
func (e *Engine) SubmitDocumentReview(ctx context.Context, docID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.Document, error) {
	start := e.now()
	doc, err := e.applier.SubmitDocumentReview(ctx, docID, rating, timeTakenS, sessionID)
	observability.ReviewCommitDuration.WithLabelValues("document").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	observability.ReviewsCommitted.WithLabelValues("document", rating.String()).Inc()
	return doc, nil
}

// SubmitExtractReview commits a rating for an extract.
func (e *Engine) SubmitExtractReview(ctx context.Context, extractID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.Extract, error) {
	start := e.now()
	ex, err := e.applier.SubmitExtractReview(ctx, extractID, rating, timeTakenS, sessionID)
	observability.ReviewCommitDuration.WithLabelValues("extract").Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	observability.ReviewsCommitted.WithLabelValues("extract", rating.String()).Inc()
	return ex, nil
}

// StartReview opens a new study session.
func (e *Engine) StartReview(ctx context.Context) (*domain.StudySession, error) {
	return e.Store.CreateReviewSession(ctx, e.now())
}

// EndReview closes a study session, stamping its end time.
func (e *Engine) EndReview(ctx context.Context, sessionID string) (*domain.StudySession, error) {
	sess, err := e.Store.GetReviewSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	ended := e.now()
	sess.EndedAt = &ended
	if err := e.Store.UpdateReviewSession(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// GetDashboardStats returns the top-level study dashboard summary.
func (e *Engine) GetDashboardStats(ctx context.Context) (stats.DashboardStats, error) {
	return e.stats.DashboardStats(ctx)
}

// GetMemoryStats returns the mature/young/new memory-strength
// breakdown.
func (e *Engine) GetMemoryStats(ctx context.Context) (stats.MemoryStats, error) {
	return e.stats.MemoryStats(ctx)
}

// GetActivityData returns a zero-filled daily activity series over
// the last days days.
func (e *Engine) GetActivityData(ctx context.Context, days int) ([]stats.ActivityDay, error) {
	return e.stats.ActivityData(ctx, days)
}

// GetCategoryStats returns per-category item/due counts.
func (e *Engine) GetCategoryStats(ctx context.Context) ([]stats.CategoryStat, error) {
	return e.stats.CategoryStats(ctx)
}

// GetReviewStreak returns the current/longest review streak summary.
func (e *Engine) GetReviewStreak(ctx context.Context) (stats.ReviewStreak, error) {
	return e.stats.ReviewStreak(ctx)
}

// GetAlgorithmComparison pairs the live scheduler averages against a
// simulated legacy projection.
func (e *Engine) GetAlgorithmComparison(ctx context.Context) (stats.AlgorithmComparison, error) {
	return e.stats.CompareAlgorithms(ctx)
}

// RegisterDocument inserts a new document row and, unless its content
// hash was already seen, queues it for external ingestion.
func (e *Engine) RegisterDocument(ctx context.Context, doc *domain.Document) (*ingest.PendingImport, error) {
	now := e.now()
	doc.DateCreated, doc.DateModified = now, now

	if doc.ContentHash != nil && e.dedup.MightExist(*doc.ContentHash) {
		existing, err := findDocumentByHash(ctx, e.Store, *doc.ContentHash)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.Conflictf("document with content hash %s already exists as %s", *doc.ContentHash, existing.ID)
		}
	}

	if err := e.Store.UpsertDocument(ctx, doc); err != nil {
		return nil, err
	}
	if doc.ContentHash != nil {
		e.dedup.Observe(*doc.ContentHash)
	}

	e.pending.Register(doc.ID, doc.FilePath, doc.PriorityRating)
	pending := ingest.PendingImport{DocumentID: doc.ID, FilePath: doc.FilePath}
	return &pending, nil
}

// NextPendingImport pops the highest-priority document still waiting
// on an external ingestion collaborator to fill in its content.
func (e *Engine) NextPendingImport() (ingest.PendingImport, bool) {
	return e.pending.Next()
}

func findDocumentByHash(ctx context.Context, s domain.Store, hash string) (*domain.Document, error) {
	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.ContentHash != nil && *d.ContentHash == hash {
			return d, nil
		}
	}
	return nil, nil
}
