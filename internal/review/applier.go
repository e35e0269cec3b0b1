// Package review implements the transactional review applier and the
// preview/what-if projector. Both route through the same per-kind
// scheduler selection and post-processing so a preview value is
// exactly what a subsequent commit would produce.
package review

import (
	"context"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/scheduler/document"
	"github.com/engramd/engram/internal/scheduler/extract"
	"github.com/engramd/engram/internal/scheduler/fsrs"
	"github.com/engramd/engram/internal/scheduler/incremental"
)

// DocumentSchedulerKind selects which scheduler governs documents.
type DocumentSchedulerKind string

const (
	DocumentFSRS        DocumentSchedulerKind = "fsrs"
	DocumentIncremental DocumentSchedulerKind = "incremental"
)

// ExtractSchedulerKind selects which scheduler governs extracts:
// either the simplified stability×multiplier model, or full FSRS.
type ExtractSchedulerKind string

const (
	ExtractSimplified ExtractSchedulerKind = "simplified"
	ExtractFSRS       ExtractSchedulerKind = "fsrs"
)

// Config selects scheduler variants and the shared target retention.
type Config struct {
	DocumentScheduler DocumentSchedulerKind
	ExtractScheduler  ExtractSchedulerKind
	TargetRetention   float64
}

// DefaultConfig is the simplified scheduler for extracts, FSRS for
// documents, and a 90% retention target.
func DefaultConfig() Config {
	return Config{
		DocumentScheduler: DocumentFSRS,
		ExtractScheduler:  ExtractSimplified,
		TargetRetention:   0.9,
	}
}

// Applier wires the three per-kind schedulers to a persistence
// contract and applies committed reviews transactionally.
type Applier struct {
	store domain.Store
	cfg   Config

	items        *fsrs.Scheduler
	documents    *document.Scheduler
	incremental  *incremental.Scheduler
	extracts     *extract.Scheduler
	extractsFSRS *fsrs.Scheduler

	now func() time.Time
}

// New builds an Applier over store using cfg's scheduler selection.
func New(store domain.Store, cfg Config) *Applier {
	return &Applier{
		store:        store,
		cfg:          cfg,
		items:        fsrs.Default(),
		documents:    document.Default(),
		incremental:  incremental.Default(),
		extracts:     extract.New(),
		extractsFSRS: fsrs.Default(),
		now:          time.Now,
	}
}

func elapsedDays(now time.Time, last *time.Time, created time.Time) float64 {
	from := created
	if last != nil {
		from = *last
	}
	elapsed := now.Sub(from).Hours() / 24.0
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// splitConsecutive decodes a document's persisted ConsecutiveCount into
// the (good, hard) streak pair incremental.Schedule expects, per
// NextConsecutiveCount's sign convention: positive is a good streak,
// negative is a hard/again streak, zero is neither.
func splitConsecutive(count int) (good, hard int) {
	if count > 0 {
		return count, 0
	}
	if count < 0 {
		return 0, -count
	}
	return 0, 0
}

func nextState(rating domain.Rating, interval float64) domain.ItemState {
	if rating == domain.RatingAgain {
		return domain.StateRelearning
	}
	if interval >= domain.GraduationIntervalDays {
		return domain.StateReview
	}
	return domain.StateLearning
}

// SubmitItemReview applies a rating to a learning item's FSRS state,
// scheduling its next review inside a single persistence transaction.
func (a *Applier) SubmitItemReview(ctx context.Context, itemID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.LearningItem, error) {
	if _, err := domain.ParseRating(int(rating)); err != nil {
		return nil, err
	}

	var result *domain.LearningItem
	err := a.store.WithTx(ctx, func(ctx context.Context, tx domain.Store) error {
		item, err := tx.GetLearningItem(ctx, itemID)
		if err != nil {
			return err
		}

		now := a.now()
		elapsed := elapsedDays(now, item.LastReviewDate, item.DateCreated)
		oldState := item.State

		sched, err := a.items.Schedule(item.MemoryState, rating, elapsed, a.cfg.TargetRetention)
		if err != nil {
			return domain.Schedulerf("scheduling item %s: %v", itemID, err)
		}

		due := now.Add(secondsRounded(sched.IntervalDays))

		item.MemoryState = &domain.MemoryState{Stability: sched.NextStability, Difficulty: sched.NextDifficulty}
		item.Interval = sched.IntervalDays
		item.State = nextState(rating, sched.IntervalDays)
		item.DueDate = due
		item.LastReviewDate = &now
		item.DateModified = now
		item.ReviewCount++
		if rating == domain.RatingAgain {
			item.Lapses++
		}

		if err := tx.UpsertLearningItem(ctx, item); err != nil {
			return err
		}

		if err := appendEvent(ctx, tx, domain.KindLearningItem, itemID, rating, timeTakenS, due, sched.IntervalDays, item.EaseFactor, sessionID, now); err != nil {
			return err
		}
		if err := rollDailyStats(ctx, tx, rating, timeTakenS, oldState, now); err != nil {
			return err
		}
		if err := touchSession(ctx, tx, sessionID, rating); err != nil {
			return err
		}

		result = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitDocumentReview applies a rating to a document, via the FSRS
// scheduler or the incremental-rotation scheduler per configuration.
func (a *Applier) SubmitDocumentReview(ctx context.Context, docID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.Document, error) {
	if _, err := domain.ParseRating(int(rating)); err != nil {
		return nil, err
	}

	var result *domain.Document
	err := a.store.WithTx(ctx, func(ctx context.Context, tx domain.Store) error {
		doc, err := tx.GetDocument(ctx, docID)
		if err != nil {
			return err
		}

		now := a.now()
		oldState := domain.StateNew
		if doc.Reps > 0 {
			oldState = domain.StateReview
		}
		var lastReview *time.Time
		if doc.Reps > 0 {
			lastReview = &doc.DateModified
		}
		elapsed := elapsedDays(now, lastReview, doc.DateCreated)

		var intervalDays, stability, difficulty float64
		switch a.cfg.DocumentScheduler {
		case DocumentIncremental:
			consecGood, consecHard := splitConsecutive(doc.ConsecutiveCount)
			res, err := a.incremental.Schedule(rating, consecGood, consecHard)
			if err != nil {
				return domain.Schedulerf("scheduling document %s: %v", docID, err)
			}
			intervalDays, stability, difficulty = res.IntervalDays, res.Stability, res.Difficulty
			doc.ConsecutiveCount = res.NextConsecutiveCount
		default:
			var state *domain.MemoryState
			if doc.Stability != nil && doc.Difficulty != nil {
				state = &domain.MemoryState{Stability: *doc.Stability, Difficulty: *doc.Difficulty}
			}
			res, err := a.documents.Schedule(state, rating, elapsed, a.cfg.TargetRetention)
			if err != nil {
				return domain.Schedulerf("scheduling document %s: %v", docID, err)
			}
			intervalDays, stability, difficulty = res.IntervalDays, res.NextStability, res.NextDifficulty
		}

		due := now.Add(secondsRounded(intervalDays))
		doc.Stability = &stability
		doc.Difficulty = &difficulty
		doc.NextReadingDate = &due
		doc.Reps++
		doc.TotalTimeSpent += timeTakenS
		doc.DateModified = now

		if err := tx.UpsertDocument(ctx, doc); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, domain.KindDocument, docID, rating, timeTakenS, due, intervalDays, 0, sessionID, now); err != nil {
			return err
		}
		if err := rollDailyStats(ctx, tx, rating, timeTakenS, oldState, now); err != nil {
			return err
		}
		if err := touchSession(ctx, tx, sessionID, rating); err != nil {
			return err
		}

		result = doc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitExtractReview applies a rating to an extract via the
// simplified scheduler (default) or FSRS per configuration.
func (a *Applier) SubmitExtractReview(ctx context.Context, extractID string, rating domain.Rating, timeTakenS int, sessionID *string) (*domain.Extract, error) {
	if _, err := domain.ParseRating(int(rating)); err != nil {
		return nil, err
	}

	var result *domain.Extract
	err := a.store.WithTx(ctx, func(ctx context.Context, tx domain.Store) error {
		ex, err := tx.GetExtract(ctx, extractID)
		if err != nil {
			return err
		}

		now := a.now()
		oldState := domain.StateNew
		if ex.ReviewCount > 0 {
			oldState = domain.StateReview
		}

		var stability, difficulty float64
		var due time.Time
		switch a.cfg.ExtractScheduler {
		case ExtractFSRS:
			elapsed := elapsedDays(now, ex.LastReviewDate, ex.DateCreated)
			res, err := a.extractsFSRS.Schedule(ex.MemoryState, rating, elapsed, a.cfg.TargetRetention)
			if err != nil {
				return domain.Schedulerf("scheduling extract %s: %v", extractID, err)
			}
			stability, difficulty = res.NextStability, res.NextDifficulty
			due = now.Add(secondsRounded(res.IntervalDays))
		default:
			res, err := a.extracts.Schedule(ex.MemoryState, rating, now)
			if err != nil {
				return domain.Schedulerf("scheduling extract %s: %v", extractID, err)
			}
			stability, difficulty, due = res.NextStability, res.NextDifficulty, res.DueDate
		}

		ex.MemoryState = &domain.MemoryState{Stability: stability, Difficulty: difficulty}
		ex.NextReviewDate = &due
		ex.LastReviewDate = &now
		ex.ReviewCount++
		ex.Reps++
		ex.DateModified = now

		if err := tx.UpsertExtract(ctx, ex); err != nil {
			return err
		}
		if err := appendEvent(ctx, tx, domain.KindExtract, extractID, rating, timeTakenS, due, stability, 0, sessionID, now); err != nil {
			return err
		}
		if err := rollDailyStats(ctx, tx, rating, timeTakenS, oldState, now); err != nil {
			return err
		}
		if err := touchSession(ctx, tx, sessionID, rating); err != nil {
			return err
		}

		result = ex
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func appendEvent(ctx context.Context, tx domain.Store, kind domain.QueueItemKind, itemID string, rating domain.Rating, timeTakenS int, due time.Time, interval, ease float64, sessionID *string, now time.Time) error {
	ev := &domain.ReviewEvent{
		SessionID:      sessionID,
		ItemID:         itemID,
		ItemKind:       kind,
		Rating:         rating,
		TimeTakenS:     timeTakenS,
		ResultDue:      due,
		ResultInterval: interval,
		EaseFactor:     ease,
		Timestamp:      now,
	}
	return tx.CreateReviewEvent(ctx, ev)
}

func rollDailyStats(ctx context.Context, tx domain.Store, rating domain.Rating, timeTakenS int, state domain.ItemState, now time.Time) error {
	day := now.UTC().Format("2006-01-02")
	return tx.UpsertDailyStats(ctx, day, func(d *domain.DailyStats) {
		d.CardsReviewed++
		if rating >= domain.RatingGood {
			d.CorrectReviews++
		}
		d.StudyTimeS += timeTakenS
		switch state {
		case domain.StateNew:
			d.NewCards++
		case domain.StateLearning, domain.StateRelearning:
			d.LearningCards++
		case domain.StateReview:
			d.ReviewCards++
		}
	})
}

func touchSession(ctx context.Context, tx domain.Store, sessionID *string, rating domain.Rating) error {
	if sessionID == nil {
		return nil
	}
	sess, err := tx.GetReviewSession(ctx, *sessionID)
	if err != nil {
		return err
	}
	sess.ItemsReviewed++
	if rating >= domain.RatingGood {
		sess.CorrectCount++
	}
	return tx.UpdateReviewSession(ctx, sess)
}

// secondsRounded turns a day-fraction interval into a time.Duration
// rounded to whole seconds, with a 60-second floor.
func secondsRounded(intervalDays float64) time.Duration {
	seconds := intervalDays * 86400
	rounded := time.Duration(roundFloat(seconds)) * time.Second
	if rounded < 60*time.Second {
		return 60 * time.Second
	}
	return rounded
}

func roundFloat(v float64) int64 {
	if v < 0 {
		return int64(v - 0.5)
	}
	return int64(v + 0.5)
}
