package review

import (
	"context"
	"time"

	"github.com/engramd/engram/internal/domain"
)

// PreviewItem projects the four-outcome interval table for a learning
// item without persisting anything. It calls the same scheduler
// Preview that Schedule is built from, so a later SubmitItemReview with
// the same rating reproduces the previewed interval exactly.
func (a *Applier) PreviewItem(ctx context.Context, itemID string) (domain.FourOutcomes, error) {
	item, err := a.store.GetLearningItem(ctx, itemID)
	if err != nil {
		return domain.FourOutcomes{}, err
	}
	now := a.now()
	elapsed := elapsedDays(now, item.LastReviewDate, item.DateCreated)
	return a.items.Preview(item.MemoryState, elapsed, a.cfg.TargetRetention)
}

// PreviewDocument projects the four-outcome table for a document using
// whichever scheduler is currently configured.
func (a *Applier) PreviewDocument(ctx context.Context, docID string) (domain.FourOutcomes, error) {
	doc, err := a.store.GetDocument(ctx, docID)
	if err != nil {
		return domain.FourOutcomes{}, err
	}
	now := a.now()

	if a.cfg.DocumentScheduler == DocumentIncremental {
		return a.previewIncrementalDocument(doc)
	}

	var lastReview *time.Time
	if doc.Reps > 0 {
		lastReview = &doc.DateModified
	}
	elapsed := elapsedDays(now, lastReview, doc.DateCreated)

	var state *domain.MemoryState
	if doc.Stability != nil && doc.Difficulty != nil {
		state = &domain.MemoryState{Stability: *doc.Stability, Difficulty: *doc.Difficulty}
	}
	return a.documents.Preview(state, elapsed, a.cfg.TargetRetention)
}

// previewIncrementalDocument projects the incremental scheduler's
// interval for each rating at the document's current streak count, so
// a preview matches what SubmitDocumentReview would actually commit.
func (a *Applier) previewIncrementalDocument(doc *domain.Document) (domain.FourOutcomes, error) {
	consecGood, consecHard := splitConsecutive(doc.ConsecutiveCount)

	var out domain.FourOutcomes
	ratings := []struct {
		r   domain.Rating
		set func(float64)
	}{
		{domain.RatingAgain, func(v float64) { out.Again = v }},
		{domain.RatingHard, func(v float64) { out.Hard = v }},
		{domain.RatingGood, func(v float64) { out.Good = v }},
		{domain.RatingEasy, func(v float64) { out.Easy = v }},
	}
	for _, entry := range ratings {
		res, err := a.incremental.Schedule(entry.r, consecGood, consecHard)
		if err != nil {
			return domain.FourOutcomes{}, err
		}
		entry.set(res.IntervalDays)
	}
	return out, nil
}

// PreviewExtract projects the four-outcome table for an extract using
// whichever scheduler is currently configured.
func (a *Applier) PreviewExtract(ctx context.Context, extractID string) (domain.FourOutcomes, error) {
	ex, err := a.store.GetExtract(ctx, extractID)
	if err != nil {
		return domain.FourOutcomes{}, err
	}
	now := a.now()

	if a.cfg.ExtractScheduler == ExtractFSRS {
		elapsed := elapsedDays(now, ex.LastReviewDate, ex.DateCreated)
		return a.extractsFSRS.Preview(ex.MemoryState, elapsed, a.cfg.TargetRetention)
	}
	return a.extracts.Preview(ex.MemoryState, now)
}
