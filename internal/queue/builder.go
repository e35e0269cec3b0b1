// Package queue implements the unified review queue: Build materialises
// eligible documents, extracts, and learning items into QueueItems;
// the selector (selector.go) orders and samples from the result.
package queue

import (
	"context"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/scheduler/priority"
)

const (
	maturedIntervalDays = 21.0

	estimatedMinutesCloze    = 2
	estimatedMinutesQA       = 3
	estimatedMinutesDefault  = 1
	estimatedMinutesExtract  = 3
	estimatedMinutesDocument = 5
)

// Build scans the store and returns every eligible QueueItem, sorted
// by the deterministic total order (−priority, due_date ascending, id
// ascending).
func Build(ctx context.Context, store domain.Store, now time.Time) ([]domain.QueueItem, error) {
	var items []domain.QueueItem

	learningItems, err := store.ListAllLearningItems(ctx)
	if err != nil {
		return nil, domain.Persistencef(err, "listing learning items")
	}
	documentTitles := make(map[string]string)
	for _, li := range learningItems {
		if li.IsSuspended {
			continue
		}
		title, err := documentTitle(ctx, store, documentTitles, li.DocumentID)
		if err != nil {
			return nil, err
		}
		items = append(items, learningItemQueueEntry(li, title, now))
	}

	due, err := store.GetDueExtracts(ctx, now)
	if err != nil {
		return nil, domain.Persistencef(err, "listing due extracts")
	}
	fresh, err := store.GetNewExtracts(ctx)
	if err != nil {
		return nil, domain.Persistencef(err, "listing new extracts")
	}
	for _, ex := range append(due, fresh...) {
		title, err := documentTitle(ctx, store, documentTitles, &ex.DocumentID)
		if err != nil {
			return nil, err
		}
		items = append(items, extractQueueEntry(ex, title))
	}

	documents, err := store.ListDocuments(ctx)
	if err != nil {
		return nil, domain.Persistencef(err, "listing documents")
	}
	for _, doc := range documents {
		if doc.IsArchived {
			continue
		}
		items = append(items, documentQueueEntry(doc, now))
	}

	sortItems(items)
	return items, nil
}

func documentTitle(ctx context.Context, store domain.Store, cache map[string]string, docID *string) (string, error) {
	if docID == nil || *docID == "" {
		return "Unknown Document", nil
	}
	if title, ok := cache[*docID]; ok {
		return title, nil
	}
	doc, err := store.GetDocument(ctx, *docID)
	if err != nil {
		if domain.KindOf(err) == domain.ErrNotFound {
			cache[*docID] = "Unknown Document"
			return "Unknown Document", nil
		}
		return "", domain.Persistencef(err, "loading document %s", *docID)
	}
	cache[*docID] = doc.Title
	return doc.Title, nil
}

func learningItemQueueEntry(li *domain.LearningItem, documentTitle string, now time.Time) domain.QueueItem {
	difficulty := float64(li.Difficulty)
	p := priority.Generic(now, li.DueDate, li.Interval, difficulty, li.ReviewCount)

	estimated := estimatedMinutesDefault
	switch li.ItemType {
	case domain.ItemCloze:
		estimated = estimatedMinutesCloze
	case domain.ItemQA:
		estimated = estimatedMinutesQA
	}

	progress := 0
	if li.ReviewCount > 0 {
		if li.Interval >= maturedIntervalDays {
			progress = 100
		} else {
			progress = int(li.Interval / maturedIntervalDays * 100)
		}
	}

	due := li.DueDate
	docID := ""
	if li.DocumentID != nil {
		docID = *li.DocumentID
	}

	return domain.QueueItem{
		ID:             li.ID,
		DocumentID:     docID,
		DocumentTitle:  documentTitle,
		ExtractID:      li.ExtractID,
		LearningItemID: &li.ID,
		ItemType:       domain.KindLearningItem,
		Priority:       p,
		DueDate:        &due,
		EstimatedTime:  estimated,
		Tags:           li.Tags,
		Progress:       progress,
	}
}

func extractQueueEntry(ex *domain.Extract, documentTitle string) domain.QueueItem {
	p := priority.Extract(ex.ReviewCount)
	return domain.QueueItem{
		ID:            ex.ID,
		DocumentID:    ex.DocumentID,
		DocumentTitle: documentTitle + " - Extract",
		ExtractID:     &ex.ID,
		ItemType:      domain.KindExtract,
		Priority:      p,
		DueDate:       ex.NextReviewDate,
		EstimatedTime: estimatedMinutesExtract,
		Tags:          ex.Tags,
		Category:      ex.Category,
		Progress:      0,
	}
}

func documentQueueEntry(doc *domain.Document, now time.Time) domain.QueueItem {
	p := priority.FSRSDocument(now, doc.NextReadingDate, doc.Stability, doc.Difficulty, doc.PriorityRating)

	progress := 0
	if doc.CurrentPage != nil && doc.TotalPages != nil && *doc.TotalPages > 0 {
		progress = int(float64(*doc.CurrentPage) / float64(*doc.TotalPages) * 100)
	}

	var ratingPtr, sliderPtr *int
	if doc.PriorityRating != 0 {
		r := doc.PriorityRating
		ratingPtr = &r
	}
	s := doc.PrioritySlider
	sliderPtr = &s

	return domain.QueueItem{
		ID:             doc.ID,
		DocumentID:     doc.ID,
		DocumentTitle:  doc.Title,
		ItemType:       domain.KindDocument,
		PriorityRating: ratingPtr,
		PrioritySlider: sliderPtr,
		Priority:       p,
		DueDate:        doc.NextReadingDate,
		EstimatedTime:  estimatedMinutesDocument,
		Tags:           doc.Tags,
		Category:       doc.Category,
		Progress:       progress,
	}
}
