package ingest

import (
	"time"

	"github.com/engramd/engram/internal/infra/dsa"
)

// PendingImport is a document row registered by `engramd import doc`
// ahead of an external ingestion collaborator filling in its content,
// page count, and extracted text.
type PendingImport struct {
	DocumentID string
	FilePath   string
}

// pendingBoost prevents a low-priority import request from waiting
// behind a steady stream of higher-priority ones: after 10 minutes
// unclaimed, its effective priority rises by one level.
var pendingBoost = dsa.PriorityQueueConfig{
	BoostInterval: 10 * time.Minute,
	MaxBoost:      3,
}

// PendingQueue holds documents registered but not yet filled in by an
// external ingestion collaborator, ordered by the document's priority
// rating (0 = unset/lowest, 4 = highest) with age-based starvation
// prevention so a forgotten low-priority import still surfaces.
type PendingQueue struct {
	heap *dsa.PriorityQueue
}

// NewPendingQueue creates an empty pending-import queue.
func NewPendingQueue() *PendingQueue {
	return &PendingQueue{heap: dsa.NewPriorityQueue(pendingBoost)}
}

// ratingPriority maps a 0..4 priority rating to heap priority, where
// lower numbers dequeue first; unset (0) sorts as the lowest urgency.
func ratingPriority(rating int) int {
	if rating <= 0 {
		return 4
	}
	return 4 - rating
}

// Register queues a newly created document for external ingestion.
func (q *PendingQueue) Register(documentID, filePath string, priorityRating int) {
	q.heap.Push(dsa.HeapItem{
		Key:      documentID,
		Priority: ratingPriority(priorityRating),
		Value:    PendingImport{DocumentID: documentID, FilePath: filePath},
	})
}

// Next pops the highest-priority pending import, or false if the
// queue is empty.
func (q *PendingQueue) Next() (PendingImport, bool) {
	item, ok := q.heap.Pop()
	if !ok {
		return PendingImport{}, false
	}
	return item.Value.(PendingImport), true
}

// Len reports how many imports are still pending.
func (q *PendingQueue) Len() int { return q.heap.Len() }
