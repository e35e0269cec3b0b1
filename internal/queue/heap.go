package queue

import "github.com/engramd/engram/internal/domain"

// topKHeap is a binary min-heap over domain.QueueItem ordered by the
// queue's total order (−priority, due_date ascending, id ascending) so
// that the root is always the least urgent item currently held. That
// makes it cheap to decide whether a new candidate displaces it when
// collecting the top K.
type topKHeap struct {
	items []domain.QueueItem
}

func (h *topKHeap) Len() int { return len(h.items) }

// less reports whether item i outranks item j in queue order (i.e. i
// would be dequeued before j by sortItems).
func less(i, j domain.QueueItem) bool {
	if i.Priority != j.Priority {
		return i.Priority > j.Priority
	}
	id, jd := i.DueDate, j.DueDate
	switch {
	case id == nil && jd == nil:
	case id == nil:
		return false
	case jd == nil:
		return true
	case !id.Equal(*jd):
		return id.Before(*jd)
	}
	return i.ID < j.ID
}

// worseThan reports whether a is ranked worse (less urgent) than b,
// the min-heap ordering used internally to track the weakest member
// of a bounded top-K set.
func worseThan(a, b domain.QueueItem) bool { return less(b, a) }

func (h *topKHeap) push(item domain.QueueItem) {
	h.items = append(h.items, item)
	h.siftUp(len(h.items) - 1)
}

func (h *topKHeap) popWorst() domain.QueueItem {
	top := h.items[0]
	last := len(h.items) - 1
	h.items[0] = h.items[last]
	h.items = h.items[:last]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return top
}

func (h *topKHeap) siftUp(idx int) {
	for idx > 0 {
		parent := (idx - 1) / 2
		if worseThan(h.items[idx], h.items[parent]) {
			h.items[idx], h.items[parent] = h.items[parent], h.items[idx]
			idx = parent
		} else {
			break
		}
	}
}

func (h *topKHeap) siftDown(idx int) {
	n := len(h.items)
	for {
		worst := idx
		left, right := 2*idx+1, 2*idx+2
		if left < n && worseThan(h.items[left], h.items[worst]) {
			worst = left
		}
		if right < n && worseThan(h.items[right], h.items[worst]) {
			worst = right
		}
		if worst == idx {
			break
		}
		h.items[idx], h.items[worst] = h.items[worst], h.items[idx]
		idx = worst
	}
}

// topK returns the K highest-ranked items from items, in descending
// queue order. It keeps a bounded min-heap of size K so the full set
// need not be sorted.
func topK(items []domain.QueueItem, k int) []domain.QueueItem {
	if k <= 0 {
		return nil
	}
	h := &topKHeap{}
	for _, item := range items {
		if h.Len() < k {
			h.push(item)
			continue
		}
		if worseThan(item, h.items[0]) {
			continue
		}
		h.popWorst()
		h.push(item)
	}
	out := make([]domain.QueueItem, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = h.popWorst()
	}
	return out
}
