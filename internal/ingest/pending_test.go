package ingest

import "testing"

func TestPendingQueue_OrdersByPriorityRating(t *testing.T) {
	q := NewPendingQueue()
	q.Register("low", "low.pdf", 1)
	q.Register("high", "high.pdf", 4)
	q.Register("unset", "unset.pdf", 0)

	first, ok := q.Next()
	if !ok || first.DocumentID != "high" {
		t.Fatalf("first = %+v, ok = %v, want high", first, ok)
	}
	second, ok := q.Next()
	if !ok || second.DocumentID != "low" {
		t.Fatalf("second = %+v, ok = %v, want low", second, ok)
	}
	third, ok := q.Next()
	if !ok || third.DocumentID != "unset" {
		t.Fatalf("third = %+v, ok = %v, want unset", third, ok)
	}
}

func TestPendingQueue_EmptyReturnsFalse(t *testing.T) {
	q := NewPendingQueue()
	if _, ok := q.Next(); ok {
		t.Error("Next() on empty queue returned ok = true")
	}
}

func TestPendingQueue_Len(t *testing.T) {
	q := NewPendingQueue()
	if q.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", q.Len())
	}
	q.Register("a", "a.pdf", 2)
	q.Register("b", "b.pdf", 3)
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	q.Next()
	if q.Len() != 1 {
		t.Fatalf("Len() after Next() = %d, want 1", q.Len())
	}
}
