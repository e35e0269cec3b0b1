package dsa

import (
	"testing"
	"time"
)

func TestPriorityQueue_PopsLowestPriorityFirst(t *testing.T) {
	pq := NewPriorityQueue(PriorityQueueConfig{})
	pq.Push(HeapItem{Key: "low", Priority: 3})
	pq.Push(HeapItem{Key: "high", Priority: 0})
	pq.Push(HeapItem{Key: "mid", Priority: 1})

	order := []string{}
	for pq.Len() > 0 {
		item, _ := pq.Pop()
		order = append(order, item.Key)
	}
	want := []string{"high", "mid", "low"}
	for i, k := range want {
		if order[i] != k {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestPriorityQueue_StarvationBoost(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pq := NewPriorityQueue(PriorityQueueConfig{BoostInterval: time.Minute, MaxBoost: 5})
	pq.now = func() time.Time { return now }

	pq.Push(HeapItem{Key: "old-low", Priority: 3})
	now = now.Add(10 * time.Minute)
	pq.Push(HeapItem{Key: "new-high", Priority: 1})

	item, ok := pq.Pop()
	if !ok || item.Key != "old-low" {
		t.Fatalf("Pop() = %+v, want old-low boosted ahead of new-high", item)
	}
}

func TestPriorityQueue_PeekDoesNotRemove(t *testing.T) {
	pq := NewPriorityQueue(PriorityQueueConfig{})
	pq.Push(HeapItem{Key: "only", Priority: 0})
	if _, ok := pq.Peek(); !ok {
		t.Fatal("Peek() ok = false on non-empty queue")
	}
	if pq.Len() != 1 {
		t.Fatalf("Len() after Peek = %d, want 1", pq.Len())
	}
}

func TestPriorityQueue_PopEmptyReturnsFalse(t *testing.T) {
	pq := NewPriorityQueue(PriorityQueueConfig{})
	if _, ok := pq.Pop(); ok {
		t.Error("Pop() on empty queue returned ok = true")
	}
}
