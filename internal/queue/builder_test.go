package queue

import (
	"context"
	"testing"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/storetest"
)

func TestBuild_SkipsSuspendedAndArchived(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store.LearningItems["active"] = &domain.LearningItem{ID: "active", ItemType: domain.ItemBasic, DueDate: now, Tags: []string{}}
	store.LearningItems["suspended"] = &domain.LearningItem{ID: "suspended", ItemType: domain.ItemBasic, DueDate: now, IsSuspended: true, Tags: []string{}}

	store.Documents["live"] = &domain.Document{ID: "live", Title: "Live Doc"}
	store.Documents["archived"] = &domain.Document{ID: "archived", Title: "Archived Doc", IsArchived: true}

	items, err := Build(ctx, store, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ids := map[string]bool{}
	for _, item := range items {
		ids[item.ID] = true
	}
	if !ids["active"] || ids["suspended"] {
		t.Errorf("expected active learning item, not suspended: %+v", items)
	}
	if !ids["live"] || ids["archived"] {
		t.Errorf("expected live document, not archived: %+v", items)
	}
}

func TestBuild_IncludesNewAndDueExtracts(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	store.Extracts["new"] = &domain.Extract{ID: "new", DocumentID: "doc1"}
	store.Extracts["due"] = &domain.Extract{ID: "due", DocumentID: "doc1", ReviewCount: 2, NextReviewDate: &past}
	store.Documents["doc1"] = &domain.Document{ID: "doc1", Title: "Doc"}

	items, err := Build(ctx, store, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := map[string]bool{}
	for _, item := range items {
		ids[item.ID] = true
	}
	if !ids["new"] || !ids["due"] {
		t.Errorf("expected both new and due extracts present: %+v", items)
	}
}

func TestBuild_SortedDescendingPriority(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store.Extracts["new"] = &domain.Extract{ID: "new", DocumentID: "doc1"} // priority 9.0
	store.LearningItems["far"] = &domain.LearningItem{
		ID: "far", ItemType: domain.ItemBasic, DueDate: now.Add(30 * 24 * time.Hour), ReviewCount: 10, Tags: []string{},
	} // priority 2.something
	store.Documents["doc1"] = &domain.Document{ID: "doc1", Title: "Doc"}

	items, err := Build(ctx, store, now)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Priority < items[i].Priority {
			t.Errorf("items not sorted descending: %+v", items)
		}
	}
}
