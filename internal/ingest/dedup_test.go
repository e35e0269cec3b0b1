package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/storetest"
)

func TestDedupIndex_SeededFromExistingDocuments(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()
	now := time.Now()
	hash := "existing-hash"
	doc := &domain.Document{ID: "doc-1", Title: "D", FilePath: "d.pdf", FileType: domain.FilePDF, ContentHash: &hash, DateCreated: now, DateModified: now}
	if err := store.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	idx, err := NewDedupIndex(ctx, store)
	if err != nil {
		t.Fatalf("NewDedupIndex: %v", err)
	}

	if !idx.MightExist(hash) {
		t.Error("MightExist(existing hash) = false, want true")
	}
	if idx.MightExist("never-seen") {
		t.Error("MightExist(never-seen hash) = true, want false")
	}
}

func TestDedupIndex_ObserveMarksNewHash(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()

	idx, err := NewDedupIndex(ctx, store)
	if err != nil {
		t.Fatalf("NewDedupIndex: %v", err)
	}
	if idx.MightExist("fresh-hash") {
		t.Fatal("MightExist(fresh-hash) = true before Observe, want false")
	}

	idx.Observe("fresh-hash")
	if !idx.MightExist("fresh-hash") {
		t.Error("MightExist(fresh-hash) = false after Observe, want true")
	}
}

func TestDedupIndex_EmptyHashNeverMatches(t *testing.T) {
	ctx := context.Background()
	store := storetest.New()

	idx, err := NewDedupIndex(ctx, store)
	if err != nil {
		t.Fatalf("NewDedupIndex: %v", err)
	}
	if idx.MightExist("") {
		t.Error("MightExist(\"\") = true, want false")
	}
}
