package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/engramd/engram/internal/domain"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:", 1)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDocument_UpsertAndGet_RoundTrips(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	hash := "abc123"
	category := "science"
	doc := &domain.Document{
		ID:             "doc-1",
		Title:          "A Brief History",
		FilePath:       "/tmp/book.pdf",
		FileType:       domain.FilePDF,
		ContentHash:    &hash,
		Category:       &category,
		Tags:           []string{"physics", "cosmology"},
		PriorityRating: 3,
		PrioritySlider: 60,
		Metadata:       domain.DocumentMetadata{Author: "Author", Language: "en"},
		DateCreated:    now,
		DateModified:   now,
	}

	if err := db.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, err := db.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != doc.Title || got.FileType != doc.FileType {
		t.Errorf("got = %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "physics" {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.ContentHash == nil || *got.ContentHash != hash {
		t.Errorf("ContentHash = %v", got.ContentHash)
	}
	if !got.DateCreated.Equal(now) {
		t.Errorf("DateCreated = %v, want %v", got.DateCreated, now)
	}
}

func TestDocument_DuplicateContentHash_Conflicts(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()
	hash := "dup-hash"

	a := &domain.Document{ID: "a", Title: "A", FilePath: "a.pdf", FileType: domain.FilePDF, ContentHash: &hash, DateCreated: now, DateModified: now}
	b := &domain.Document{ID: "b", Title: "B", FilePath: "b.pdf", FileType: domain.FilePDF, ContentHash: &hash, DateCreated: now, DateModified: now}

	if err := db.UpsertDocument(ctx, a); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.UpsertDocument(ctx, b)
	if err == nil {
		t.Fatal("expected conflict error for duplicate content_hash")
	}
	if domain.KindOf(err) != domain.ErrConflict {
		t.Errorf("KindOf = %v, want ErrConflict", domain.KindOf(err))
	}
}

func TestDocument_GetNotFound(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	_, err := db.GetDocument(ctx, "missing")
	if domain.KindOf(err) != domain.ErrNotFound {
		t.Errorf("KindOf = %v, want ErrNotFound", domain.KindOf(err))
	}
}

func TestDocument_DeleteCascadesToExtractsAndItems(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()

	doc := &domain.Document{ID: "doc-1", Title: "D", FilePath: "d.pdf", FileType: domain.FileText, DateCreated: now, DateModified: now}
	if err := db.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	ex := &domain.Extract{ID: "ex-1", DocumentID: "doc-1", Content: "quote", DateCreated: now, DateModified: now}
	if err := db.UpsertExtract(ctx, ex); err != nil {
		t.Fatalf("UpsertExtract: %v", err)
	}

	docID := "doc-1"
	item := domain.NewLearningItem("item-1", domain.ItemBasic, "Q?", now)
	item.DocumentID = &docID
	if err := db.UpsertLearningItem(ctx, item); err != nil {
		t.Fatalf("UpsertLearningItem: %v", err)
	}

	if err := db.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}

	if _, err := db.GetExtract(ctx, "ex-1"); domain.KindOf(err) != domain.ErrNotFound {
		t.Errorf("expected extract to cascade-delete, err = %v", err)
	}
	if _, err := db.GetLearningItem(ctx, "item-1"); domain.KindOf(err) != domain.ErrNotFound {
		t.Errorf("expected learning item to cascade-delete, err = %v", err)
	}
}

func TestExtract_DueAndNewQueries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	doc := &domain.Document{ID: "doc-1", Title: "D", FilePath: "d.pdf", FileType: domain.FileText, DateCreated: now, DateModified: now}
	if err := db.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	newEx := &domain.Extract{ID: "new", DocumentID: "doc-1", Content: "c", DateCreated: now, DateModified: now}
	dueEx := &domain.Extract{ID: "due", DocumentID: "doc-1", Content: "c", ReviewCount: 1, NextReviewDate: &past, DateCreated: now, DateModified: now}
	notDueEx := &domain.Extract{ID: "not-due", DocumentID: "doc-1", Content: "c", ReviewCount: 1, NextReviewDate: &future, DateCreated: now, DateModified: now}
	for _, e := range []*domain.Extract{newEx, dueEx, notDueEx} {
		if err := db.UpsertExtract(ctx, e); err != nil {
			t.Fatalf("UpsertExtract(%s): %v", e.ID, err)
		}
	}

	due, err := db.GetDueExtracts(ctx, now)
	if err != nil {
		t.Fatalf("GetDueExtracts: %v", err)
	}
	if len(due) != 1 || due[0].ID != "due" {
		t.Errorf("due = %+v", due)
	}

	newOnes, err := db.GetNewExtracts(ctx)
	if err != nil {
		t.Fatalf("GetNewExtracts: %v", err)
	}
	if len(newOnes) != 1 || newOnes[0].ID != "new" {
		t.Errorf("new = %+v", newOnes)
	}
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()

	doc := &domain.Document{ID: "doc-1", Title: "D", FilePath: "d.pdf", FileType: domain.FileText, DateCreated: now, DateModified: now}
	if err := db.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	boom := errors.New("boom")
	err := db.WithTx(ctx, func(ctx context.Context, tx domain.Store) error {
		doc.Title = "Changed"
		if err := tx.UpsertDocument(ctx, doc); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx error = %v, want boom", err)
	}

	got, err := db.GetDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "D" {
		t.Errorf("Title = %q, want unchanged %q after rollback", got.Title, "D")
	}
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Now()

	err := db.WithTx(ctx, func(ctx context.Context, tx domain.Store) error {
		item := domain.NewLearningItem("item-1", domain.ItemBasic, "Q?", now)
		return tx.UpsertLearningItem(ctx, item)
	})
	if err != nil {
		t.Fatalf("WithTx: %v", err)
	}

	if _, err := db.GetLearningItem(ctx, "item-1"); err != nil {
		t.Errorf("GetLearningItem after commit: %v", err)
	}
}

func TestDailyStats_UpsertAccumulates(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	apply := func(d *domain.DailyStats) { d.CardsReviewed++; d.StudyTimeS += 30 }
	if err := db.UpsertDailyStats(ctx, "2026-01-01", apply); err != nil {
		t.Fatalf("UpsertDailyStats (1): %v", err)
	}
	if err := db.UpsertDailyStats(ctx, "2026-01-01", apply); err != nil {
		t.Fatalf("UpsertDailyStats (2): %v", err)
	}

	stats, err := db.ListDailyStats(ctx)
	if err != nil {
		t.Fatalf("ListDailyStats: %v", err)
	}
	if len(stats) != 1 || stats[0].CardsReviewed != 2 || stats[0].StudyTimeS != 60 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestReviewSession_CreateUpdateGet(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	sess, err := db.CreateReviewSession(ctx, now)
	if err != nil {
		t.Fatalf("CreateReviewSession: %v", err)
	}

	sess.ItemsReviewed = 5
	sess.CorrectCount = 4
	ended := now.Add(10 * time.Minute)
	sess.EndedAt = &ended
	if err := db.UpdateReviewSession(ctx, sess); err != nil {
		t.Fatalf("UpdateReviewSession: %v", err)
	}

	got, err := db.GetReviewSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetReviewSession: %v", err)
	}
	if got.ItemsReviewed != 5 || got.CorrectCount != 4 || got.EndedAt == nil {
		t.Errorf("got = %+v", got)
	}
}
