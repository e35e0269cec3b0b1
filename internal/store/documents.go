package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/engramd/engram/internal/domain"
)

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeTags(raw string) ([]string, error) {
	if raw == "" {
		return []string{}, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

func (s *entityStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.c.QueryRowContext(ctx, `
		SELECT id, title, file_path, file_type, content, content_hash, total_pages, current_page,
			category, tags, priority_rating, priority_slider,
			meta_author, meta_source_url, meta_language, meta_word_count, meta_imported_via,
			next_reading_date, stability, difficulty, reps, total_time_spent, consecutive_count,
			is_archived, is_favorite, date_created, date_modified
		FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, notFoundOrErr("document", id, err)
	}
	return doc, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var d domain.Document
	var tags string
	var isArchived, isFavorite int
	var nextReading, dateCreated, dateModified sql.NullString
	var contentHash sql.NullString
	var content sql.NullString
	var category sql.NullString
	var totalPages, currentPage sql.NullInt64
	var stability, difficulty sql.NullFloat64

	err := row.Scan(
		&d.ID, &d.Title, &d.FilePath, &d.FileType, &content, &contentHash, &totalPages, &currentPage,
		&category, &tags, &d.PriorityRating, &d.PrioritySlider,
		&d.Metadata.Author, &d.Metadata.SourceURL, &d.Metadata.Language, &d.Metadata.WordCount, &d.Metadata.ImportedVia,
		&nextReading, &stability, &difficulty, &d.Reps, &d.TotalTimeSpent, &d.ConsecutiveCount,
		&isArchived, &isFavorite, &dateCreated, &dateModified,
	)
	if err != nil {
		return nil, err
	}

	d.Tags, err = decodeTags(tags)
	if err != nil {
		return nil, err
	}
	if content.Valid {
		d.Content = &content.String
	}
	if contentHash.Valid {
		d.ContentHash = &contentHash.String
	}
	if category.Valid {
		d.Category = &category.String
	}
	if totalPages.Valid {
		v := int(totalPages.Int64)
		d.TotalPages = &v
	}
	if currentPage.Valid {
		v := int(currentPage.Int64)
		d.CurrentPage = &v
	}
	if stability.Valid {
		v := stability.Float64
		d.Stability = &v
	}
	if difficulty.Valid {
		v := difficulty.Float64
		d.Difficulty = &v
	}
	if nextReading.Valid {
		t, err := parseTime(nextReading.String)
		if err != nil {
			return nil, err
		}
		d.NextReadingDate = &t
	}
	d.IsArchived = isArchived != 0
	d.IsFavorite = isFavorite != 0
	if d.DateCreated, err = parseTime(dateCreated.String); err != nil {
		return nil, err
	}
	if d.DateModified, err = parseTime(dateModified.String); err != nil {
		return nil, err
	}
	return &d, nil
}

func (s *entityStore) UpsertDocument(ctx context.Context, doc *domain.Document) error {
	tags, err := encodeTags(doc.Tags)
	if err != nil {
		return domain.InvalidInputf("encoding tags: %v", err)
	}

	archived, favorite := 0, 0
	if doc.IsArchived {
		archived = 1
	}
	if doc.IsFavorite {
		favorite = 1
	}

	_, err = s.c.ExecContext(ctx, `
		INSERT INTO documents (
			id, title, file_path, file_type, content, content_hash, total_pages, current_page,
			category, tags, priority_rating, priority_slider,
			meta_author, meta_source_url, meta_language, meta_word_count, meta_imported_via,
			next_reading_date, stability, difficulty, reps, total_time_spent, consecutive_count,
			is_archived, is_favorite, date_created, date_modified
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title, file_path = excluded.file_path, file_type = excluded.file_type,
			content = excluded.content, content_hash = excluded.content_hash,
			total_pages = excluded.total_pages, current_page = excluded.current_page,
			category = excluded.category, tags = excluded.tags,
			priority_rating = excluded.priority_rating, priority_slider = excluded.priority_slider,
			meta_author = excluded.meta_author, meta_source_url = excluded.meta_source_url,
			meta_language = excluded.meta_language, meta_word_count = excluded.meta_word_count,
			meta_imported_via = excluded.meta_imported_via,
			next_reading_date = excluded.next_reading_date, stability = excluded.stability,
			difficulty = excluded.difficulty, reps = excluded.reps, total_time_spent = excluded.total_time_spent,
			consecutive_count = excluded.consecutive_count,
			is_archived = excluded.is_archived, is_favorite = excluded.is_favorite,
			date_modified = excluded.date_modified
	`,
		doc.ID, doc.Title, doc.FilePath, string(doc.FileType), nullString(doc.Content), nullString(doc.ContentHash),
		nullInt(doc.TotalPages), nullInt(doc.CurrentPage),
		nullString(doc.Category), tags, doc.PriorityRating, doc.PrioritySlider,
		doc.Metadata.Author, doc.Metadata.SourceURL, doc.Metadata.Language, doc.Metadata.WordCount, doc.Metadata.ImportedVia,
		formatTimePtr(doc.NextReadingDate), nullFloat(doc.Stability), nullFloat(doc.Difficulty), doc.Reps, doc.TotalTimeSpent, doc.ConsecutiveCount,
		archived, favorite, formatTime(doc.DateCreated), formatTime(doc.DateModified),
	)
	if err != nil {
		return wrapUniqueConflict("document", doc.ID, err)
	}
	return nil
}

func (s *entityStore) ListDocuments(ctx context.Context) ([]*domain.Document, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT id, title, file_path, file_type, content, content_hash, total_pages, current_page,
			category, tags, priority_rating, priority_slider,
			meta_author, meta_source_url, meta_language, meta_word_count, meta_imported_via,
			next_reading_date, stability, difficulty, reps, total_time_spent, consecutive_count,
			is_archived, is_favorite, date_created, date_modified
		FROM documents ORDER BY date_created`)
	if err != nil {
		return nil, wrapPersistence("listing documents", err)
	}
	defer rows.Close()

	var out []*domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, wrapPersistence("scanning document row", err)
		}
		out = append(out, doc)
	}
	return out, wrapPersistence("iterating documents", rows.Err())
}

func (s *entityStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.c.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return wrapPersistence("deleting document", err)
}
