package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/engramd/engram/internal/domain"
)

const extractColumns = `id, document_id, content, html_content, highlight_color, notes, page_number, page_title,
	category, tags, disclosure_level, max_disclosure_level,
	memory_state_stability, memory_state_difficulty, next_review_date, last_review_date,
	review_count, reps, date_created, date_modified`

func scanExtract(row rowScanner) (*domain.Extract, error) {
	var e domain.Extract
	var tags string
	var htmlContent, highlightColor, notes, pageTitle, category sql.NullString
	var pageNumber sql.NullInt64
	var stability, difficulty sql.NullFloat64
	var nextReview, lastReview sql.NullString
	var dateCreated, dateModified string

	err := row.Scan(
		&e.ID, &e.DocumentID, &e.Content, &htmlContent, &highlightColor, &notes, &pageNumber, &pageTitle,
		&category, &tags, &e.DisclosureLevel, &e.MaxDisclosureLevel,
		&stability, &difficulty, &nextReview, &lastReview,
		&e.ReviewCount, &e.Reps, &dateCreated, &dateModified,
	)
	if err != nil {
		return nil, err
	}

	if e.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if htmlContent.Valid {
		e.HTMLContent = &htmlContent.String
	}
	if highlightColor.Valid {
		e.HighlightColor = &highlightColor.String
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	if pageTitle.Valid {
		e.PageTitle = &pageTitle.String
	}
	if category.Valid {
		e.Category = &category.String
	}
	if pageNumber.Valid {
		v := int(pageNumber.Int64)
		e.PageNumber = &v
	}
	if stability.Valid && difficulty.Valid {
		e.MemoryState = &domain.MemoryState{Stability: stability.Float64, Difficulty: difficulty.Float64}
	}
	if e.NextReviewDate, err = parseTimePtr(nullableString(nextReview)); err != nil {
		return nil, err
	}
	if e.LastReviewDate, err = parseTimePtr(nullableString(lastReview)); err != nil {
		return nil, err
	}
	if e.DateCreated, err = parseTime(dateCreated); err != nil {
		return nil, err
	}
	if e.DateModified, err = parseTime(dateModified); err != nil {
		return nil, err
	}
	return &e, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func (s *entityStore) GetExtract(ctx context.Context, id string) (*domain.Extract, error) {
	row := s.c.QueryRowContext(ctx, `SELECT `+extractColumns+` FROM extracts WHERE id = ?`, id)
	e, err := scanExtract(row)
	if err != nil {
		return nil, notFoundOrErr("extract", id, err)
	}
	return e, nil
}

func (s *entityStore) UpsertExtract(ctx context.Context, ex *domain.Extract) error {
	tags, err := encodeTags(ex.Tags)
	if err != nil {
		return domain.InvalidInputf("encoding tags: %v", err)
	}

	var stability, difficulty any
	if ex.MemoryState != nil {
		stability, difficulty = ex.MemoryState.Stability, ex.MemoryState.Difficulty
	}

	_, err = s.c.ExecContext(ctx, `
		INSERT INTO extracts (`+extractColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			document_id = excluded.document_id, content = excluded.content, html_content = excluded.html_content,
			highlight_color = excluded.highlight_color, notes = excluded.notes, page_number = excluded.page_number,
			page_title = excluded.page_title, category = excluded.category, tags = excluded.tags,
			disclosure_level = excluded.disclosure_level, max_disclosure_level = excluded.max_disclosure_level,
			memory_state_stability = excluded.memory_state_stability, memory_state_difficulty = excluded.memory_state_difficulty,
			next_review_date = excluded.next_review_date, last_review_date = excluded.last_review_date,
			review_count = excluded.review_count, reps = excluded.reps, date_modified = excluded.date_modified
	`,
		ex.ID, ex.DocumentID, ex.Content, nullString(ex.HTMLContent), nullString(ex.HighlightColor), nullString(ex.Notes),
		nullInt(ex.PageNumber), nullString(ex.PageTitle),
		nullString(ex.Category), tags, ex.DisclosureLevel, ex.MaxDisclosureLevel,
		stability, difficulty, formatTimePtr(ex.NextReviewDate), formatTimePtr(ex.LastReviewDate),
		ex.ReviewCount, ex.Reps, formatTime(ex.DateCreated), formatTime(ex.DateModified),
	)
	return wrapPersistence("upserting extract "+ex.ID, err)
}

func (s *entityStore) GetDueExtracts(ctx context.Context, now time.Time) ([]*domain.Extract, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT `+extractColumns+` FROM extracts
		WHERE review_count > 0 AND next_review_date IS NOT NULL AND next_review_date <= ?
		ORDER BY next_review_date`, formatTime(now))
	if err != nil {
		return nil, wrapPersistence("listing due extracts", err)
	}
	defer rows.Close()
	return scanExtracts(rows)
}

func (s *entityStore) GetNewExtracts(ctx context.Context) ([]*domain.Extract, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT `+extractColumns+` FROM extracts WHERE review_count = 0 ORDER BY date_created`)
	if err != nil {
		return nil, wrapPersistence("listing new extracts", err)
	}
	defer rows.Close()
	return scanExtracts(rows)
}

func scanExtracts(rows *sql.Rows) ([]*domain.Extract, error) {
	var out []*domain.Extract
	for rows.Next() {
		e, err := scanExtract(rows)
		if err != nil {
			return nil, wrapPersistence("scanning extract row", err)
		}
		out = append(out, e)
	}
	return out, wrapPersistence("iterating extracts", rows.Err())
}
