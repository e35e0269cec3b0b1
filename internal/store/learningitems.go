package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/engramd/engram/internal/domain"
)

const learningItemColumns = `id, extract_id, document_id, item_type, question, answer, cloze_text, cloze_ranges,
	difficulty, interval_days, ease_factor, due_date, date_created, date_modified, last_review_date,
	review_count, lapses, state, is_suspended, tags, memory_state_stability, memory_state_difficulty`

func encodeClozeRanges(ranges []domain.ClozeRange) (string, error) {
	if ranges == nil {
		ranges = []domain.ClozeRange{}
	}
	b, err := json.Marshal(ranges)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeClozeRanges(raw string) ([]domain.ClozeRange, error) {
	if raw == "" {
		return nil, nil
	}
	var ranges []domain.ClozeRange
	if err := json.Unmarshal([]byte(raw), &ranges); err != nil {
		return nil, err
	}
	return ranges, nil
}

func scanLearningItem(row rowScanner) (*domain.LearningItem, error) {
	var li domain.LearningItem
	var extractID, documentID, answer, clozeText sql.NullString
	var clozeRanges, tags string
	var lastReview sql.NullString
	var dueDate, dateCreated, dateModified string
	var isSuspended int
	var stability, difficulty sql.NullFloat64

	err := row.Scan(
		&li.ID, &extractID, &documentID, &li.ItemType, &li.Question, &answer, &clozeText, &clozeRanges,
		&li.Difficulty, &li.Interval, &li.EaseFactor, &dueDate, &dateCreated, &dateModified, &lastReview,
		&li.ReviewCount, &li.Lapses, &li.State, &isSuspended, &tags, &stability, &difficulty,
	)
	if err != nil {
		return nil, err
	}

	li.ExtractID = nullableString(extractID)
	li.DocumentID = nullableString(documentID)
	li.Answer = nullableString(answer)
	li.ClozeText = nullableString(clozeText)

	if li.ClozeRanges, err = decodeClozeRanges(clozeRanges); err != nil {
		return nil, err
	}
	if li.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if stability.Valid && difficulty.Valid {
		li.MemoryState = &domain.MemoryState{Stability: stability.Float64, Difficulty: difficulty.Float64}
	}
	if li.LastReviewDate, err = parseTimePtr(nullableString(lastReview)); err != nil {
		return nil, err
	}
	if li.DueDate, err = parseTime(dueDate); err != nil {
		return nil, err
	}
	if li.DateCreated, err = parseTime(dateCreated); err != nil {
		return nil, err
	}
	if li.DateModified, err = parseTime(dateModified); err != nil {
		return nil, err
	}
	li.IsSuspended = isSuspended != 0
	return &li, nil
}

func (s *entityStore) GetLearningItem(ctx context.Context, id string) (*domain.LearningItem, error) {
	row := s.c.QueryRowContext(ctx, `SELECT `+learningItemColumns+` FROM learning_items WHERE id = ?`, id)
	li, err := scanLearningItem(row)
	if err != nil {
		return nil, notFoundOrErr("learning item", id, err)
	}
	return li, nil
}

func (s *entityStore) UpsertLearningItem(ctx context.Context, item *domain.LearningItem) error {
	tags, err := encodeTags(item.Tags)
	if err != nil {
		return domain.InvalidInputf("encoding tags: %v", err)
	}
	clozeRanges, err := encodeClozeRanges(item.ClozeRanges)
	if err != nil {
		return domain.InvalidInputf("encoding cloze ranges: %v", err)
	}

	var stability, difficulty any
	if item.MemoryState != nil {
		stability, difficulty = item.MemoryState.Stability, item.MemoryState.Difficulty
	}
	suspended := 0
	if item.IsSuspended {
		suspended = 1
	}

	_, err = s.c.ExecContext(ctx, `
		INSERT INTO learning_items (`+learningItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			extract_id = excluded.extract_id, document_id = excluded.document_id, item_type = excluded.item_type,
			question = excluded.question, answer = excluded.answer, cloze_text = excluded.cloze_text,
			cloze_ranges = excluded.cloze_ranges, difficulty = excluded.difficulty, interval_days = excluded.interval_days,
			ease_factor = excluded.ease_factor, due_date = excluded.due_date, date_modified = excluded.date_modified,
			last_review_date = excluded.last_review_date, review_count = excluded.review_count, lapses = excluded.lapses,
			state = excluded.state, is_suspended = excluded.is_suspended, tags = excluded.tags,
			memory_state_stability = excluded.memory_state_stability, memory_state_difficulty = excluded.memory_state_difficulty
	`,
		item.ID, nullString(item.ExtractID), nullString(item.DocumentID), string(item.ItemType), item.Question,
		nullString(item.Answer), nullString(item.ClozeText), clozeRanges,
		item.Difficulty, item.Interval, item.EaseFactor, formatTime(item.DueDate),
		formatTime(item.DateCreated), formatTime(item.DateModified), formatTimePtr(item.LastReviewDate),
		item.ReviewCount, item.Lapses, string(item.State), suspended, tags, stability, difficulty,
	)
	return wrapPersistence("upserting learning item "+item.ID, err)
}

func (s *entityStore) GetDueLearningItems(ctx context.Context, now time.Time) ([]*domain.LearningItem, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT `+learningItemColumns+` FROM learning_items
		WHERE is_suspended = 0 AND due_date <= ? ORDER BY due_date`, formatTime(now))
	if err != nil {
		return nil, wrapPersistence("listing due learning items", err)
	}
	defer rows.Close()
	return scanLearningItems(rows)
}

func (s *entityStore) ListAllLearningItems(ctx context.Context) ([]*domain.LearningItem, error) {
	rows, err := s.c.QueryContext(ctx, `SELECT `+learningItemColumns+` FROM learning_items ORDER BY date_created`)
	if err != nil {
		return nil, wrapPersistence("listing learning items", err)
	}
	defer rows.Close()
	return scanLearningItems(rows)
}

func scanLearningItems(rows *sql.Rows) ([]*domain.LearningItem, error) {
	var out []*domain.LearningItem
	for rows.Next() {
		li, err := scanLearningItem(rows)
		if err != nil {
			return nil, wrapPersistence("scanning learning item row", err)
		}
		out = append(out, li)
	}
	return out, wrapPersistence("iterating learning items", rows.Err())
}
