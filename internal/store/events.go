package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/google/uuid"
)

func (s *entityStore) CreateReviewSession(ctx context.Context, started time.Time) (*domain.StudySession, error) {
	sess := &domain.StudySession{ID: uuid.NewString(), StartedAt: started}
	_, err := s.c.ExecContext(ctx, `
		INSERT INTO study_sessions (id, started_at, ended_at, items_reviewed, correct_count, time_spent_s)
		VALUES (?, ?, NULL, 0, 0, 0)`,
		sess.ID, formatTime(sess.StartedAt),
	)
	if err != nil {
		return nil, wrapPersistence("creating review session", err)
	}
	return sess, nil
}

func scanSession(row rowScanner) (*domain.StudySession, error) {
	var sess domain.StudySession
	var startedAt string
	var endedAt sql.NullString

	err := row.Scan(&sess.ID, &startedAt, &endedAt, &sess.ItemsReviewed, &sess.CorrectCount, &sess.TimeSpentS)
	if err != nil {
		return nil, err
	}
	if sess.StartedAt, err = parseTime(startedAt); err != nil {
		return nil, err
	}
	if sess.EndedAt, err = parseTimePtr(nullableString(endedAt)); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *entityStore) GetReviewSession(ctx context.Context, id string) (*domain.StudySession, error) {
	row := s.c.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, items_reviewed, correct_count, time_spent_s
		FROM study_sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err != nil {
		return nil, notFoundOrErr("review session", id, err)
	}
	return sess, nil
}

func (s *entityStore) UpdateReviewSession(ctx context.Context, sess *domain.StudySession) error {
	res, err := s.c.ExecContext(ctx, `
		UPDATE study_sessions SET ended_at = ?, items_reviewed = ?, correct_count = ?, time_spent_s = ?
		WHERE id = ?`,
		formatTimePtr(sess.EndedAt), sess.ItemsReviewed, sess.CorrectCount, sess.TimeSpentS, sess.ID,
	)
	if err != nil {
		return wrapPersistence("updating review session "+sess.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapPersistence("checking review session update", err)
	}
	if n == 0 {
		return domain.NotFoundf("review session %s", sess.ID)
	}
	return nil
}

func (s *entityStore) CreateReviewEvent(ctx context.Context, ev *domain.ReviewEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	_, err := s.c.ExecContext(ctx, `
		INSERT INTO review_events (id, session_id, item_id, item_kind, rating, time_taken_s, result_due, result_interval, ease_factor, happened_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, nullString(ev.SessionID), ev.ItemID, string(ev.ItemKind), int(ev.Rating), ev.TimeTakenS,
		formatTime(ev.ResultDue), ev.ResultInterval, ev.EaseFactor, formatTime(ev.Timestamp),
	)
	return wrapPersistence("creating review event", err)
}

func (s *entityStore) ListReviewEvents(ctx context.Context) ([]*domain.ReviewEvent, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT id, session_id, item_id, item_kind, rating, time_taken_s, result_due, result_interval, ease_factor, happened_at
		FROM review_events ORDER BY happened_at`)
	if err != nil {
		return nil, wrapPersistence("listing review events", err)
	}
	defer rows.Close()

	var out []*domain.ReviewEvent
	for rows.Next() {
		var ev domain.ReviewEvent
		var sessionID sql.NullString
		var rating int
		var resultDue, happenedAt string
		if err := rows.Scan(&ev.ID, &sessionID, &ev.ItemID, &ev.ItemKind, &rating, &ev.TimeTakenS,
			&resultDue, &ev.ResultInterval, &ev.EaseFactor, &happenedAt); err != nil {
			return nil, wrapPersistence("scanning review event row", err)
		}
		ev.SessionID = nullableString(sessionID)
		ev.Rating = domain.Rating(rating)
		if ev.ResultDue, err = parseTime(resultDue); err != nil {
			return nil, wrapPersistence("parsing review event due date", err)
		}
		if ev.Timestamp, err = parseTime(happenedAt); err != nil {
			return nil, wrapPersistence("parsing review event timestamp", err)
		}
		out = append(out, &ev)
	}
	return out, wrapPersistence("iterating review events", rows.Err())
}

func (s *entityStore) UpsertDailyStats(ctx context.Context, day string, apply func(*domain.DailyStats)) error {
	row := s.c.QueryRowContext(ctx, `
		SELECT day, cards_reviewed, correct_reviews, study_time_s, new_cards, learning_cards, review_cards
		FROM daily_stats WHERE day = ?`, day)

	d := &domain.DailyStats{Day: day}
	err := row.Scan(&d.Day, &d.CardsReviewed, &d.CorrectReviews, &d.StudyTimeS, &d.NewCards, &d.LearningCards, &d.ReviewCards)
	if err != nil && !isNoRows(err) {
		return wrapPersistence("loading daily stats "+day, err)
	}

	apply(d)

	_, err = s.c.ExecContext(ctx, `
		INSERT INTO daily_stats (day, cards_reviewed, correct_reviews, study_time_s, new_cards, learning_cards, review_cards)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(day) DO UPDATE SET
			cards_reviewed = excluded.cards_reviewed, correct_reviews = excluded.correct_reviews,
			study_time_s = excluded.study_time_s, new_cards = excluded.new_cards,
			learning_cards = excluded.learning_cards, review_cards = excluded.review_cards
	`, d.Day, d.CardsReviewed, d.CorrectReviews, d.StudyTimeS, d.NewCards, d.LearningCards, d.ReviewCards)
	return wrapPersistence("upserting daily stats "+day, err)
}

func (s *entityStore) ListDailyStats(ctx context.Context) ([]*domain.DailyStats, error) {
	rows, err := s.c.QueryContext(ctx, `
		SELECT day, cards_reviewed, correct_reviews, study_time_s, new_cards, learning_cards, review_cards
		FROM daily_stats ORDER BY day`)
	if err != nil {
		return nil, wrapPersistence("listing daily stats", err)
	}
	defer rows.Close()

	var out []*domain.DailyStats
	for rows.Next() {
		var d domain.DailyStats
		if err := rows.Scan(&d.Day, &d.CardsReviewed, &d.CorrectReviews, &d.StudyTimeS, &d.NewCards, &d.LearningCards, &d.ReviewCards); err != nil {
			return nil, wrapPersistence("scanning daily stats row", err)
		}
		out = append(out, &d)
	}
	return out, wrapPersistence("iterating daily stats", rows.Err())
}
