// Package storetest provides an in-memory domain.Store for unit tests
// across the scheduler-adjacent packages (queue, review, stats) that
// need a persistence boundary without a real database.
package storetest

import (
	"context"
	"time"

	"github.com/engramd/engram/internal/domain"
)

// Store is a minimal, non-concurrent-safe in-memory implementation of
// domain.Store, intended only for tests.
type Store struct {
	Documents     map[string]*domain.Document
	Extracts      map[string]*domain.Extract
	LearningItems map[string]*domain.LearningItem
	Sessions      map[string]*domain.StudySession
	Events        []*domain.ReviewEvent
	Daily         map[string]*domain.DailyStats

	nextID int
}

func New() *Store {
	return &Store{
		Documents:     map[string]*domain.Document{},
		Extracts:      map[string]*domain.Extract{},
		LearningItems: map[string]*domain.LearningItem{},
		Sessions:      map[string]*domain.StudySession{},
		Daily:         map[string]*domain.DailyStats{},
	}
}

func (s *Store) genID(prefix string) string {
	s.nextID++
	return prefix + "-" + itoa(s.nextID)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	neg := n < 0
	if neg {
		n = -n
	}
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func (s *Store) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	d, ok := s.Documents[id]
	if !ok {
		return nil, domain.NotFoundf("document %s", id)
	}
	return d, nil
}

func (s *Store) UpsertDocument(_ context.Context, doc *domain.Document) error {
	if doc.ID == "" {
		doc.ID = s.genID("doc")
	}
	s.Documents[doc.ID] = doc
	return nil
}

func (s *Store) ListDocuments(_ context.Context) ([]*domain.Document, error) {
	out := make([]*domain.Document, 0, len(s.Documents))
	for _, d := range s.Documents {
		out = append(out, d)
	}
	return out, nil
}

func (s *Store) DeleteDocument(_ context.Context, id string) error {
	delete(s.Documents, id)
	for exID, ex := range s.Extracts {
		if ex.DocumentID == id {
			delete(s.Extracts, exID)
		}
	}
	for liID, li := range s.LearningItems {
		if li.DocumentID != nil && *li.DocumentID == id {
			delete(s.LearningItems, liID)
		}
	}
	return nil
}

func (s *Store) GetExtract(_ context.Context, id string) (*domain.Extract, error) {
	e, ok := s.Extracts[id]
	if !ok {
		return nil, domain.NotFoundf("extract %s", id)
	}
	return e, nil
}

func (s *Store) UpsertExtract(_ context.Context, ex *domain.Extract) error {
	if ex.ID == "" {
		ex.ID = s.genID("ext")
	}
	s.Extracts[ex.ID] = ex
	return nil
}

func (s *Store) GetDueExtracts(_ context.Context, now time.Time) ([]*domain.Extract, error) {
	var out []*domain.Extract
	for _, e := range s.Extracts {
		if e.ReviewCount > 0 && e.NextReviewDate != nil && !e.NextReviewDate.After(now) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetNewExtracts(_ context.Context) ([]*domain.Extract, error) {
	var out []*domain.Extract
	for _, e := range s.Extracts {
		if e.ReviewCount == 0 {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) GetLearningItem(_ context.Context, id string) (*domain.LearningItem, error) {
	li, ok := s.LearningItems[id]
	if !ok {
		return nil, domain.NotFoundf("learning item %s", id)
	}
	return li, nil
}

func (s *Store) UpsertLearningItem(_ context.Context, item *domain.LearningItem) error {
	if item.ID == "" {
		item.ID = s.genID("item")
	}
	s.LearningItems[item.ID] = item
	return nil
}

func (s *Store) GetDueLearningItems(_ context.Context, now time.Time) ([]*domain.LearningItem, error) {
	var out []*domain.LearningItem
	for _, li := range s.LearningItems {
		if !li.IsSuspended && !li.DueDate.After(now) {
			out = append(out, li)
		}
	}
	return out, nil
}

func (s *Store) ListAllLearningItems(_ context.Context) ([]*domain.LearningItem, error) {
	out := make([]*domain.LearningItem, 0, len(s.LearningItems))
	for _, li := range s.LearningItems {
		out = append(out, li)
	}
	return out, nil
}

func (s *Store) CreateReviewSession(_ context.Context, started time.Time) (*domain.StudySession, error) {
	sess := &domain.StudySession{ID: s.genID("session"), StartedAt: started}
	s.Sessions[sess.ID] = sess
	return sess, nil
}

func (s *Store) UpdateReviewSession(_ context.Context, sess *domain.StudySession) error {
	if _, ok := s.Sessions[sess.ID]; !ok {
		return domain.NotFoundf("session %s", sess.ID)
	}
	s.Sessions[sess.ID] = sess
	return nil
}

func (s *Store) GetReviewSession(_ context.Context, id string) (*domain.StudySession, error) {
	sess, ok := s.Sessions[id]
	if !ok {
		return nil, domain.NotFoundf("session %s", id)
	}
	return sess, nil
}

func (s *Store) CreateReviewEvent(_ context.Context, ev *domain.ReviewEvent) error {
	if ev.ID == "" {
		ev.ID = s.genID("event")
	}
	s.Events = append(s.Events, ev)
	return nil
}

func (s *Store) ListReviewEvents(_ context.Context) ([]*domain.ReviewEvent, error) {
	return s.Events, nil
}

func (s *Store) UpsertDailyStats(_ context.Context, day string, apply func(*domain.DailyStats)) error {
	d, ok := s.Daily[day]
	if !ok {
		d = &domain.DailyStats{Day: day}
		s.Daily[day] = d
	}
	apply(d)
	return nil
}

func (s *Store) ListDailyStats(_ context.Context) ([]*domain.DailyStats, error) {
	out := make([]*domain.DailyStats, 0, len(s.Daily))
	for _, d := range s.Daily {
		out = append(out, d)
	}
	return out, nil
}

// WithTx runs fn directly against the same in-memory store: tests
// don't need real isolation, only the call shape.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx domain.Store) error) error {
	return fn(ctx, s)
}
