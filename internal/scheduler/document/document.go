// Package document implements the document scheduler: the same
// FSRS-5 memory-state update as the item scheduler (internal/scheduler/fsrs),
// applied to whole documents with its own interval clamp constants and
// default memory state. The clamp range, 1 to 3650 days, is the same as
// the item scheduler's default; it is not wider.
package document

import (
	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/scheduler/fsrs"
)

// MinIntervalDays and MaxIntervalDays bound a document's reading
// interval: up to 10 years.
const (
	MinIntervalDays = 1
	MaxIntervalDays = 3650
)

// initialState is the memory state a document starts with on first
// read: stability = 0, difficulty = 5.
var initialState = domain.MemoryState{Stability: 0, Difficulty: 5}

// Scheduler wraps the item FSRS core with document-shaped defaults and
// clamp range. It holds no I/O; storage of reps/total-time-spent is
// the caller's job.
type Scheduler struct {
	core *fsrs.Scheduler
}

// New builds a document scheduler over the given FSRS parameters.
func New(params fsrs.Params) *Scheduler { return &Scheduler{core: fsrs.New(params)} }

// Default builds a document scheduler with default FSRS parameters
// and MaximumIntervalDays set to the document clamp.
func Default() *Scheduler {
	p := fsrs.DefaultParams()
	p.MaximumIntervalDays = MaxIntervalDays
	return New(p)
}

// Schedule computes the next state and interval for a document review.
// A missing or invalid prior state is treated as a first read.
func (s *Scheduler) Schedule(state *domain.MemoryState, rating domain.Rating, elapsedDays float64, targetRetention float64) (domain.ScheduleResult, error) {
	cur := state
	if !cur.Valid() {
		init := initialState
		cur = &init
	}
	res, err := s.core.Schedule(cur, rating, elapsedDays, targetRetention)
	if err != nil {
		return domain.ScheduleResult{}, err
	}
	res.IntervalDays = fsrs.PostProcessInterval(res.IntervalDays, rating, MinIntervalDays, MaxIntervalDays)
	return res, nil
}

// Preview returns the four-outcome interval projection for a document.
func (s *Scheduler) Preview(state *domain.MemoryState, elapsedDays float64, targetRetention float64) (domain.FourOutcomes, error) {
	cur := state
	if !cur.Valid() {
		init := initialState
		cur = &init
	}
	return s.core.Preview(cur, elapsedDays, targetRetention)
}
