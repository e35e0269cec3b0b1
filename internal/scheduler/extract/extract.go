// Package extract implements the simplified extract scheduler: a
// stability×multiplier update, distinct from the full FSRS-5 core used
// for learning items and documents.
package extract

import (
	"time"

	"github.com/engramd/engram/internal/domain"
)

// InitialState is the memory state an extract starts with before its
// first rating.
var InitialState = domain.MemoryState{Stability: 0.5, Difficulty: 5}

// Result is the extract scheduling output.
type Result struct {
	NextStability  float64
	NextDifficulty float64
	DueDate        time.Time
}

// Scheduler is a pure, parameterless extract scheduler: its update
// rule is fixed, not configurable.
type Scheduler struct{}

func New() *Scheduler { return &Scheduler{} }

// Schedule applies the simplified update for rating against an
// optional prior state (absent or invalid ⇒ InitialState), and returns
// a due date of now + new_stability days.
func (s *Scheduler) Schedule(state *domain.MemoryState, rating domain.Rating, now time.Time) (Result, error) {
	cur := InitialState
	if state.Valid() {
		cur = *state
	}

	var stability, difficulty float64
	switch rating {
	case domain.RatingAgain:
		stability = 1
		difficulty = cur.Difficulty
	case domain.RatingHard:
		stability = max(1, cur.Stability*1.2)
		difficulty = min(10, cur.Difficulty+1)
	case domain.RatingGood:
		stability = max(1, cur.Stability*2.5)
		difficulty = cur.Difficulty
	case domain.RatingEasy:
		stability = max(1, cur.Stability*4)
		difficulty = max(1, cur.Difficulty-1)
	default:
		return Result{}, domain.InvalidInputf("rating %d out of range [1,4]", rating)
	}

	return Result{
		NextStability:  stability,
		NextDifficulty: difficulty,
		DueDate:        now.Add(time.Duration(stability * float64(24*time.Hour))),
	}, nil
}

// Preview returns the four interval-in-days outcomes for an extract.
func (s *Scheduler) Preview(state *domain.MemoryState, now time.Time) (domain.FourOutcomes, error) {
	var out domain.FourOutcomes
	for _, r := range []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy} {
		res, err := s.Schedule(state, r, now)
		if err != nil {
			return domain.FourOutcomes{}, err
		}
		switch r {
		case domain.RatingAgain:
			out.Again = res.NextStability
		case domain.RatingHard:
			out.Hard = res.NextStability
		case domain.RatingGood:
			out.Good = res.NextStability
		case domain.RatingEasy:
			out.Easy = res.NextStability
		}
	}
	return out, nil
}

func max(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
