// Package fsrs implements the learning-item scheduler: an FSRS-5
// shaped memory-state update producing the next (stability, difficulty)
// and a retention-targeted interval for each of the four ratings.
package fsrs

import (
	"math"

	"github.com/engramd/engram/internal/domain"
)

// Params are the tunable weights of the memory-state update. They are
// immutable for the lifetime of a Scheduler; replace by constructing a
// new one.
type Params struct {
	MaximumIntervalDays float64

	StabilityShortTermAgain float64
	StabilityShortTermHard  float64
	StabilityShortTermGood  float64

	StabilityLongTermAgain float64
	StabilityLongTermHard  float64
	StabilityLongTermGood  float64

	DifficultyModifierAgain float64
	DifficultyModifierHard  float64
	DifficultyModifierGood  float64
}

// DefaultParams mirrors the reference weight vector: tuned for an item
// scheduler with an up-to-10-year clamp.
func DefaultParams() Params {
	return Params{
		MaximumIntervalDays: 3650,

		StabilityShortTermAgain: 0.4,
		StabilityShortTermHard:  0.6,
		StabilityShortTermGood:  2.0,

		StabilityLongTermAgain: 0.2,
		StabilityLongTermHard:  0.8,
		StabilityLongTermGood:  1.3,

		DifficultyModifierAgain: 2.0,
		DifficultyModifierHard:  0.2,
		DifficultyModifierGood:  -0.2,
	}
}

// Scheduler is a pure FSRS-5 memory-state updater. It performs no I/O
// and holds no mutable state beyond its immutable parameters.
type Scheduler struct {
	params Params
}

// New builds a Scheduler with the given parameters.
func New(params Params) *Scheduler { return &Scheduler{params: params} }

// Default builds a Scheduler with DefaultParams.
func Default() *Scheduler { return New(DefaultParams()) }

// initialState is the memory state assumed on first encounter, per the
// "absent ⇒ first encounter" convention.
var initialState = domain.MemoryState{Stability: 0, Difficulty: 5}

// Schedule computes the next memory state and interval for rating,
// given an optional prior state and the days elapsed since the last
// review. elapsedDays is floored to a non-negative integer day count.
// A targetRetention outside [0.7, 0.99] is replaced by 0.9.
func (s *Scheduler) Schedule(state *domain.MemoryState, rating domain.Rating, elapsedDays float64, targetRetention float64) (domain.ScheduleResult, error) {
	switch rating {
	case domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy:
	default:
		return domain.ScheduleResult{}, domain.InvalidInputf("rating %d out of range [1,4]", rating)
	}
	if targetRetention < 0.7 || targetRetention > 0.99 {
		targetRetention = 0.9
	}

	cur := initialState
	if state.Valid() {
		cur = *state
	}

	elapsed := math.Floor(math.Max(0, elapsedDays))

	var nextStability, nextDifficulty float64
	if elapsed < cur.Stability {
		nextStability, nextDifficulty = s.shortTerm(cur, rating)
	} else {
		nextStability, nextDifficulty = s.longTerm(cur, rating, elapsed)
	}

	nextStability = clamp(nextStability, 0.1, s.params.MaximumIntervalDays)
	nextDifficulty = clamp(nextDifficulty, 1, 10)

	interval := calculateInterval(nextStability, targetRetention, s.params.MaximumIntervalDays)
	interval = PostProcessInterval(interval, rating, 1, s.params.MaximumIntervalDays)

	return domain.ScheduleResult{
		NextStability:  nextStability,
		NextDifficulty: nextDifficulty,
		IntervalDays:   interval,
	}, nil
}

// Preview returns the four interval outcomes without mutating any
// state, the same computation Schedule performs, once per rating.
func (s *Scheduler) Preview(state *domain.MemoryState, elapsedDays float64, targetRetention float64) (domain.FourOutcomes, error) {
	var out domain.FourOutcomes
	for _, r := range []domain.Rating{domain.RatingAgain, domain.RatingHard, domain.RatingGood, domain.RatingEasy} {
		res, err := s.Schedule(state, r, elapsedDays, targetRetention)
		if err != nil {
			return domain.FourOutcomes{}, err
		}
		switch r {
		case domain.RatingAgain:
			out.Again = res.IntervalDays
		case domain.RatingHard:
			out.Hard = res.IntervalDays
		case domain.RatingGood:
			out.Good = res.IntervalDays
		case domain.RatingEasy:
			out.Easy = res.IntervalDays
		}
	}
	return out, nil
}

func (s *Scheduler) shortTerm(state domain.MemoryState, rating domain.Rating) (stability, difficulty float64) {
	var stabilityMod, difficultyMod float64
	switch rating {
	case domain.RatingAgain:
		stabilityMod, difficultyMod = s.params.StabilityShortTermAgain, s.params.DifficultyModifierAgain
	case domain.RatingHard:
		stabilityMod, difficultyMod = s.params.StabilityShortTermHard, s.params.DifficultyModifierHard
	case domain.RatingGood:
		stabilityMod, difficultyMod = s.params.StabilityShortTermGood, s.params.DifficultyModifierGood
	case domain.RatingEasy:
		stabilityMod, difficultyMod = s.params.StabilityShortTermGood*1.3, s.params.DifficultyModifierGood*1.5
	}
	stability = state.Stability * stabilityMod
	difficulty = clamp(state.Difficulty+difficultyMod, 1, 10)
	return
}

func (s *Scheduler) longTerm(state domain.MemoryState, rating domain.Rating, elapsedDays float64) (stability, difficulty float64) {
	retrievability := retrievabilityAt(state.Stability, elapsedDays)

	var stabilityMod, difficultyMod float64
	switch rating {
	case domain.RatingAgain:
		stabilityMod, difficultyMod = s.params.StabilityLongTermAgain, s.params.DifficultyModifierAgain
	case domain.RatingHard:
		stabilityMod, difficultyMod = s.params.StabilityLongTermHard, s.params.DifficultyModifierHard
	case domain.RatingGood:
		stabilityMod, difficultyMod = s.params.StabilityLongTermGood, s.params.DifficultyModifierGood
	case domain.RatingEasy:
		stabilityMod, difficultyMod = s.params.StabilityLongTermGood*1.5, s.params.DifficultyModifierGood*2.0
	}
	stability = state.Stability * (1.0 + stabilityMod*(1.0-retrievability))
	difficulty = clamp(state.Difficulty+difficultyMod, 1, 10)
	return
}

// retrievabilityAt is R = (1 + t/(9S))^-1.
func retrievabilityAt(stability, elapsedDays float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1.0+elapsedDays/(9.0*stability), -1.0)
}

// calculateInterval is I = S * (ln(R)/ln(0.9)), clamped to
// [1, maximumIntervalDays].
func calculateInterval(stability, targetRetention, maximumIntervalDays float64) float64 {
	ratio := math.Abs(math.Log(targetRetention) / math.Log(0.9))
	return clamp(stability*ratio, 1, maximumIntervalDays)
}

// PostProcessInterval is the post-processing pipeline shared by every
// FSRS-shaped scheduler: substitute a
// per-rating fallback for a non-finite or non-positive interval, then
// clamp into [minIntervalDays, maxIntervalDays].
func PostProcessInterval(interval float64, rating domain.Rating, minIntervalDays, maxIntervalDays float64) float64 {
	if math.IsNaN(interval) || math.IsInf(interval, 0) || interval <= 0 {
		interval = fallbackIntervalDays(rating)
	}
	return clamp(interval, minIntervalDays, maxIntervalDays)
}

// fallbackIntervalDays is the per-rating substitute when a scheduler
// produces a degenerate interval: again = 10 min, hard = 12 h,
// good = 1 day, easy = 2 days.
func fallbackIntervalDays(rating domain.Rating) float64 {
	switch rating {
	case domain.RatingAgain:
		return 10.0 / (24 * 60)
	case domain.RatingHard:
		return 0.5
	case domain.RatingGood:
		return 1.0
	case domain.RatingEasy:
		return 2.0
	default:
		return 1.0
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
