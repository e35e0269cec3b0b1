// Package incremental implements a rotation-oriented scheduler for
// documents (and, optionally, extracts) that favour predictable
// recurrence over long-tail FSRS spacing.
package incremental

import (
	"math"

	"github.com/engramd/engram/internal/domain"
)

// Params are the tunable rotation intervals and streak multipliers.
type Params struct {
	AgainIntervalHours         float64
	HardIntervalDays           float64
	GoodIntervalDays           float64
	EasyIntervalDays           float64
	MaxIntervalDays            float64
	ConsecutiveBonusMultiplier float64
	ConsecutivePenaltyMultiplier float64
}

// DefaultParams are the default rotation intervals and streak multipliers.
func DefaultParams() Params {
	return Params{
		AgainIntervalHours:           4,
		HardIntervalDays:             1,
		GoodIntervalDays:             3,
		EasyIntervalDays:             7,
		MaxIntervalDays:              30,
		ConsecutiveBonusMultiplier:   0.2,
		ConsecutivePenaltyMultiplier: 0.15,
	}
}

// Result is the incremental scheduling output.
type Result struct {
	IntervalDays         float64
	Stability            float64 // == IntervalDays
	Difficulty            float64
	NextConsecutiveCount int
}

// Scheduler is a pure rotation scheduler; no I/O, no mutable state
// beyond its immutable parameters.
type Scheduler struct {
	params Params
}

func New(params Params) *Scheduler { return &Scheduler{params: params} }
func Default() *Scheduler          { return New(DefaultParams()) }

// difficultyFor maps a rating to its fixed incremental difficulty:
// again=7, hard=6, good=4, easy=2.
func difficultyFor(rating domain.Rating) float64 {
	switch rating {
	case domain.RatingAgain:
		return 7
	case domain.RatingHard:
		return 6
	case domain.RatingGood:
		return 4
	case domain.RatingEasy:
		return 2
	default:
		return 5
	}
}

// Schedule computes the next rotation interval. consecutiveGoodCount
// and consecutiveHardCount track the current streak polarity; exactly
// one of them should be nonzero at a time, per NextConsecutiveCount's
// sign convention.
func (s *Scheduler) Schedule(rating domain.Rating, consecutiveGoodCount, consecutiveHardCount int) (Result, error) {
	p := s.params

	var base float64
	switch rating {
	case domain.RatingAgain:
		base = p.AgainIntervalHours / 24.0
	case domain.RatingHard:
		base = p.HardIntervalDays
	case domain.RatingGood:
		base = p.GoodIntervalDays
	case domain.RatingEasy:
		base = p.EasyIntervalDays
	default:
		return Result{}, domain.InvalidInputf("rating %d out of range [1,4]", rating)
	}

	interval := base
	nextCount := 0

	switch rating {
	case domain.RatingGood, domain.RatingEasy:
		if consecutiveGoodCount > 0 {
			interval *= 1 + p.ConsecutiveBonusMultiplier*float64(consecutiveGoodCount)
		}
		nextCount = consecutiveGoodCount + 1
	case domain.RatingAgain, domain.RatingHard:
		if consecutiveHardCount > 0 {
			reduction := math.Min(0.75, p.ConsecutivePenaltyMultiplier*float64(consecutiveHardCount))
			interval *= math.Max(0.25, 1-reduction)
		}
		nextCount = -(consecutiveHardCount + 1)
	}

	minInterval := p.AgainIntervalHours / 24.0
	interval = clamp(interval, minInterval, p.MaxIntervalDays)

	if interval < 1 {
		interval = round2(interval)
	} else {
		interval = math.Round(interval)
	}

	return Result{
		IntervalDays:         interval,
		Stability:            interval,
		Difficulty:            difficultyFor(rating),
		NextConsecutiveCount: nextCount,
	}, nil
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

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
