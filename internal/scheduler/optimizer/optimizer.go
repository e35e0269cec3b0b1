// Package optimizer is a non-faithful hill-climbing sketch that
// searches for SM-2-style parameters matching a user's review history.
// It is explicitly not required to be faithful to any particular
// optimiser and is never consulted by the live scheduler; it exists to
// surface a "suggested parameters" hint alongside the statistics
// surface.
package optimizer

import "github.com/engramd/engram/internal/domain"

// Params are the optimisable SM-2-style knobs.
type Params struct {
	MinEaseFactor     float64
	InitialEaseFactor float64
	DesiredRetention  float64
}

// DefaultParams mirrors the classic SM-2 defaults.
func DefaultParams() Params {
	return Params{MinEaseFactor: 1.3, InitialEaseFactor: 2.5, DesiredRetention: 0.9}
}

// HistoryRecord is one past review, reduced to what the sketch needs.
type HistoryRecord struct {
	Rating            domain.Rating
	DaysSincePrevious float64
}

// Result is the outcome of a hill-climb.
type Result struct {
	BestParams        Params
	ExpectedRetention float64
	Iterations        int
	Converged         bool
}

// Optimizer performs a bounded hill-climb over Params, scoring each
// candidate against how well its retention prediction matches which
// reviews were actually retained (rating good/easy).
type Optimizer struct {
	MaxIterations        int
	ConvergenceThreshold float64
}

func New() *Optimizer {
	return &Optimizer{MaxIterations: 100, ConvergenceThreshold: 0.001}
}

// Optimize hill-climbs from initial toward the neighbouring parameter
// set with the best score, stopping on no improvement, a score of
// 0.95+, or MaxIterations.
func (o *Optimizer) Optimize(history []HistoryRecord, initial Params) Result {
	if len(history) == 0 {
		return Result{BestParams: initial, ExpectedRetention: 0.5, Iterations: 0, Converged: false}
	}

	best := initial
	bestScore := o.evaluate(best, history)
	converged := false
	iterations := 0

	for iterations < o.MaxIterations {
		iterations++
		improved := false
		for _, neighbor := range o.neighbors(best) {
			score := o.evaluate(neighbor, history)
			if score > bestScore {
				best = neighbor
				bestScore = score
				improved = true
			}
		}
		if !improved {
			converged = true
			break
		}
		if bestScore >= 0.95 {
			converged = true
			break
		}
	}

	return Result{BestParams: best, ExpectedRetention: bestScore, Iterations: iterations, Converged: converged}
}

func (o *Optimizer) evaluate(p Params, history []HistoryRecord) float64 {
	if len(history) == 0 {
		return 0.5
	}
	correct := 0
	for _, rec := range history {
		predictedInterval := predictInterval(p, rec.DaysSincePrevious)
		wasRetained := rec.Rating == domain.RatingGood || rec.Rating == domain.RatingEasy
		predictedRetention := retentionFromInterval(predictedInterval, p.DesiredRetention)
		if (predictedRetention >= 0.5) == wasRetained {
			correct++
		}
	}
	return float64(correct) / float64(len(history))
}

func predictInterval(p Params, daysSince float64) float64 {
	decay := 1.0 / (1.0 + daysSince/30.0)
	return p.InitialEaseFactor * decay
}

func retentionFromInterval(interval, desired float64) float64 {
	const maxInterval = 365.0
	retention := 1.0 - min1(interval/maxInterval)*(1.0-desired)
	return clamp01(retention)
}

func (o *Optimizer) neighbors(p Params) []Params {
	var out []Params
	for _, delta := range []float64{-0.1, 0.1} {
		out = append(out, Params{
			MinEaseFactor:     clamp(p.MinEaseFactor+delta, 1.1, 2.0),
			InitialEaseFactor: p.InitialEaseFactor,
			DesiredRetention:  p.DesiredRetention,
		})
		out = append(out, Params{
			MinEaseFactor:     p.MinEaseFactor,
			InitialEaseFactor: clamp(p.InitialEaseFactor+delta, 1.5, 3.5),
			DesiredRetention:  p.DesiredRetention,
		})
		out = append(out, Params{
			MinEaseFactor:     p.MinEaseFactor,
			InitialEaseFactor: p.InitialEaseFactor,
			DesiredRetention:  clamp(p.DesiredRetention+delta, 0.7, 0.99),
		})
	}
	return out
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

func clamp01(v float64) float64 { return clamp(v, 0, 1) }

func min1(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}
