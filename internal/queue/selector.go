package queue

import (
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/engramd/engram/internal/domain"
)

// weightEpsilon keeps every item's sampling weight strictly positive,
// so a zero-priority item can still be drawn.
const weightEpsilon = 0.01

// Selector picks items out of a built queue using a tunable mix of
// deterministic top-k and uniform-random sampling.
type Selector struct {
	// Randomness in [0,1]. 0 = deterministic top-k; 1 = uniform
	// random, ignoring priority entirely. Intermediate values
	// interpolate by raising weights to the power (1-r)/r.
	Randomness float64
	rng        *rand.Rand
}

// NewSelector builds a Selector with the given randomness, defaulting
// out-of-range values to a moderate 0.3.
func NewSelector(randomness float64) *Selector {
	if randomness < 0 || randomness > 1 {
		randomness = 0.3
	}
	return &Selector{Randomness: randomness, rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// sortItems orders items by the deterministic total order:
// (−priority, due_date ascending, id ascending).
func sortItems(items []domain.QueueItem) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
}

// SortItems is the exported form of the deterministic ordering, usable
// directly by callers that already have a slice to sort in place.
func SortItems(items []domain.QueueItem) { sortItems(items) }

// NextItem returns a single weighted-random pick, or nil if queue is
// empty.
func (s *Selector) NextItem(queue []domain.QueueItem) *domain.QueueItem {
	picked := s.NextItems(queue, 1)
	if len(picked) == 0 {
		return nil
	}
	return &picked[0]
}

// NextItems draws n items without replacement. At Randomness = 0 this
// is exactly the deterministic top-n; at Randomness = 1 every item has
// equal weight regardless of priority.
func (s *Selector) NextItems(queue []domain.QueueItem, n int) []domain.QueueItem {
	if n <= 0 || len(queue) == 0 {
		return nil
	}
	if n >= len(queue) {
		n = len(queue)
	}

	if s.Randomness <= 0 {
		return topK(queue, n)
	}

	pool := append([]domain.QueueItem(nil), queue...)
	weights := make([]float64, len(pool))
	for i, item := range pool {
		weights[i] = weightFor(item.Priority, s.Randomness)
	}

	out := make([]domain.QueueItem, 0, n)
	for len(out) < n && len(pool) > 0 {
		idx := weightedSample(s.rng, weights)
		out = append(out, pool[idx])
		pool = append(pool[:idx], pool[idx+1:]...)
		weights = append(weights[:idx], weights[idx+1:]...)
	}
	return out
}

// weightFor computes the sampling weight for a candidate at randomness
// r: r=0 is deterministic top-k (handled separately above) and r=1
// ignores priority entirely (uniform weights); intermediate r
// interpolates between the two. Raising (priority+ε) to the power
// (1-r)/r for r in (0,1) satisfies both ends: as r->0 the exponent
// grows without bound, collapsing weight onto the top item
// (approaching deterministic top-k); as r->1 the exponent -> 0, making
// every weight 1 (uniform).
func weightFor(priority float64, r float64) float64 {
	base := priority + weightEpsilon
	if r >= 1 {
		return 1
	}
	exponent := (1 - r) / r
	return math.Pow(base, exponent)
}

// weightedSample draws an index proportional to weights.
func weightedSample(rng *rand.Rand, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	if total <= 0 {
		return rng.Intn(len(weights))
	}
	target := rng.Float64() * total
	cum := 0.0
	for i, w := range weights {
		cum += w
		if target < cum {
			return i
		}
	}
	return len(weights) - 1
}

// FilterDue returns items whose due date has passed or is unset.
func FilterDue(items []domain.QueueItem, now time.Time) []domain.QueueItem {
	var out []domain.QueueItem
	for _, item := range items {
		if item.DueDate == nil || !item.DueDate.After(now) {
			out = append(out, item)
		}
	}
	return out
}

// FilterQueued returns every eligible item, i.e. the full built queue,
// for a "today" view. Build already filters eligibility, so this is
// an identity pass kept for symmetry with the source command surface.
func FilterQueued(items []domain.QueueItem) []domain.QueueItem {
	return items
}
