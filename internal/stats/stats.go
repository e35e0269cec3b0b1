// Package stats implements derived aggregates over committed
// reviews and current entity snapshots. Nothing here mutates the
// store; every value is recomputable from persisted entities and
// events alone.
package stats

import (
	"context"
	"sort"
	"time"

	"github.com/engramd/engram/internal/domain"
	"github.com/engramd/engram/internal/scheduler/legacysm2"
)

// MatureIntervalDays is the threshold above which a learning item
// counts as "mature" rather than "young".
const MatureIntervalDays = 21.0

// DashboardStats is the top-level summary surfaced by the dashboard.
type DashboardStats struct {
	TotalCards        int
	TotalDocuments    int
	TotalExtracts     int
	CardsDueToday     int
	LearnedCards      int
	ReviewsToday      int
	CurrentStreak     int
	RetentionRate     float64
	AverageDifficulty float64
}

// MemoryStats summarises the item population by memory maturity.
type MemoryStats struct {
	AverageStability  float64
	AverageDifficulty float64
	MatureCount       int
	YoungCount        int
	NewCount          int
}

// ActivityDay is one entry of the activity series.
type ActivityDay struct {
	Day             string
	ReviewCount     int
	NewlyLearned    int
	EstimatedMinutes int
}

// CategoryStat is the per-category review rollup.
type CategoryStat struct {
	Category    string
	ItemCount   int
	DueCount    int
	AverageEase float64
}

// ReviewStreak is the richer streak aggregate (current, longest, and
// supporting totals), surfaced as one call instead of a bare integer.
type ReviewStreak struct {
	CurrentStreak  int
	LongestStreak  int
	TotalReviews   int
	LastReviewDate *time.Time
}

// AlgorithmComparison pairs the live scheduler's observed behaviour
// against the legacy SM-2 projection, for the same item population.
type AlgorithmComparison struct {
	LiveAverageInterval   float64
	LiveAverageReviews    float64
	LegacyAverageInterval float64
	SampleSize            int
}

// Aggregator computes every dashboard statistic over a store snapshot.
type Aggregator struct {
	store domain.Store
	now   func() time.Time
}

// New builds an Aggregator over store.
func New(store domain.Store) *Aggregator {
	return &Aggregator{store: store, now: time.Now}
}

// DashboardStats computes the top-level summary.
func (a *Aggregator) DashboardStats(ctx context.Context) (DashboardStats, error) {
	now := a.now()

	items, err := a.store.ListAllLearningItems(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	docs, err := a.store.ListDocuments(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	events, err := a.store.ListReviewEvents(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	extractCount, err := a.totalExtracts(ctx, docs)
	if err != nil {
		return DashboardStats{}, err
	}

	due, learned := 0, 0
	var difficultySum float64
	for _, item := range items {
		if !item.IsSuspended && !item.DueDate.After(now) {
			due++
		}
		if item.ReviewCount > 0 {
			learned++
		}
		difficultySum += float64(item.Difficulty)
	}
	avgDifficulty := 0.0
	if len(items) > 0 {
		avgDifficulty = difficultySum / float64(len(items))
	}

	today := now.UTC().Format("2006-01-02")
	reviewsToday := 0
	for _, ev := range events {
		if ev.Timestamp.UTC().Format("2006-01-02") == today {
			reviewsToday++
		}
	}

	retention := a.retentionEstimate(items)

	streak, err := a.ReviewStreak(ctx)
	if err != nil {
		return DashboardStats{}, err
	}

	return DashboardStats{
		TotalCards:        len(items),
		TotalDocuments:    len(docs),
		TotalExtracts:     extractCount,
		CardsDueToday:     due,
		LearnedCards:      learned,
		ReviewsToday:      reviewsToday,
		CurrentStreak:     streak.CurrentStreak,
		RetentionRate:     retention,
		AverageDifficulty: avgDifficulty,
	}, nil
}

// retentionEstimate is the lapse-free fraction of reviewed items: a
// proper estimate would integrate predicted retention at current
// elapsed time, but the source's simpler ratio is adopted here too.
func (a *Aggregator) retentionEstimate(items []*domain.LearningItem) float64 {
	reviewed, lapseFree := 0, 0
	for _, item := range items {
		if item.ReviewCount > 0 {
			reviewed++
			if item.Lapses == 0 {
				lapseFree++
			}
		}
	}
	if reviewed == 0 {
		return 0
	}
	return float64(lapseFree) / float64(reviewed)
}

func (a *Aggregator) totalExtracts(ctx context.Context, docs []*domain.Document) (int, error) {
	due, err := a.store.GetDueExtracts(ctx, a.now())
	if err != nil {
		return 0, err
	}
	newOnes, err := a.store.GetNewExtracts(ctx)
	if err != nil {
		return 0, err
	}
	return len(due) + len(newOnes), nil
}

// MemoryStats buckets learning items into mature/young/new and
// averages their memory-state fields.
func (a *Aggregator) MemoryStats(ctx context.Context) (MemoryStats, error) {
	items, err := a.store.ListAllLearningItems(ctx)
	if err != nil {
		return MemoryStats{}, err
	}

	var stabilitySum, difficultySum float64
	var withState int
	var mature, young, newCount int
	for _, item := range items {
		if item.ReviewCount == 0 {
			newCount++
			continue
		}
		if item.Interval >= MatureIntervalDays {
			mature++
		} else {
			young++
		}
		if item.MemoryState.Valid() {
			stabilitySum += item.MemoryState.Stability
			difficultySum += item.MemoryState.Difficulty
			withState++
		}
	}

	out := MemoryStats{MatureCount: mature, YoungCount: young, NewCount: newCount}
	if withState > 0 {
		out.AverageStability = stabilitySum / float64(withState)
		out.AverageDifficulty = difficultySum / float64(withState)
	}
	return out, nil
}

// ActivityData returns the last n days' activity series, oldest first.
func (a *Aggregator) ActivityData(ctx context.Context, days int) ([]ActivityDay, error) {
	if days <= 0 {
		return nil, nil
	}
	daily, err := a.store.ListDailyStats(ctx)
	if err != nil {
		return nil, err
	}
	byDay := make(map[string]*domain.DailyStats, len(daily))
	for _, d := range daily {
		byDay[d.Day] = d
	}

	now := a.now().UTC()
	out := make([]ActivityDay, days)
	for i := 0; i < days; i++ {
		day := now.AddDate(0, 0, -(days - 1 - i))
		key := day.Format("2006-01-02")
		entry := ActivityDay{Day: key}
		if d, ok := byDay[key]; ok {
			entry.ReviewCount = d.CardsReviewed
			entry.NewlyLearned = d.NewCards
			entry.EstimatedMinutes = d.StudyTimeS / 60
		}
		out[i] = entry
	}
	return out, nil
}

// CategoryStats groups learning items by category (via their parent
// document, falling back to "uncategorised") with due counts and
// average ease factor.
func (a *Aggregator) CategoryStats(ctx context.Context) ([]CategoryStat, error) {
	items, err := a.store.ListAllLearningItems(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := a.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	categoryByDoc := make(map[string]string, len(docs))
	for _, d := range docs {
		if d.Category != nil {
			categoryByDoc[d.ID] = *d.Category
		}
	}

	now := a.now()
	type accum struct {
		count, due int
		easeSum    float64
	}
	byCategory := map[string]*accum{}
	for _, item := range items {
		cat := "uncategorised"
		if item.DocumentID != nil {
			if c, ok := categoryByDoc[*item.DocumentID]; ok && c != "" {
				cat = c
			}
		}
		acc, ok := byCategory[cat]
		if !ok {
			acc = &accum{}
			byCategory[cat] = acc
		}
		acc.count++
		acc.easeSum += item.EaseFactor
		if !item.IsSuspended && !item.DueDate.After(now) {
			acc.due++
		}
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for cat, acc := range byCategory {
		avg := 0.0
		if acc.count > 0 {
			avg = acc.easeSum / float64(acc.count)
		}
		out = append(out, CategoryStat{Category: cat, ItemCount: acc.count, DueCount: acc.due, AverageEase: avg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// ReviewStreak computes current/longest streaks and supporting totals
// from the committed review-event log.
func (a *Aggregator) ReviewStreak(ctx context.Context) (ReviewStreak, error) {
	events, err := a.store.ListReviewEvents(ctx)
	if err != nil {
		return ReviewStreak{}, err
	}
	if len(events) == 0 {
		return ReviewStreak{}, nil
	}

	daySet := map[string]bool{}
	var last time.Time
	for _, ev := range events {
		daySet[ev.Timestamp.UTC().Format("2006-01-02")] = true
		if ev.Timestamp.After(last) {
			last = ev.Timestamp
		}
	}

	current := currentStreak(daySet, a.now().UTC())
	longest := longestStreak(daySet)

	return ReviewStreak{
		CurrentStreak:  current,
		LongestStreak:  longest,
		TotalReviews:   len(events),
		LastReviewDate: &last,
	}, nil
}

// currentStreak walks backward from today, falling back to yesterday
// as the anchor if today has no activity yet.
func currentStreak(daySet map[string]bool, now time.Time) int {
	today := now.Truncate(24 * time.Hour)
	anchor := today
	if !daySet[anchor.Format("2006-01-02")] {
		anchor = anchor.AddDate(0, 0, -1)
		if !daySet[anchor.Format("2006-01-02")] {
			return 0
		}
	}

	count := 0
	for d := anchor; daySet[d.Format("2006-01-02")]; d = d.AddDate(0, 0, -1) {
		count++
	}
	return count
}

// longestStreak scans all recorded days for the longest consecutive
// run, independent of where "today" falls.
func longestStreak(daySet map[string]bool) int {
	days := make([]time.Time, 0, len(daySet))
	for k := range daySet {
		t, err := time.Parse("2006-01-02", k)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 0, 0
	for i, d := range days {
		if i == 0 || d.Sub(days[i-1]) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// CompareAlgorithms pairs the live scheduler's observed interval and
// review-count averages against a legacy SM-2 projection over the same
// items, kept around because it is cheap, derived, and exercises the
// otherwise-unused legacy package.
func (a *Aggregator) CompareAlgorithms(ctx context.Context) (AlgorithmComparison, error) {
	items, err := a.store.ListAllLearningItems(ctx)
	if err != nil {
		return AlgorithmComparison{}, err
	}
	if len(items) == 0 {
		return AlgorithmComparison{}, nil
	}

	var liveIntervalSum, liveReviewSum, legacyIntervalSum float64
	for _, item := range items {
		liveIntervalSum += item.Interval
		liveReviewSum += float64(item.ReviewCount)

		p := legacysm2.Default()
		for i := 0; i < item.ReviewCount; i++ {
			p, _ = p.NextInterval(domain.RatingGood)
		}
		legacyIntervalSum += p.Interval
	}

	n := float64(len(items))
	return AlgorithmComparison{
		LiveAverageInterval:   liveIntervalSum / n,
		LiveAverageReviews:    liveReviewSum / n,
		LegacyAverageInterval: legacyIntervalSum / n,
		SampleSize:            len(items),
	}, nil
}
