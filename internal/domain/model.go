// Package domain holds the entities, enumerations, and persistence
// boundaries of the learning engine. It imports nothing from infra:
// schedulers, queue, review, and stats all build on these types alone.
package domain

import (
	"math"
	"time"
)

// MemoryState is the FSRS pair (stability, difficulty). A state is
// valid iff both fields are finite and strictly positive; callers must
// treat an invalid state as "absent" (first encounter).
type MemoryState struct {
	Stability  float64 // days
	Difficulty float64 // [1, 10]
}

// Valid reports whether the state can be fed into a scheduler as a
// prior state, per the "memory state absent ⇒ first encounter" rule.
func (m *MemoryState) Valid() bool {
	if m == nil {
		return false
	}
	return isFinitePositive(m.Stability) && isFinitePositive(m.Difficulty)
}

func isFinitePositive(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// Rating is the user's grade for a review: again, hard, good, easy.
type Rating int

const (
	RatingAgain Rating = 1
	RatingHard  Rating = 2
	RatingGood  Rating = 3
	RatingEasy  Rating = 4
)

// ParseRating validates a raw integer rating, returning an
// invalid-input error for anything outside 1..4. Unlike a
// fallback-to-Good convenience, an out-of-range rating is a caller bug
// and must surface as an error rather than be silently coerced.
func ParseRating(v int) (Rating, error) {
	switch Rating(v) {
	case RatingAgain, RatingHard, RatingGood, RatingEasy:
		return Rating(v), nil
	default:
		return 0, InvalidInputf("rating %d out of range [1,4]", v)
	}
}

func (r Rating) String() string {
	switch r {
	case RatingAgain:
		return "again"
	case RatingHard:
		return "hard"
	case RatingGood:
		return "good"
	case RatingEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// ItemType is the kind of a learning item.
type ItemType string

const (
	ItemFlashcard ItemType = "flashcard"
	ItemCloze     ItemType = "cloze"
	ItemQA        ItemType = "qa"
	ItemBasic     ItemType = "basic"
)

// ItemState is a learning item's position in the FSRS lifecycle.
type ItemState string

const (
	StateNew        ItemState = "new"
	StateLearning   ItemState = "learning"
	StateReview     ItemState = "review"
	StateRelearning ItemState = "relearning"
)

// GraduationIntervalDays is the minimum new interval that moves an
// item from learning to review.
const GraduationIntervalDays = 1.0

// ClozeRange hides the span [Start, End) of a cloze item's text.
type ClozeRange struct {
	Start int
	End   int
}

// FileType is the source format of a document, carried through from
// ingestion for display and routing purposes; the engine does not
// parse file contents itself.
type FileType string

const (
	FilePDF        FileType = "pdf"
	FileEPUB       FileType = "epub"
	FileHTML       FileType = "html"
	FileMarkdown   FileType = "markdown"
	FileVideo      FileType = "video"
	FileWebCapture FileType = "web-capture"
	FileText       FileType = "text"
)

// DocumentMetadata carries ingestion-supplied descriptive fields that
// the scheduler never reads but the API surfaces verbatim.
type DocumentMetadata struct {
	Author      string
	SourceURL   string
	Language    string
	WordCount   int
	ImportedVia string // ingestion collaborator name, e.g. "pdf-importer"
}

// Document is a long-form ingested source, scheduled via FSRS or the
// incremental scheduler depending on configuration.
type Document struct {
	ID             string
	Title          string
	FilePath       string
	FileType       FileType
	Content        *string
	ContentHash    *string
	TotalPages     *int
	CurrentPage    *int
	Category       *string
	Tags           []string
	PriorityRating int // 0 = unset, else 1..4
	PrioritySlider int // [0, 100]
	Metadata       DocumentMetadata

	NextReadingDate  *time.Time
	Stability        *float64
	Difficulty       *float64
	Reps             int
	TotalTimeSpent   int // seconds
	ConsecutiveCount int // incremental-scheduler streak: >0 good streak, <0 hard/again streak

	IsArchived bool
	IsFavorite bool

	DateCreated  time.Time
	DateModified time.Time
}

// PriorityScore is the composite user-priority in [0,100], a pure
// function of PriorityRating and PrioritySlider.
func (d *Document) PriorityScore() float64 {
	return CompositePriorityScore(d.PriorityRating, d.PrioritySlider)
}

// Extract is a user-marked span of a Document, independently
// reviewable and the parent of zero or more LearningItems.
type Extract struct {
	ID             string
	DocumentID     string
	Content        string
	HTMLContent    *string
	HighlightColor *string
	Notes          *string
	PageNumber     *int
	PageTitle      *string
	Category       *string
	Tags           []string

	DisclosureLevel    int
	MaxDisclosureLevel int

	MemoryState    *MemoryState
	NextReviewDate *time.Time
	LastReviewDate *time.Time
	ReviewCount    int
	Reps           int

	DateCreated  time.Time
	DateModified time.Time
}

// LearningItem is an atomic flashcard/cloze/Q&A unit. It is the only
// entity scheduled via the full FSRS item scheduler.
type LearningItem struct {
	ID         string
	ExtractID  *string
	DocumentID *string
	ItemType   ItemType
	Question   string
	Answer     *string

	ClozeText   *string
	ClozeRanges []ClozeRange

	Difficulty int // legacy SM-2 display field, [1,10]

	Interval   float64 // days, fractional allowed
	EaseFactor float64 // legacy SM-2 compat, default 2.5, floor 1.3
	DueDate    time.Time

	DateCreated    time.Time
	DateModified   time.Time
	LastReviewDate *time.Time
	ReviewCount    int
	Lapses         int

	State       ItemState
	IsSuspended bool
	Tags        []string

	MemoryState *MemoryState
}

// NewLearningItem constructs an item in its initial new state.
func NewLearningItem(id string, itemType ItemType, question string, now time.Time) *LearningItem {
	return &LearningItem{
		ID:           id,
		ItemType:     itemType,
		Question:     question,
		Difficulty:   3,
		Interval:     0,
		EaseFactor:   2.5,
		DueDate:      now,
		DateCreated:  now,
		DateModified: now,
		State:        StateNew,
		Tags:         []string{},
	}
}

// ReviewEvent is an append-only record of a committed review; the
// source of truth for the statistics aggregator.
type ReviewEvent struct {
	ID             string
	SessionID      *string
	ItemID         string
	ItemKind       QueueItemKind
	Rating         Rating
	TimeTakenS     int
	ResultDue      time.Time
	ResultInterval float64
	EaseFactor     float64
	Timestamp      time.Time
}

// StudySession tracks a single review session from start to end.
type StudySession struct {
	ID            string
	StartedAt     time.Time
	EndedAt       *time.Time
	ItemsReviewed int
	CorrectCount  int
	TimeSpentS    int
}

// DailyStats is the idempotent per-day rollup maintained by the
// statistics aggregator.
type DailyStats struct {
	Day            string // YYYY-MM-DD, UTC calendar day
	CardsReviewed  int
	CorrectReviews int
	StudyTimeS     int
	NewCards       int
	LearningCards  int
	ReviewCards    int
}

// QueueItemKind discriminates the three schedulable strata.
type QueueItemKind string

const (
	KindDocument     QueueItemKind = "document"
	KindExtract      QueueItemKind = "extract"
	KindLearningItem QueueItemKind = "learning-item"
)

// QueueItem is a materialised, orderable entry in the unified review
// queue.
type QueueItem struct {
	ID             string
	DocumentID     string
	DocumentTitle  string
	ExtractID      *string
	LearningItemID *string
	ItemType       QueueItemKind
	PriorityRating *int
	PrioritySlider *int
	Priority       float64
	DueDate        *time.Time
	EstimatedTime  int // minutes
	Tags           []string
	Category       *string
	Progress       int // [0, 100]
}

// FourOutcomes is the preview/what-if projection: the interval, in
// days, that each rating would produce right now.
type FourOutcomes struct {
	Again float64
	Hard  float64
	Good  float64
	Easy  float64
}

// CompositePriorityScore computes priority_score =
// clamp((slider + normalise(rating)) / 2, 0, 100), where rating = 0
// contributes 0 and normalise(rating) = (rating-1)/3 * 100.
func CompositePriorityScore(rating, slider int) float64 {
	normalised := 0.0
	if rating >= 1 && rating <= 4 {
		normalised = float64(rating-1) / 3.0 * 100.0
	}
	score := (float64(slider) + normalised) / 2.0
	return clamp(score, 0, 100)
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
