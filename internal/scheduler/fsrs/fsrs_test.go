package fsrs

import (
	"testing"

	"github.com/engramd/engram/internal/domain"
)

func TestSchedule_NewItem_GoodRating(t *testing.T) {
	s := Default()
	res, err := s.Schedule(nil, domain.RatingGood, 0, 0.9)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.NextStability <= 0 {
		t.Errorf("NextStability = %v, want > 0", res.NextStability)
	}
	if res.NextDifficulty < 1 || res.NextDifficulty > 10 {
		t.Errorf("NextDifficulty = %v, want in [1,10]", res.NextDifficulty)
	}
	if res.IntervalDays < 1 {
		t.Errorf("IntervalDays = %v, want >= 1", res.IntervalDays)
	}
}

func TestSchedule_InvalidRating(t *testing.T) {
	s := Default()
	if _, err := s.Schedule(nil, domain.Rating(9), 0, 0.9); err == nil {
		t.Fatal("expected error for invalid rating")
	} else if domain.KindOf(err) != domain.ErrInvalidInput {
		t.Errorf("KindOf = %q, want invalid-input", domain.KindOf(err))
	}
}

func TestSchedule_AgainAfterGood_ShorterInterval(t *testing.T) {
	s := Default()
	first, err := s.Schedule(nil, domain.RatingGood, 0, 0.9)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	state := &domain.MemoryState{Stability: first.NextStability, Difficulty: first.NextDifficulty}

	again, err := s.Schedule(state, domain.RatingAgain, 2, 0.9)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if again.NextStability >= first.NextStability {
		t.Errorf("again stability %v should be smaller than good stability %v", again.NextStability, first.NextStability)
	}
}

func TestSchedule_EasyLongerThanHard(t *testing.T) {
	s := Default()
	state := &domain.MemoryState{Stability: 5, Difficulty: 5}

	easy, err := s.Schedule(state, domain.RatingEasy, 3, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	hard, err := s.Schedule(state, domain.RatingHard, 3, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if easy.IntervalDays < hard.IntervalDays {
		t.Errorf("easy interval %v should be >= hard interval %v", easy.IntervalDays, hard.IntervalDays)
	}
}

func TestPreview_FourOutcomes(t *testing.T) {
	s := Default()
	state := &domain.MemoryState{Stability: 5, Difficulty: 5}
	out, err := s.Preview(state, 3, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if out.Again <= 0 || out.Hard <= 0 || out.Good <= 0 || out.Easy <= 0 {
		t.Errorf("all four outcomes must be positive: %+v", out)
	}
}

func TestPreview_MatchesSubsequentSchedule(t *testing.T) {
	// preview(X) must equal schedule(rating=X), given no intervening review.
	s := Default()
	state := &domain.MemoryState{Stability: 5, Difficulty: 5}

	preview, err := s.Preview(state, 2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	committed, err := s.Schedule(state, domain.RatingGood, 2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if preview.Good != committed.IntervalDays {
		t.Errorf("preview.Good = %v, committed interval = %v", preview.Good, committed.IntervalDays)
	}
}

func TestPostProcessInterval_Fallback(t *testing.T) {
	got := PostProcessInterval(0, domain.RatingGood, 1, 3650)
	if got != 1 {
		t.Errorf("PostProcessInterval(0) = %v, want 1 (fallback clamped to min)", got)
	}
}

func TestPostProcessInterval_ClampsMax(t *testing.T) {
	got := PostProcessInterval(999999, domain.RatingGood, 1, 3650)
	if got != 3650 {
		t.Errorf("PostProcessInterval(999999) = %v, want 3650", got)
	}
}
