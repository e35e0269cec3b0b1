package document

import (
	"testing"

	"github.com/engramd/engram/internal/domain"
)

func TestSchedule_NewDocument(t *testing.T) {
	s := Default()
	res, err := s.Schedule(nil, domain.RatingGood, 0, 0.9)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.IntervalDays < MinIntervalDays {
		t.Errorf("IntervalDays = %v, want >= %v", res.IntervalDays, MinIntervalDays)
	}
	if res.NextStability <= 0 || res.NextDifficulty <= 0 {
		t.Errorf("state should be positive: %+v", res)
	}
}

func TestSchedule_ExistingStability(t *testing.T) {
	s := Default()
	state := &domain.MemoryState{Stability: 5, Difficulty: 3}
	res, err := s.Schedule(state, domain.RatingGood, 2, 0.9)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if res.IntervalDays < MinIntervalDays {
		t.Errorf("IntervalDays = %v, want >= %v", res.IntervalDays, MinIntervalDays)
	}
}

func TestSchedule_HardShorterThanEasy(t *testing.T) {
	s := Default()
	state := &domain.MemoryState{Stability: 5, Difficulty: 3}
	easy, err := s.Schedule(state, domain.RatingEasy, 2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	hard, err := s.Schedule(state, domain.RatingHard, 2, 0.9)
	if err != nil {
		t.Fatal(err)
	}
	if hard.IntervalDays > easy.IntervalDays {
		t.Errorf("hard interval %v should not exceed easy interval %v", hard.IntervalDays, easy.IntervalDays)
	}
}

func TestSchedule_ClampsToTenYears(t *testing.T) {
	s := Default()
	state := &domain.MemoryState{Stability: 1e9, Difficulty: 3}
	res, err := s.Schedule(state, domain.RatingEasy, 5000, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	if res.IntervalDays > MaxIntervalDays {
		t.Errorf("IntervalDays = %v, want <= %v", res.IntervalDays, MaxIntervalDays)
	}
}
