package legacysm2

import (
	"testing"

	"github.com/engramd/engram/internal/domain"
)

func TestDefault(t *testing.T) {
	p := Default()
	if p.EaseFactor != 2.5 || p.Interval != 0 || p.Repetitions != 0 {
		t.Errorf("Default() = %+v", p)
	}
}

func TestNextInterval_Again_Resets(t *testing.T) {
	p := Default()
	next, err := p.NextInterval(domain.RatingAgain)
	if err != nil {
		t.Fatal(err)
	}
	if next.Repetitions != 0 || next.Interval != 0 {
		t.Errorf("NextInterval(again) = %+v, want reset", next)
	}
}

func TestNextInterval_FirstGood(t *testing.T) {
	p := Default()
	next, err := p.NextInterval(domain.RatingGood)
	if err != nil {
		t.Fatal(err)
	}
	if next.Repetitions != 1 || next.Interval != 1.0 {
		t.Errorf("NextInterval(good) = %+v, want {reps:1 interval:1.0}", next)
	}
}

func TestNextInterval_SecondGood(t *testing.T) {
	p := Params{EaseFactor: 2.5, Interval: 1.0, Repetitions: 1}
	next, err := p.NextInterval(domain.RatingGood)
	if err != nil {
		t.Fatal(err)
	}
	if next.Repetitions != 2 || next.Interval != 6.0 {
		t.Errorf("NextInterval(good) = %+v, want {reps:2 interval:6.0}", next)
	}
}

func TestNextInterval_ThirdGood(t *testing.T) {
	p := Params{EaseFactor: 2.5, Interval: 6.0, Repetitions: 2}
	next, err := p.NextInterval(domain.RatingGood)
	if err != nil {
		t.Fatal(err)
	}
	if next.Repetitions != 3 || next.Interval != 15.0 {
		t.Errorf("NextInterval(good) = %+v, want {reps:3 interval:15.0}", next)
	}
}

func TestNextInterval_EaseFactorIncreaseOnGood(t *testing.T) {
	p := Params{EaseFactor: 2.5, Interval: 1.0, Repetitions: 1}
	next, _ := p.NextInterval(domain.RatingGood)
	if next.EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %v, want 2.5", next.EaseFactor)
	}
}

func TestNextInterval_EaseFactorDecreaseOnHard(t *testing.T) {
	p := Params{EaseFactor: 2.5, Interval: 1.0, Repetitions: 1}
	next, _ := p.NextInterval(domain.RatingHard)
	if next.EaseFactor != 2.36 {
		t.Errorf("EaseFactor = %v, want 2.36", next.EaseFactor)
	}
}

func TestNextInterval_EaseFactorFloor(t *testing.T) {
	p := Params{EaseFactor: 1.3, Interval: 1.0, Repetitions: 1}
	next, _ := p.NextInterval(domain.RatingHard)
	if next.EaseFactor != 1.3 {
		t.Errorf("EaseFactor = %v, want floored at 1.3", next.EaseFactor)
	}
}

func TestNextInterval_Easy(t *testing.T) {
	p := Params{EaseFactor: 2.5, Interval: 1.0, Repetitions: 1}
	next, _ := p.NextInterval(domain.RatingEasy)
	if next.Repetitions != 2 || next.Interval != 6.0 {
		t.Errorf("NextInterval(easy) = %+v", next)
	}
	if next.EaseFactor != 2.6 {
		t.Errorf("EaseFactor = %v, want 2.6", next.EaseFactor)
	}
}

func TestNextInterval_InvalidRating(t *testing.T) {
	p := Default()
	if _, err := p.NextInterval(domain.Rating(9)); err == nil {
		t.Fatal("expected error")
	}
}
