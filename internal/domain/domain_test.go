package domain

import (
	"math"
	"testing"
	"time"
)

func TestParseRating(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    Rating
		wantErr bool
	}{
		{"again", 1, RatingAgain, false},
		{"hard", 2, RatingHard, false},
		{"good", 3, RatingGood, false},
		{"easy", 4, RatingEasy, false},
		{"zero rejected", 0, 0, true},
		{"five rejected", 5, 0, true},
		{"negative rejected", -1, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRating(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseRating(%d) expected error, got nil", tt.in)
				}
				if KindOf(err) != ErrInvalidInput {
					t.Errorf("KindOf(err) = %q, want %q", KindOf(err), ErrInvalidInput)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseRating(%d) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseRating(%d) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestMemoryState_Valid(t *testing.T) {
	tests := []struct {
		name  string
		state *MemoryState
		want  bool
	}{
		{"nil is invalid", nil, false},
		{"positive both valid", &MemoryState{Stability: 3, Difficulty: 5}, true},
		{"zero stability invalid", &MemoryState{Stability: 0, Difficulty: 5}, false},
		{"negative difficulty invalid", &MemoryState{Stability: 3, Difficulty: -1}, false},
		{"NaN invalid", &MemoryState{Stability: math.NaN(), Difficulty: 5}, false},
		{"Inf invalid", &MemoryState{Stability: math.Inf(1), Difficulty: 5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompositePriorityScore(t *testing.T) {
	tests := []struct {
		name   string
		rating int
		slider int
		want   float64
	}{
		{"rating=4 slider=80", 4, 80, 90.0},
		{"rating unset slider=40", 0, 40, 20.0},
		{"rating=1 slider=0", 1, 0, 0.0},
		{"rating=4 slider=100", 4, 100, 100.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompositePriorityScore(tt.rating, tt.slider)
			if got != tt.want {
				t.Errorf("CompositePriorityScore(%d, %d) = %v, want %v", tt.rating, tt.slider, got, tt.want)
			}
		})
	}
}

func TestNewLearningItem(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	item := NewLearningItem("id-1", ItemFlashcard, "2+2?", now)

	if item.State != StateNew {
		t.Errorf("State = %v, want %v", item.State, StateNew)
	}
	if item.ReviewCount != 0 {
		t.Errorf("ReviewCount = %d, want 0", item.ReviewCount)
	}
	if item.MemoryState != nil {
		t.Errorf("MemoryState = %v, want nil", item.MemoryState)
	}
	if item.EaseFactor != 2.5 {
		t.Errorf("EaseFactor = %v, want 2.5", item.EaseFactor)
	}
}

func TestDocument_PriorityScore(t *testing.T) {
	d := &Document{PriorityRating: 4, PrioritySlider: 80}
	if got := d.PriorityScore(); got != 90.0 {
		t.Errorf("PriorityScore() = %v, want 90.0", got)
	}
}

func TestError_KindOf(t *testing.T) {
	err := NotFoundf("document %s", "doc-1")
	if KindOf(err) != ErrNotFound {
		t.Errorf("KindOf = %q, want %q", KindOf(err), ErrNotFound)
	}
	if err.Error() == "" {
		t.Error("Error() should not be empty")
	}

	wrapped := Internalf(err, "wrapping")
	if KindOf(wrapped) != ErrInternal {
		t.Errorf("KindOf(wrapped) = %q, want %q", KindOf(wrapped), ErrInternal)
	}
}

func TestParseRating_InvalidIsError(t *testing.T) {
	// Spec requires an out-of-range rating to surface as invalid-input,
	// not silently fall back to a default rating.
	_, err := ParseRating(99)
	if err == nil {
		t.Fatal("expected error for rating 99")
	}
	if KindOf(err) != ErrInvalidInput {
		t.Errorf("KindOf = %q, want %q", KindOf(err), ErrInvalidInput)
	}
}
