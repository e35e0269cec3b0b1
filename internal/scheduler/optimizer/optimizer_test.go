package optimizer

import (
	"testing"

	"github.com/engramd/engram/internal/domain"
)

func TestOptimize_EmptyHistory(t *testing.T) {
	o := New()
	res := o.Optimize(nil, DefaultParams())
	if res.Iterations != 0 || res.Converged {
		t.Errorf("Optimize(empty) = %+v, want zero iterations and not converged", res)
	}
	if res.ExpectedRetention != 0.5 {
		t.Errorf("ExpectedRetention = %v, want 0.5", res.ExpectedRetention)
	}
}

func TestOptimize_ConvergesOnConsistentHistory(t *testing.T) {
	o := New()
	history := make([]HistoryRecord, 0, 20)
	for i := 0; i < 20; i++ {
		history = append(history, HistoryRecord{Rating: domain.RatingGood, DaysSincePrevious: 1})
	}
	res := o.Optimize(history, DefaultParams())
	if res.ExpectedRetention < 0 || res.ExpectedRetention > 1 {
		t.Errorf("ExpectedRetention = %v, want in [0,1]", res.ExpectedRetention)
	}
	if res.Iterations == 0 {
		t.Error("expected at least one iteration for a nonempty history")
	}
}

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	if p.MinEaseFactor != 1.3 || p.InitialEaseFactor != 2.5 || p.DesiredRetention != 0.9 {
		t.Errorf("DefaultParams() = %+v", p)
	}
}
