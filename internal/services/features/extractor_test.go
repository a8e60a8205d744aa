package features

import (
	"math"
	"testing"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

func historyFromPrices(prices ...float64) []models.MetricSnapshot {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.MetricSnapshot, 0, len(prices))
	for i, p := range prices {
		out = append(out, models.MetricSnapshot{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Price:     p,
		})
	}
	return out
}

func TestComputeLogReturns(t *testing.T) {
	returns := ComputeLogReturns(historyFromPrices(1.0, 2.0, 1.0))
	if len(returns) != 2 {
		t.Fatalf("len(returns) = %d, want 2", len(returns))
	}
	want := math.Log(2.0)
	if math.Abs(returns[0]-want) > 1e-12 {
		t.Errorf("returns[0] = %v, want %v", returns[0], want)
	}
	if math.Abs(returns[1]+want) > 1e-12 {
		t.Errorf("returns[1] = %v, want %v", returns[1], -want)
	}
}

func TestComputeLogReturnsDegenerate(t *testing.T) {
	if got := ComputeLogReturns(nil); got != nil {
		t.Errorf("nil history: got %v, want nil", got)
	}
	if got := ComputeLogReturns(historyFromPrices(1.0)); got != nil {
		t.Errorf("single snapshot: got %v, want nil", got)
	}
	// Bad prices contribute a zero return instead of NaN.
	returns := ComputeLogReturns(historyFromPrices(1.0, 0, 2.0))
	for i, r := range returns {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			t.Errorf("returns[%d] = %v, want finite", i, r)
		}
	}
	if returns[0] != 0 {
		t.Errorf("zero-price return = %v, want 0", returns[0])
	}
}

func TestRealizedVolatility(t *testing.T) {
	// Constant returns have zero sample variance.
	if got := RealizedVolatility([]float64{0.01, 0.01, 0.01, 0.01}, 4); got != 0 {
		t.Errorf("constant returns: vol = %v, want 0", got)
	}
	// Alternating +r/-r over window 4: mean 0, variance r^2*4/3.
	r := 0.02
	got := RealizedVolatility([]float64{r, -r, r, -r}, 4)
	want := math.Sqrt(r * r * 4 / 3)
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("vol = %v, want %v", got, want)
	}
	if got := RealizedVolatility([]float64{r, -r}, 4); got != 0 {
		t.Errorf("short series: vol = %v, want 0", got)
	}
	if got := RealizedVolatility([]float64{r, -r}, 1); got != 0 {
		t.Errorf("window 1: vol = %v, want 0", got)
	}
}

func TestSnapshotVolatilityShrinksWindow(t *testing.T) {
	// Window larger than available returns still yields a value.
	got := SnapshotVolatility(historyFromPrices(1.0, 1.1, 1.0, 1.2), 30)
	if got <= 0 {
		t.Errorf("vol = %v, want > 0", got)
	}
}
