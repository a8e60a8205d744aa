package features

import (
	"math"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

// ComputeLogReturns computes log returns r_t = ln(P_t / P_{t-1}) over a
// token's snapshot history. It returns a slice of length len(history)-1, or
// nil if insufficient data.
func ComputeLogReturns(history []models.MetricSnapshot) []float64 {
	if len(history) < 2 {
		return nil
	}
	out := make([]float64, 0, len(history)-1)
	for i := 1; i < len(history); i++ {
		prev := history[i-1].Price
		cur := history[i].Price
		if prev <= 0 || cur <= 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}

// RealizedVolatility computes the sample volatility over the trailing window
// of log returns. Returns 0 when the window does not fit.
func RealizedVolatility(logReturns []float64, window int) float64 {
	if window <= 1 || len(logReturns) < window {
		return 0
	}
	sum := 0.0
	sum2 := 0.0
	for i := len(logReturns) - window; i < len(logReturns); i++ {
		r := logReturns[i]
		sum += r
		sum2 += r * r
	}
	n := float64(window)
	mean := sum / n
	variance := (sum2 - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// SnapshotVolatility is the convenience form: per-tick volatility over the
// trailing window of a token's history.
func SnapshotVolatility(history []models.MetricSnapshot, window int) float64 {
	returns := ComputeLogReturns(history)
	if window > len(returns) {
		window = len(returns)
	}
	return RealizedVolatility(returns, window)
}
