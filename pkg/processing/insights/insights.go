// Package insights computes per-session performance scores from an ordered
// lap time sequence. All functions are pure and never fail: insufficient
// data yields nil scores resp. the NotEnoughData label, so callers may invoke
// them unconditionally and concurrently.
package insights

import (
	"fmt"
	"math"

	"github.com/trackapp/laptelemetry-service-go/pkg/model"
)

const (
	// minimum laps for a coefficient-of-variation based score
	minLapsForScore = 2
	// minimum laps for a first3/last3 trend comparison
	minLapsForTrend = 6
	// relative pace change below this counts as consistent
	trendThreshold = 0.01
)

const notEnoughDataDetail = "Not enough laps to determine a pace trend yet."

// Compute derives all insights for one session's ordered lap times (ms).
func Compute(lapTimes []int) model.SessionInsights {
	label, detail := PaceTrend(lapTimes)
	return model.SessionInsights{
		ConsistencyScore:     ConsistencyScore(lapTimes),
		DrivingBehaviorScore: DrivingBehaviorScore(lapTimes),
		PaceTrendLabel:       label,
		PaceTrendDetail:      detail,
	}
}

// ConsistencyScore rates how tightly lap times cluster on a 0-100 scale,
// derived from the coefficient of variation. Nil with fewer than two valid
// laps. Identical lap times score 100.
func ConsistencyScore(lapTimes []int) *int {
	return cvScore(lapTimes)
}

// DrivingBehaviorScore is algebraically identical to ConsistencyScore but
// kept as a distinct output: the dashboard contract requires both fields.
func DrivingBehaviorScore(lapTimes []int) *int {
	return cvScore(lapTimes)
}

// cvScore is the shared implementation behind both score functions so the
// two can never drift apart.
func cvScore(lapTimes []int) *int {
	valid := validLapTimes(lapTimes)
	if len(valid) < minLapsForScore {
		return nil
	}
	mean := mean(valid)
	var sumSq float64
	for _, t := range valid {
		diff := t - mean
		sumSq += diff * diff
	}
	stdDev := math.Sqrt(sumSq / float64(len(valid)-1))
	cv := stdDev / mean
	score := int(math.Round(clamp((1-cv)*100, 0, 100)))
	return &score
}

// PaceTrend compares the average of the first three laps against the last
// three. Requires at least six valid laps.
func PaceTrend(lapTimes []int) (model.PaceTrendLabel, string) {
	valid := validLapTimes(lapTimes)
	if len(valid) < minLapsForTrend {
		return model.PaceNotEnoughData, notEnoughDataDetail
	}
	first3 := mean(valid[:3])
	last3 := mean(valid[len(valid)-3:])
	delta := (last3 - first3) / first3
	diffSecs := math.Abs(last3-first3) / 1000.0

	switch {
	case delta <= -trendThreshold:
		return model.PaceImproving, fmt.Sprintf(
			"Final three laps averaged %.2fs faster than the opening three.", diffSecs)
	case delta >= trendThreshold:
		return model.PaceFading, fmt.Sprintf(
			"Lap times slowed by %.2fs from the opening three laps to the final three.",
			diffSecs)
	default:
		return model.PaceConsistent,
			"Lap times held steady; pace remained stable across the session."
	}
}

// ScoreLabel maps a score to its dashboard label and rating bucket. Out of
// range values land in the nearest boundary bucket.
func ScoreLabel(score *int) (label, rating string) {
	switch {
	case score == nil:
		return "No Data", "unknown"
	case *score >= 90:
		return "Excellent", "excellent"
	case *score >= 80:
		return "Strong", "good"
	case *score >= 65:
		return "Needs Work", "ok"
	default:
		return "Inconsistent", "poor"
	}
}

// validLapTimes strips non-positive values. Each insight function cleans its
// own input regardless of caller discipline.
func validLapTimes(lapTimes []int) []float64 {
	valid := make([]float64, 0, len(lapTimes))
	for _, t := range lapTimes {
		if t > 0 {
			valid = append(valid, float64(t))
		}
	}
	return valid
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
