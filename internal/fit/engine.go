package fit

import (
	"context"
	"math"

	"fitroom/internal/catalog"
	"fitroom/internal/models"
)

// deviationTolerance is the relative deviation at which a single
// measurement contributes zero: 25% off the chart value scores 0 for that
// key, an exact match scores 1.
const deviationTolerance = 0.25

// Engine is the deterministic scorer. Per shared measurement key it takes
// the normalized absolute deviation from the chart value, converts it to a
// 0..1 closeness, averages across shared keys and scales to 0..100.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (e *Engine) Score(_ context.Context, user models.Measurements, chart catalog.SizeChart, _ string) (map[string]int, error) {
	scores := make(map[string]int, len(chart.Sizes))
	for _, size := range chart.Sizes {
		scores[size] = e.scoreSize(user, chart.Rows[size])
	}
	return scores, nil
}

// scoreSize scores one size row. Only keys present on both sides count;
// with no shared keys the score is a neutral 50.
func (e *Engine) scoreSize(user, ideal models.Measurements) int {
	var sum float64
	var n int
	for key, want := range ideal {
		have, ok := user[key]
		if !ok || want <= 0 {
			continue
		}
		deviation := math.Abs(have-want) / want
		sum += 1 - clamp01(deviation/deviationTolerance)
		n++
	}
	if n == 0 {
		return 50
	}
	return clampScore(math.Round(sum / float64(n) * 100))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}
