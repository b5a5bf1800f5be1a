package fit

import (
	"context"

	"fitroom/internal/catalog"
	"fitroom/internal/models"
)

// Scorer produces a best-fit score in [0,100] for every size in the chart.
// Implementations must return one entry per chart size; a failed scoring
// call returns an error and the caller degrades to an empty map.
type Scorer interface {
	Score(ctx context.Context, user models.Measurements, chart catalog.SizeChart, garmentType string) (map[string]int, error)
}

// BestFit picks the size with the strictly maximum score. Ties resolve to
// the earlier size in the chart's declared order. Empty scores return "".
func BestFit(scores map[string]int, sizeOrder []string) string {
	best := ""
	bestScore := -1
	for _, size := range sizeOrder {
		score, ok := scores[size]
		if !ok {
			continue
		}
		if score > bestScore {
			best = size
			bestScore = score
		}
	}
	return best
}
