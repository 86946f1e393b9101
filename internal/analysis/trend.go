package analysis

import "sentracker/internal/models"

// DefaultTrendThreshold is the minimum half-to-half mean shift, on the
// 0-100 scale, that counts as a real trend rather than noise.
const DefaultTrendThreshold = 5.0

// ClassifyTrend labels the trajectory of an ordered score sequence.
// Fewer than two scores is STABLE by definition. The sequence splits
// at len/2; for odd lengths the middle score counts toward the second
// half, so the most recent half is never underweighted.
func ClassifyTrend(scores []float64, threshold float64) models.Trend {
	if len(scores) < 2 {
		return models.TrendStable
	}
	if threshold <= 0 {
		threshold = DefaultTrendThreshold
	}
	mid := len(scores) / 2
	delta := mean(scores[mid:]) - mean(scores[:mid])
	switch {
	case delta > threshold:
		return models.TrendRising
	case delta < -threshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

func mean(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
