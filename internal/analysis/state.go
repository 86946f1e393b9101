package analysis

import "sentracker/internal/models"

// SentimentState buckets a 0-100 score into a human-readable label.
type SentimentState string

const (
	StateExtremelyPositive SentimentState = "EXTREMELY_POSITIVE"
	StatePositive          SentimentState = "POSITIVE"
	StateNeutral           SentimentState = "NEUTRAL"
	StateNegative          SentimentState = "NEGATIVE"
	StateExtremelyNegative SentimentState = "EXTREMELY_NEGATIVE"
)

// StateFor classifies a blended score.
func StateFor(score float64) SentimentState {
	switch {
	case score >= 80:
		return StateExtremelyPositive
	case score >= 60:
		return StatePositive
	case score >= 40:
		return StateNeutral
	case score >= 20:
		return StateNegative
	default:
		return StateExtremelyNegative
	}
}

// turningPointChange is the minimum adjacent-score jump worth calling
// out as a turning point.
const turningPointChange = 20.0

// TurningPoint marks a significant sentiment shift between two
// consecutive messages.
type TurningPoint struct {
	Index     int             `json:"index"`
	Change    float64         `json:"change"`
	FromState SentimentState  `json:"from_state"`
	ToState   SentimentState  `json:"to_state"`
	Severity  models.Severity `json:"severity"`
}

// TurningPoints returns every adjacent shift larger than 20 points,
// graded MEDIUM (>20), HIGH (>30) or CRITICAL (>40).
func TurningPoints(scores []float64) []TurningPoint {
	var points []TurningPoint
	for i := 1; i < len(scores); i++ {
		change := scores[i] - scores[i-1]
		magnitude := change
		if magnitude < 0 {
			magnitude = -magnitude
		}
		if magnitude <= turningPointChange {
			continue
		}
		severity := models.SeverityMedium
		if magnitude > 40 {
			severity = models.SeverityCritical
		} else if magnitude > 30 {
			severity = models.SeverityHigh
		}
		points = append(points, TurningPoint{
			Index:     i,
			Change:    change,
			FromState: StateFor(scores[i-1]),
			ToState:   StateFor(scores[i]),
			Severity:  severity,
		})
	}
	return points
}
