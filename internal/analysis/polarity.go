package analysis

import (
	"strings"

	"github.com/jonreiter/govader"
)

// PolarityScorer produces a grammar-aware polarity in [-1, 1] for a
// text. Implementations must be deterministic for identical input and
// return 0 for neutral or empty text. This is the injection point for
// swapping sentiment backends without touching the blender or the
// risk logic.
type PolarityScorer interface {
	Polarity(text string) (float64, error)
}

// VaderScorer backs PolarityScorer with the VADER rule-based model,
// which accounts for negation and contrastive conjunctions ("but").
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer builds a scorer with the stock VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score for text.
func (v *VaderScorer) Polarity(text string) (float64, error) {
	if strings.TrimSpace(text) == "" {
		return 0, nil
	}
	return v.analyzer.PolarityScores(text).Compound, nil
}
