package analysis

import "strings"

const (
	baseScore     = 50.0
	keywordWeight = 10.0
)

// Lexicon scores text against curated positive and negative keyword
// lists. Lists are immutable after construction; matching is
// case-insensitive substring containment, and every distinct keyword
// present counts once.
type Lexicon struct {
	positive []string
	negative []string
}

// NewLexicon builds a lexicon from the supplied keyword lists.
func NewLexicon(positive, negative []string) *Lexicon {
	l := &Lexicon{
		positive: make([]string, len(positive)),
		negative: make([]string, len(negative)),
	}
	for i, w := range positive {
		l.positive[i] = strings.ToLower(w)
	}
	for i, w := range negative {
		l.negative[i] = strings.ToLower(w)
	}
	return l
}

// DefaultLexicon returns the stock bilingual (English/Spanish) emotion
// keyword lists. Domain nouns like "price" or "competitor" belong to
// the risk signal detector, not here.
func DefaultLexicon() *Lexicon {
	return NewLexicon(
		[]string{
			"love", "excellent", "amazing", "fantastic", "wonderful", "great", "good",
			"perfect", "best", "awesome", "brilliant", "outstanding", "superb", "trust",
			"confident", "happy", "thrilled", "delighted", "impressed", "satisfied",
			// "perfect" and "fantastic" already cover the Spanish forms by
			// substring.
			"encanta", "excelente", "increible", "genial", "bueno",
			"maravilloso", "fabuloso", "impresionado", "satisfecho",
			"me gusta", "contento",
		},
		[]string{
			"hate", "terrible", "awful", "horrible", "bad", "poor", "worst",
			"disappointed", "frustrated", "angry", "annoyed", "upset", "broken",
			"useless", "unacceptable", "fail", "slow", "bug",
			"odio", "malo", "peor", "problema", "lento", "fracaso",
			"inaceptable", "decepcionado", "molesto", "enojado", "inutil",
		},
	)
}

// Score maps text to a keyword-based sentiment contribution centered
// on 50. The value is deliberately unclamped; the blender clamps once
// at the end. Empty text yields the neutral base.
func (l *Lexicon) Score(text string) float64 {
	if text == "" {
		return baseScore
	}
	lower := strings.ToLower(text)
	score := baseScore
	for _, w := range l.positive {
		if strings.Contains(lower, w) {
			score += keywordWeight
		}
	}
	for _, w := range l.negative {
		if strings.Contains(lower, w) {
			score -= keywordWeight
		}
	}
	return score
}
