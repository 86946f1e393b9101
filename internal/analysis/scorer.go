package analysis

const (
	lexiconWeight  = 0.7
	polarityWeight = 0.3
)

// Scorer blends the lexicon contribution and the normalized polarity
// into one 0-100 sentiment value per message. Lexicon terms are
// domain-authoritative and carry 70% of the weight; polarity adds
// grammatical nuance (negation, contrast) without dominating.
type Scorer struct {
	lexicon  *Lexicon
	polarity PolarityScorer
}

// NewScorer wires a lexicon and a polarity backend together.
func NewScorer(lexicon *Lexicon, polarity PolarityScorer) *Scorer {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &Scorer{lexicon: lexicon, polarity: polarity}
}

// Score returns the blended sentiment for one message. Messages are
// scored independently; no state crosses message boundaries. The
// boolean reports whether the polarity backend failed and the neutral
// fallback was used, so callers can lower their confidence.
func (s *Scorer) Score(text string) (float64, bool) {
	lex := s.lexicon.Score(text)

	pol := 0.0
	fellBack := false
	if s.polarity != nil {
		p, err := s.polarity.Polarity(text)
		if err != nil {
			fellBack = true
		} else {
			pol = p
		}
	}
	normalized := (pol + 1) * 50

	// Clamp exactly once, never per term.
	return clamp(lex*lexiconWeight+normalized*polarityWeight, 0, 100), fellBack
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
