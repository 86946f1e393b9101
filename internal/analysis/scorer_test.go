package analysis

import (
	"errors"
	"testing"
)

type stubPolarity struct {
	value float64
	err   error
}

func (s stubPolarity) Polarity(string) (float64, error) {
	return s.value, s.err
}

func TestScorerNeutralBlend(t *testing.T) {
	s := NewScorer(DefaultLexicon(), stubPolarity{value: 0})
	got, fellBack := s.Score("")
	if fellBack {
		t.Fatalf("unexpected fallback")
	}
	if got != 50 {
		t.Fatalf("neutral blend = %v, want 50", got)
	}
}

func TestScorerBlendWeights(t *testing.T) {
	s := NewScorer(DefaultLexicon(), stubPolarity{value: 0})
	// lexicon 60, polarity neutral: 60*0.7 + 50*0.3 = 57
	got, _ := s.Score("I love your product")
	if got != 57 {
		t.Fatalf("blend = %v, want 57", got)
	}

	s = NewScorer(DefaultLexicon(), stubPolarity{value: 1})
	// lexicon 60, polarity max: 60*0.7 + 100*0.3 = 72
	got, _ = s.Score("I love your product")
	if got != 72 {
		t.Fatalf("blend = %v, want 72", got)
	}
}

func TestScorerClampsToRange(t *testing.T) {
	words := []string{"alpha", "beta", "gamma", "delta", "epsilon", "zeta"}
	text := "alpha beta gamma delta epsilon zeta"

	s := NewScorer(NewLexicon(words, nil), stubPolarity{value: 1})
	if got, _ := s.Score(text); got != 100 {
		t.Fatalf("score = %v, want clamp at 100", got)
	}

	// lexicon -10, polarity -1: -10*0.7 + 0*0.3 = -7, clamped to 0
	s = NewScorer(NewLexicon(nil, words), stubPolarity{value: -1})
	if got, _ := s.Score(text); got != 0 {
		t.Fatalf("score = %v, want clamp at 0", got)
	}
}

func TestScorerFallsBackOnPolarityError(t *testing.T) {
	s := NewScorer(DefaultLexicon(), stubPolarity{err: errors.New("backend down")})
	got, fellBack := s.Score("I love your product")
	if !fellBack {
		t.Fatalf("expected fallback flag")
	}
	// lexicon 60, neutral polarity substitute: 60*0.7 + 50*0.3 = 57
	if got != 57 {
		t.Fatalf("fallback blend = %v, want 57", got)
	}
}

func TestVaderScorerDeterministic(t *testing.T) {
	v := NewVaderScorer()
	text := "The product is good but support is slow"
	first, err := v.Polarity(text)
	if err != nil {
		t.Fatalf("polarity: %v", err)
	}
	for i := 0; i < 3; i++ {
		got, err := v.Polarity(text)
		if err != nil {
			t.Fatalf("polarity: %v", err)
		}
		if got != first {
			t.Fatalf("polarity changed between calls: %v vs %v", first, got)
		}
	}
	if first < -1 || first > 1 {
		t.Fatalf("polarity %v out of [-1, 1]", first)
	}
}

func TestVaderScorerEmptyIsNeutral(t *testing.T) {
	v := NewVaderScorer()
	got, err := v.Polarity("   ")
	if err != nil {
		t.Fatalf("polarity: %v", err)
	}
	if got != 0 {
		t.Fatalf("blank polarity = %v, want 0", got)
	}
}

func TestVaderScorerNegationFlipsDirection(t *testing.T) {
	v := NewVaderScorer()
	plain, err := v.Polarity("The service is great")
	if err != nil {
		t.Fatalf("polarity: %v", err)
	}
	negated, err := v.Polarity("The service is not great")
	if err != nil {
		t.Fatalf("polarity: %v", err)
	}
	if plain <= 0 {
		t.Fatalf("expected positive polarity, got %v", plain)
	}
	if negated >= plain {
		t.Fatalf("negation did not lower polarity: %v vs %v", negated, plain)
	}
}
