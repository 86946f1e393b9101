package risk

import "strings"

// Category identifies a class of churn-risk signal found in raw text,
// independent of the numeric sentiment score. Signals explain why risk
// is elevated, distinct from that it is elevated.
type Category string

const (
	PricingPressure    Category = "PRICING_PRESSURE"
	CompetitorMention  Category = "COMPETITOR_MENTION"
	Frustration        Category = "FRUSTRATION"
	CancellationIntent Category = "CANCELLATION_INTENT"
)

// Categories lists every category in detection order.
var Categories = []Category{
	PricingPressure,
	CompetitorMention,
	Frustration,
	CancellationIntent,
}

// Match pairs a detected category with the phrase that triggered it.
type Match struct {
	Category Category `json:"category"`
	Phrase   string   `json:"phrase"`
}

// Detector scans raw text for risk phrase categories. Detection per
// category is independent: one message may trigger zero, one, or all
// of them. The detector is pure; phrase lists are immutable after
// construction.
type Detector struct {
	phrases map[Category][]string
}

// NewDetector builds a detector from per-category phrase lists.
func NewDetector(phrases map[Category][]string) *Detector {
	d := &Detector{phrases: make(map[Category][]string, len(phrases))}
	for cat, list := range phrases {
		lowered := make([]string, len(list))
		for i, p := range list {
			lowered[i] = strings.ToLower(p)
		}
		d.phrases[cat] = lowered
	}
	return d
}

// DefaultDetector returns the stock bilingual phrase lists.
func DefaultDetector() *Detector {
	return NewDetector(map[Category][]string{
		PricingPressure: {
			"price", "pricing", "expensive", "cost", "fee", "charge", "budget",
			"discount", "cheaper",
			"caro", "precio", "costoso", "descuento", "presupuesto",
		},
		CompetitorMention: {
			"competitor", "alternative", "switch", "instead", "versus",
			"someone else", "another vendor", "other options",
			"competencia", "competidor", "alternativa", "otro proveedor",
		},
		Frustration: {
			"frustrated", "annoyed", "angry", "upset", "disappointed",
			"waiting", "delayed", "not working", "broken", "fail", "error",
			"unacceptable",
			"frustrado", "molesto", "enojado", "decepcionado", "esperando",
			"no funciona", "inaceptable",
		},
		CancellationIntent: {
			"cancel", "unsubscribe", "terminate", "quit", "goodbye",
			"not renewing", "shut down my account",
			"cancelar", "dar de baja", "renunciar", "me voy", "adios", "adiós",
		},
	})
}

// Detect returns one match per category present in the text, in the
// fixed Categories order. The phrase is the first configured phrase
// found, kept for explanations.
func (d *Detector) Detect(text string) []Match {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var matches []Match
	for _, cat := range Categories {
		for _, phrase := range d.phrases[cat] {
			if strings.Contains(lower, phrase) {
				matches = append(matches, Match{Category: cat, Phrase: phrase})
				break
			}
		}
	}
	return matches
}

// DetectAll aggregates matches across an ordered message sequence,
// keeping the first triggering phrase per category.
func (d *Detector) DetectAll(texts []string) []Match {
	seen := make(map[Category]string, len(Categories))
	for _, text := range texts {
		for _, m := range d.Detect(text) {
			if _, ok := seen[m.Category]; !ok {
				seen[m.Category] = m.Phrase
			}
		}
	}
	var matches []Match
	for _, cat := range Categories {
		if phrase, ok := seen[cat]; ok {
			matches = append(matches, Match{Category: cat, Phrase: phrase})
		}
	}
	return matches
}
