package risk

import "sentracker/internal/models"

// Config carries the tunable constants of the churn-risk policy.
type Config struct {
	// DecliningAdjust is added to the base risk on a DECLINING trend;
	// RisingAdjust is subtracted on a RISING trend.
	DecliningAdjust float64
	RisingAdjust    float64
	// CancellationWeight is the per-analysis increment for a detected
	// cancellation intent; SignalWeight applies to every other
	// category. Cancellation weighs more because it is the most direct
	// churn indicator.
	CancellationWeight float64
	SignalWeight       float64
	// AlertThreshold is the churn risk at which a RiskAlert is due.
	AlertThreshold float64
	// ConfidenceCap bounds confidence so the system never claims
	// certainty.
	ConfidenceCap float64
}

// DefaultConfig returns the calibrated policy constants.
func DefaultConfig() Config {
	return Config{
		DecliningAdjust:    0.10,
		RisingAdjust:       0.10,
		CancellationWeight: 0.10,
		SignalWeight:       0.04,
		AlertThreshold:     0.70,
		ConfidenceCap:      0.95,
	}
}

// Prediction is the outcome of the churn-risk policy for one analysis.
type Prediction struct {
	Risk       float64          `json:"risk"`
	RiskLevel  models.RiskLevel `json:"risk_level"`
	Action     models.Action    `json:"predicted_action"`
	Confidence float64          `json:"confidence"`
	// AlertDue is set when Risk crossed the alert threshold; Severity
	// is only meaningful in that case.
	AlertDue      bool            `json:"alert_due"`
	AlertSeverity models.Severity `json:"alert_severity,omitempty"`
}

// rule is one row of the action decision table.
type rule struct {
	match  func(risk float64, trend models.Trend) bool
	action models.Action
}

// Predictor turns latest score, trend, and detected signals into a
// churn-risk estimate with a recommended action. The policy is a
// documented decision table, not a learned model.
type Predictor struct {
	cfg   Config
	rules []rule
}

// NewPredictor builds a predictor; zero config fields fall back to
// DefaultConfig values.
func NewPredictor(cfg Config) *Predictor {
	def := DefaultConfig()
	if cfg.DecliningAdjust == 0 {
		cfg.DecliningAdjust = def.DecliningAdjust
	}
	if cfg.RisingAdjust == 0 {
		cfg.RisingAdjust = def.RisingAdjust
	}
	if cfg.CancellationWeight == 0 {
		cfg.CancellationWeight = def.CancellationWeight
	}
	if cfg.SignalWeight == 0 {
		cfg.SignalWeight = def.SignalWeight
	}
	if cfg.AlertThreshold == 0 {
		cfg.AlertThreshold = def.AlertThreshold
	}
	if cfg.ConfidenceCap == 0 {
		cfg.ConfidenceCap = def.ConfidenceCap
	}
	return &Predictor{
		cfg: cfg,
		// Evaluated top to bottom, first match wins.
		rules: []rule{
			{func(r float64, _ models.Trend) bool { return r >= 0.7 }, models.ActionChurn},
			{func(r float64, t models.Trend) bool { return r >= 0.5 && t == models.TrendDeclining }, models.ActionEscalation},
			{func(r float64, _ models.Trend) bool { return r >= 0.5 }, models.ActionMonitorClosely},
			{func(float64, models.Trend) bool { return true }, models.ActionResolution},
		},
	}
}

// AlertThreshold reports the configured alert threshold.
func (p *Predictor) AlertThreshold() float64 {
	return p.cfg.AlertThreshold
}

// Predict runs the risk policy. historyLength is the number of
// messages observed; polarityFallback reports that the polarity
// backend was unavailable so the score leaned on the lexicon alone.
func (p *Predictor) Predict(latestScore float64, trend models.Trend, signals []Category, historyLength int, polarityFallback bool) Prediction {
	risk := (100 - latestScore) / 100
	switch trend {
	case models.TrendDeclining:
		risk += p.cfg.DecliningAdjust
	case models.TrendRising:
		risk -= p.cfg.RisingAdjust
	}
	for _, cat := range signals {
		if cat == CancellationIntent {
			risk += p.cfg.CancellationWeight
		} else {
			risk += p.cfg.SignalWeight
		}
	}
	if risk < 0 {
		risk = 0
	}
	if risk > 1 {
		risk = 1
	}

	var action models.Action
	for _, r := range p.rules {
		if r.match(risk, trend) {
			action = r.action
			break
		}
	}

	confidence := 0.5 + 0.05*float64(historyLength)
	if polarityFallback {
		confidence -= 0.1
	}
	if confidence > p.cfg.ConfidenceCap {
		confidence = p.cfg.ConfidenceCap
	}
	if confidence < 0.1 {
		confidence = 0.1
	}

	pred := Prediction{
		Risk:       risk,
		RiskLevel:  LevelFor(risk),
		Action:     action,
		Confidence: confidence,
	}
	if risk >= p.cfg.AlertThreshold {
		pred.AlertDue = true
		pred.AlertSeverity = SeverityFor(risk)
	}
	return pred
}

// LevelFor buckets a churn-risk estimate into a coarse level.
func LevelFor(risk float64) models.RiskLevel {
	switch {
	case risk < 0.3:
		return models.RiskLow
	case risk < 0.55:
		return models.RiskMedium
	case risk < 0.75:
		return models.RiskHigh
	default:
		return models.RiskCritical
	}
}

// SeverityFor grades the alert raised for a threshold-crossing risk.
func SeverityFor(risk float64) models.Severity {
	switch {
	case risk >= 0.9:
		return models.SeverityCritical
	case risk >= 0.8:
		return models.SeverityHigh
	default:
		return models.SeverityMedium
	}
}
