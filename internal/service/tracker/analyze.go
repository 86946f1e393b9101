package tracker

import (
	"context"
	"strings"
	"time"

	"sentracker/internal/analysis"
	"sentracker/internal/models"
	"sentracker/internal/risk"
)

// MessageScore is one entry of the per-message timeline.
type MessageScore struct {
	Index     int                     `json:"index"`
	Text      string                  `json:"text"`
	Timestamp *time.Time              `json:"timestamp,omitempty"`
	Score     float64                 `json:"score"`
	State     analysis.SentimentState `json:"state"`
}

// AnalysisResult is the full outcome of one analyze call.
type AnalysisResult struct {
	ConversationID  int64                   `json:"conversation_id"`
	CustomerID      string                  `json:"customer_id"`
	ContextType     models.ContextType      `json:"context_type"`
	Timeline        []MessageScore          `json:"timeline"`
	SentimentScore  float64                 `json:"sentiment_score"`
	Trend           models.Trend            `json:"trend"`
	TurningPoints   []analysis.TurningPoint `json:"turning_points,omitempty"`
	Signals         []risk.Match            `json:"signals"`
	ChurnRisk       float64                 `json:"churn_risk"`
	RiskLevel       models.RiskLevel        `json:"risk_level"`
	PredictedAction models.Action           `json:"predicted_action"`
	Confidence      float64                 `json:"confidence"`
	// PolarityFallback reports that the polarity backend failed and
	// the scores lean on the lexicon alone.
	PolarityFallback bool              `json:"polarity_fallback,omitempty"`
	Alert            *models.RiskAlert `json:"alert,omitempty"`
}

// Analyze runs the full pipeline over an ordered message sequence and
// persists the outcome for customerID: per-message blending, trend
// classification, signal detection, risk prediction, then one
// transactional save.
func (s *Service) Analyze(ctx context.Context, customerID string, contextType models.ContextType, messages []models.Message) (*AnalysisResult, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, invalidInputf("customer_id is required")
	}
	if len(messages) == 0 {
		return nil, invalidInputf("messages cannot be empty")
	}
	if contextType == "" {
		contextType = models.ContextCustomer
	}
	if !contextType.Valid() {
		return nil, invalidInputf("unknown context_type %q", contextType)
	}

	scores := make([]float64, len(messages))
	texts := make([]string, len(messages))
	timeline := make([]MessageScore, len(messages))
	fellBack := false
	for i, msg := range messages {
		score, fb := s.scorer.Score(msg.Text)
		if fb {
			fellBack = true
		}
		scores[i] = score
		texts[i] = msg.Text
		timeline[i] = MessageScore{
			Index:     i + 1,
			Text:      msg.Text,
			Timestamp: msg.Timestamp,
			Score:     score,
			State:     analysis.StateFor(score),
		}
	}

	trend := analysis.ClassifyTrend(scores, s.trendThreshold)
	signals := s.detector.DetectAll(texts)
	categories := make([]risk.Category, len(signals))
	for i, m := range signals {
		categories[i] = m.Category
	}

	latest := scores[len(scores)-1]
	pred := s.predictor.Predict(latest, trend, categories, len(messages), fellBack)

	conversationID, alert, err := s.SaveAnalysis(ctx, SaveInput{
		CustomerID:      customerID,
		ContextType:     contextType,
		Messages:        texts,
		SentimentScore:  latest,
		Trend:           trend,
		RiskLevel:       pred.RiskLevel,
		PredictedAction: pred.Action,
		Confidence:      pred.Confidence,
		Risk:            pred.Risk,
	})
	if err != nil {
		return nil, err
	}

	return &AnalysisResult{
		ConversationID:   conversationID,
		CustomerID:       customerID,
		ContextType:      contextType,
		Timeline:         timeline,
		SentimentScore:   latest,
		Trend:            trend,
		TurningPoints:    analysis.TurningPoints(scores),
		Signals:          signals,
		ChurnRisk:        pred.Risk,
		RiskLevel:        pred.RiskLevel,
		PredictedAction:  pred.Action,
		Confidence:       pred.Confidence,
		PolarityFallback: fellBack,
		Alert:            alert,
	}, nil
}
