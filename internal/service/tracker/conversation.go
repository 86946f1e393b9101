package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sentracker/internal/models"
	"sentracker/internal/risk"
)

// SaveInput captures one analysis outcome to persist.
type SaveInput struct {
	CustomerID      string
	ContextType     models.ContextType
	Messages        []string
	SentimentScore  float64
	Trend           models.Trend
	RiskLevel       models.RiskLevel
	PredictedAction models.Action
	Confidence      float64
	// Risk is the numeric churn risk in [0, 1] backing the profile
	// update and the alert decision.
	Risk float64
	// AlertMessage overrides the generated alert cause text.
	AlertMessage string
}

func (in *SaveInput) normalize() error {
	in.CustomerID = strings.TrimSpace(in.CustomerID)
	if in.CustomerID == "" {
		return invalidInputf("customer_id is required")
	}
	if len(in.Messages) == 0 {
		return invalidInputf("messages cannot be empty")
	}
	if in.SentimentScore < 0 || in.SentimentScore > 100 {
		return invalidInputf("sentiment_score %.2f outside [0, 100]", in.SentimentScore)
	}
	if in.ContextType == "" {
		in.ContextType = models.ContextCustomer
	}
	if !in.ContextType.Valid() {
		return invalidInputf("unknown context_type %q", in.ContextType)
	}
	if !in.Trend.Valid() {
		return invalidInputf("unknown trend %q", in.Trend)
	}
	if !in.PredictedAction.Valid() {
		return invalidInputf("unknown predicted_action %q", in.PredictedAction)
	}
	if in.Confidence < 0 || in.Confidence > 1 {
		return invalidInputf("confidence %.2f outside [0, 1]", in.Confidence)
	}
	if in.Risk < 0 || in.Risk > 1 {
		return invalidInputf("risk %.2f outside [0, 1]", in.Risk)
	}
	if in.RiskLevel == "" {
		in.RiskLevel = risk.LevelFor(in.Risk)
	}
	if !in.RiskLevel.Valid() {
		return invalidInputf("unknown risk_level %q", in.RiskLevel)
	}
	return nil
}

// SaveAnalysis appends one conversation, rolls the owning profile
// forward to this conversation's score and risk, and raises at most
// one alert when the risk crosses the alert threshold. The write group
// commits or rolls back as a unit, so a failure leaves no dangling
// profile update or orphaned alert.
func (s *Service) SaveAnalysis(ctx context.Context, in SaveInput) (int64, *models.RiskAlert, error) {
	if err := in.normalize(); err != nil {
		return 0, nil, err
	}
	rawMessages, err := json.Marshal(in.Messages)
	if err != nil {
		return 0, nil, fmt.Errorf("encode messages: %w", err)
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = ensureProfile(ctx, tx, in.CustomerID, now); err != nil {
		return 0, nil, err
	}

	res, execErr := tx.ExecContext(ctx,
		`INSERT INTO conversations
		 (customer_id, context_type, sentiment_score, trend, risk_level,
		  messages_analyzed, predicted_action, confidence, messages, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.CustomerID, in.ContextType, in.SentimentScore, in.Trend, in.RiskLevel,
		len(in.Messages), in.PredictedAction, in.Confidence, string(rawMessages), now,
	)
	if execErr != nil {
		err = fmt.Errorf("insert conversation: %w", execErr)
		return 0, nil, err
	}
	conversationID, idErr := res.LastInsertId()
	if idErr != nil {
		err = fmt.Errorf("conversation id: %w", idErr)
		return 0, nil, err
	}

	if _, execErr = tx.ExecContext(ctx,
		`UPDATE customer_profiles SET lifetime_sentiment = ?, churn_risk = ?, updated_at = ? WHERE customer_id = ?`,
		in.SentimentScore, in.Risk, now, in.CustomerID,
	); execErr != nil {
		err = fmt.Errorf("update profile: %w", execErr)
		return 0, nil, err
	}

	var alert *models.RiskAlert
	if in.Risk >= s.predictor.AlertThreshold() {
		alert, err = createAlert(ctx, tx, in, now)
		if err != nil {
			return 0, nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit save analysis: %w", err)
		return 0, nil, err
	}
	s.cache.invalidate(ctx)
	return conversationID, alert, nil
}

// RecordInput is an analysis result computed elsewhere, submitted for
// persistence through the external save operation.
type RecordInput struct {
	CustomerID      string
	ContextType     models.ContextType
	Messages        []string
	SentimentScore  float64
	Trend           models.Trend
	RiskLevel       models.RiskLevel
	PredictedAction models.Action
	Confidence      float64
}

// RecordAnalysis persists a precomputed result. The numeric churn risk
// is derived from the supplied score and trend through the same policy
// the pipeline uses, keeping profile state and alerting consistent
// regardless of who computed the score.
func (s *Service) RecordAnalysis(ctx context.Context, in RecordInput) (int64, *models.RiskAlert, error) {
	pred := s.predictor.Predict(in.SentimentScore, in.Trend, nil, len(in.Messages), false)
	return s.SaveAnalysis(ctx, SaveInput{
		CustomerID:      in.CustomerID,
		ContextType:     in.ContextType,
		Messages:        in.Messages,
		SentimentScore:  in.SentimentScore,
		Trend:           in.Trend,
		RiskLevel:       in.RiskLevel,
		PredictedAction: in.PredictedAction,
		Confidence:      in.Confidence,
		Risk:            pred.Risk,
	})
}
