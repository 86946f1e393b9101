package tracker

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"sentracker/internal/models"
)

// History bundles everything known about one customer.
type History struct {
	Profile       *models.CustomerProfile `json:"profile"`
	Conversations []models.Conversation   `json:"conversations"`
	Alerts        []models.RiskAlert      `json:"alerts"`
}

// GetHistory returns the customer's profile, its conversations oldest
// first (newest last), and every alert newest first. An unknown
// customer yields ErrProfileNotFound rather than an error state.
func (s *Service) GetHistory(ctx context.Context, customerID string) (*History, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, invalidInputf("customer_id is required")
	}
	profile, err := getProfile(ctx, s.db, customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, context_type, sentiment_score, trend, risk_level,
		        messages_analyzed, predicted_action, confidence, messages, created_at
		 FROM conversations WHERE customer_id = ? ORDER BY id ASC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	conversations := make([]models.Conversation, 0)
	for rows.Next() {
		var c models.Conversation
		var rawMessages string
		if err := rows.Scan(&c.ID, &c.CustomerID, &c.ContextType, &c.SentimentScore,
			&c.Trend, &c.RiskLevel, &c.MessagesAnalyzed, &c.PredictedAction,
			&c.Confidence, &rawMessages, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		if err := json.Unmarshal([]byte(rawMessages), &c.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
		conversations = append(conversations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversations: %w", err)
	}

	alerts, err := s.listAlerts(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return &History{Profile: profile, Conversations: conversations, Alerts: alerts}, nil
}

func (s *Service) listAlerts(ctx context.Context, customerID string) ([]models.RiskAlert, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, severity, message, resolved, note, created_at
		 FROM risk_alerts WHERE customer_id = ? ORDER BY id DESC`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]models.RiskAlert, 0)
	for rows.Next() {
		var a models.RiskAlert
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.Severity, &a.Message,
			&a.Resolved, &a.Note, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// ListHighRisk returns every profile whose churn risk is at or above
// threshold, most at-risk first.
func (s *Service) ListHighRisk(ctx context.Context, threshold float64) ([]models.CustomerProfile, error) {
	if threshold < 0 || threshold > 1 {
		return nil, invalidInputf("threshold %.2f outside [0, 1]", threshold)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, customer_id, lifetime_sentiment, churn_risk, created_at, updated_at
		 FROM customer_profiles WHERE churn_risk >= ?
		 ORDER BY churn_risk DESC, customer_id ASC`,
		threshold,
	)
	if err != nil {
		return nil, fmt.Errorf("list high risk: %w", err)
	}
	defer rows.Close()

	profiles := make([]models.CustomerProfile, 0)
	for rows.Next() {
		var p models.CustomerProfile
		if err := rows.Scan(&p.ID, &p.CustomerID, &p.LifetimeSentiment, &p.ChurnRisk,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
