package tracker

import (
	"context"
	"fmt"
)

// Statistics summarizes the tracked portfolio.
type Statistics struct {
	CustomerCount     int     `json:"customer_count"`
	ConversationCount int     `json:"conversation_count"`
	ActiveAlertCount  int     `json:"active_alert_count"`
	MeanSentiment     float64 `json:"mean_sentiment"`
}

// GetStatistics returns portfolio-level counts and the mean sentiment
// across all conversations. Results are served from the redis cache
// when present; the database remains authoritative.
func (s *Service) GetStatistics(ctx context.Context) (*Statistics, error) {
	if cached, ok := s.cache.load(ctx); ok {
		return cached, nil
	}

	var stats Statistics
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM customer_profiles`,
	).Scan(&stats.CustomerCount); err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversations`,
	).Scan(&stats.ConversationCount); err != nil {
		return nil, fmt.Errorf("count conversations: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM risk_alerts WHERE resolved = 0`,
	).Scan(&stats.ActiveAlertCount); err != nil {
		return nil, fmt.Errorf("count active alerts: %w", err)
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(AVG(sentiment_score), 0) FROM conversations`,
	).Scan(&stats.MeanSentiment); err != nil {
		return nil, fmt.Errorf("mean sentiment: %w", err)
	}

	s.cache.store(ctx, &stats)
	return &stats, nil
}
