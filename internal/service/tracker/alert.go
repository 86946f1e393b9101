package tracker

import (
	"context"
	"fmt"
	"time"

	"sentracker/internal/models"
	"sentracker/internal/risk"
)

// createAlert runs inside SaveAnalysis's transaction so a conversation
// write can never produce more or fewer than one alert row.
func createAlert(ctx context.Context, q querier, in SaveInput, now time.Time) (*models.RiskAlert, error) {
	severity := risk.SeverityFor(in.Risk)
	message := in.AlertMessage
	if message == "" {
		message = fmt.Sprintf("churn risk %.2f with %s trend, recommended action %s",
			in.Risk, in.Trend, in.PredictedAction)
	}
	res, err := q.ExecContext(ctx,
		`INSERT INTO risk_alerts (customer_id, severity, message, resolved, note, created_at)
		 VALUES (?, ?, ?, 0, '', ?)`,
		in.CustomerID, severity, message, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert alert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("alert id: %w", err)
	}
	return &models.RiskAlert{
		ID:         id,
		CustomerID: in.CustomerID,
		Severity:   severity,
		Message:    message,
		CreatedAt:  now,
	}, nil
}

// ResolveAlert marks an alert resolved with an optional note. This is
// an external administrative action; the pipeline itself never
// resolves alerts.
func (s *Service) ResolveAlert(ctx context.Context, alertID int64, note string) error {
	if alertID <= 0 {
		return invalidInputf("invalid alert id")
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE risk_alerts SET resolved = 1, note = ? WHERE id = ?`,
		note, alertID,
	)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("alert rows affected: %w", err)
	}
	if affected == 0 {
		return ErrAlertNotFound
	}
	s.cache.invalidate(ctx)
	return nil
}
