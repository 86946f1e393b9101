package tracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"sentracker/internal/models"
)

const defaultLifetimeSentiment = 50.0

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// UpsertProfile returns the profile for customerID, creating it with
// neutral defaults when absent. Existing rows are never overwritten
// here; only SaveAnalysis moves a profile's sentiment and risk.
func (s *Service) UpsertProfile(ctx context.Context, customerID string) (*models.CustomerProfile, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, invalidInputf("customer_id is required")
	}
	profile, err := getProfile(ctx, s.db, customerID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	now := time.Now().UTC()
	if err := insertProfile(ctx, s.db, customerID, now); err != nil {
		// Lost a create race: the row may exist now.
		if existing, lookupErr := getProfile(ctx, s.db, customerID); lookupErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return getProfile(ctx, s.db, customerID)
}

func getProfile(ctx context.Context, q querier, customerID string) (*models.CustomerProfile, error) {
	var p models.CustomerProfile
	err := q.QueryRowContext(ctx,
		`SELECT id, customer_id, lifetime_sentiment, churn_risk, created_at, updated_at
		 FROM customer_profiles WHERE customer_id = ?`,
		customerID,
	).Scan(&p.ID, &p.CustomerID, &p.LifetimeSentiment, &p.ChurnRisk, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func insertProfile(ctx context.Context, q querier, customerID string, now time.Time) error {
	_, err := q.ExecContext(ctx,
		`INSERT INTO customer_profiles (customer_id, lifetime_sentiment, churn_risk, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		customerID, defaultLifetimeSentiment, 0.0, now, now,
	)
	if err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

// ensureProfile creates the profile inside the caller's transaction if
// it does not exist yet.
func ensureProfile(ctx context.Context, q querier, customerID string, now time.Time) error {
	var exists bool
	if err := q.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM customer_profiles WHERE customer_id = ?)`,
		customerID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("verify profile: %w", err)
	}
	if exists {
		return nil
	}
	return insertProfile(ctx, q, customerID, now)
}
