package models

import "time"

// CustomerProfile is the per-customer aggregate. Its sentiment and
// churn risk always mirror the most recently persisted conversation.
type CustomerProfile struct {
	ID                int64     `json:"id"`
	CustomerID        string    `json:"customer_id"`
	LifetimeSentiment float64   `json:"lifetime_sentiment"`
	ChurnRisk         float64   `json:"churn_risk"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
