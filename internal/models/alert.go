package models

import "time"

// Severity grades how urgent a risk alert is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// RiskAlert records that a customer's churn risk crossed the alert
// threshold. The pipeline only ever creates alerts; resolution is an
// external administrative action.
type RiskAlert struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customer_id"`
	Severity   Severity  `json:"severity"`
	Message    string    `json:"message"`
	Resolved   bool      `json:"resolved"`
	Note       string    `json:"note,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
