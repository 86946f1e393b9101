package models

import "time"

// Trend classifies the direction of a sentiment trajectory.

type Trend string

const (
	TrendRising    Trend = "RISING"
	TrendDeclining Trend = "DECLINING"
	TrendStable    Trend = "STABLE"
)

// Valid reports whether t is a known trend value.
func (t Trend) Valid() bool {
	switch t {
	case TrendRising, TrendDeclining, TrendStable:
		return true
	}
	return false
}

// Action is the recommended next step for a customer relationship.
type Action string

const (
	ActionChurn          Action = "CHURN"
	ActionEscalation     Action = "ESCALATION"
	ActionResolution     Action = "RESOLUTION"
	ActionMonitorClosely Action = "MONITOR_CLOSELY"
)

// Valid reports whether a is a known action value.
func (a Action) Valid() bool {
	switch a {
	case ActionChurn, ActionEscalation, ActionResolution, ActionMonitorClosely:
		return true
	}
	return false
}

// RiskLevel is a coarse classification of a churn-risk estimate.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// Valid reports whether r is a known risk level.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLow, RiskMedium, RiskHigh, RiskCritical:
		return true
	}
	return false
}

// ContextType tags what kind of relationship a conversation belongs to.
type ContextType string

const (
	ContextCustomer ContextType = "customer"
	ContextEmployee ContextType = "employee"
	ContextEmail    ContextType = "email"
)

// Valid reports whether c is a known context type.
func (c ContextType) Valid() bool {
	switch c {
	case ContextCustomer, ContextEmployee, ContextEmail:
		return true
	}
	return false
}

// Conversation is one persisted analysis event. Rows are append-only:
// history is never rewritten once committed.
type Conversation struct {
	ID               int64       `json:"id"`
	CustomerID       string      `json:"customer_id"`
	ContextType      ContextType `json:"context_type"`
	SentimentScore   float64     `json:"sentiment_score"`
	Trend            Trend       `json:"trend"`
	RiskLevel        RiskLevel   `json:"risk_level"`
	MessagesAnalyzed int         `json:"messages_analyzed"`
	PredictedAction  Action      `json:"predicted_action"`
	Confidence       float64     `json:"confidence"`
	Messages         []string    `json:"messages"`
	CreatedAt        time.Time   `json:"created_at"`
}
