package models

import "time"

// Message is one raw inbound text unit submitted for analysis. The
// timestamp is optional; ordering falls back to list position.
type Message struct {
	Text      string     `json:"text"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
