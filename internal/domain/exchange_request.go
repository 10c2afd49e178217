package domain

import "time"

type ExchangeStatus string

// Transitions are strictly one-way: pending -> accepted or pending -> rejected.
// A resolved request is never reopened.
const (
	ExchangeStatusPending  ExchangeStatus = "pending"
	ExchangeStatusAccepted ExchangeStatus = "accepted"
	ExchangeStatusRejected ExchangeStatus = "rejected"
)

type ExchangeRequest struct {
	ID             int64          `json:"id"`
	RequesterEmail string         `json:"requesterEmail"`
	TargetEmail    string         `json:"targetEmail"`
	Date           string         `json:"date"` // "2006-01-02"
	Shift          string         `json:"shift"`
	Status         ExchangeStatus `json:"status"`
	CreatedAt      time.Time      `json:"createdAt"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
}
