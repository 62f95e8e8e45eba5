// Package alert broadcasts system-wide alerts and serves the recent-alert
// window to every connected dashboard.
package alert

import (
	"time"

	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Severity is the alert severity level. Alerts add Critical on top of the
// advisory levels.
type Severity string

const (
	SeverityLow      Severity = "Low"
	SeverityMedium   Severity = "Medium"
	SeverityHigh     Severity = "High"
	SeverityCritical Severity = "Critical"
)

// Valid reports whether the severity is one of the four alert levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// SystemAlert is one broadcast alert. The append-only log never mutates a
// written record.
type SystemAlert struct {
	ID        types.ID  `json:"id"`
	RequestID types.ID  `json:"requestId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	Sender    string    `json:"sender"`
	CreatedAt time.Time `json:"createdAt"`
}

// BroadcastRequest is a client's alert submission. RequestID is the
// client-minted idempotency key; a retry with the same key appends
// nothing.
type BroadcastRequest struct {
	RequestID string `json:"requestId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Severity  string `json:"severity"`
}

// Validate rejects blank alerts before they reach the log.
func (r BroadcastRequest) Validate() error {
	if r.Title == "" {
		return errors.BadRequest("alert title is required")
	}
	if r.Message == "" {
		return errors.BadRequest("alert message is required")
	}
	if !Severity(r.Severity).Valid() {
		return errors.BadRequest("severity must be Low, Medium, High or Critical")
	}
	return nil
}
