// Package notification fans broadcast alerts out to delivery channels
// beyond the SSE feed: the in-app notification center every dashboard
// shows in its top bar, and an optional outbound webhook for critical
// alerts.
package notification

import (
	"time"

	"github.com/surge-sentinel/platform/internal/alert"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Level maps alert severity onto the notification center's visual levels.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

// levelFor collapses the four alert severities into three display levels.
func levelFor(severity alert.Severity) Level {
	switch severity {
	case alert.SeverityCritical:
		return LevelCritical
	case alert.SeverityHigh, alert.SeverityMedium:
		return LevelWarning
	default:
		return LevelInfo
	}
}

// Notification is one entry in the in-app notification center.
type Notification struct {
	ID        types.ID  `json:"id"`
	AlertID   types.ID  `json:"alertId"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Level     Level     `json:"level"`
	Sender    string    `json:"sender"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

func fromAlert(a *alert.SystemAlert) *Notification {
	return &Notification{
		ID:        types.NewID(),
		AlertID:   a.ID,
		Title:     a.Title,
		Message:   a.Message,
		Level:     levelFor(a.Severity),
		Sender:    a.Sender,
		CreatedAt: a.CreatedAt,
	}
}
