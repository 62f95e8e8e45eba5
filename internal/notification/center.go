package notification

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/alert"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
)

// maxEntries bounds the in-memory center. The oldest entries fall off
// first; the persistent record lives in the alerts table.
const maxEntries = 50

// Provider delivers a notification over an outbound channel.
type Provider interface {
	Send(ctx context.Context, n *Notification) error
	Name() string
}

// Center keeps the most recent alert notifications in memory and pushes
// critical ones to the configured provider. It implements alert.Sink.
type Center struct {
	provider Provider
	log      *zap.Logger

	mu      sync.RWMutex
	entries []*Notification
}

// NewCenter creates a notification center. provider may be nil, in which
// case only the in-app list is maintained.
func NewCenter(provider Provider, log *zap.Logger) *Center {
	return &Center{provider: provider, log: log}
}

// Notify records the alert in the center and, for critical alerts,
// forwards it to the outbound provider. Provider failures are logged and
// swallowed; the broadcast itself already succeeded.
func (c *Center) Notify(a *alert.SystemAlert) {
	n := fromAlert(a)

	c.mu.Lock()
	c.entries = append(c.entries, n)
	if len(c.entries) > maxEntries {
		c.entries = c.entries[len(c.entries)-maxEntries:]
	}
	c.mu.Unlock()

	metrics.RecordNotificationDelivered("in_app")

	if c.provider == nil || n.Level != LevelCritical {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := c.provider.Send(ctx, n); err != nil {
		c.log.Warn("outbound notification failed",
			zap.String("provider", c.provider.Name()),
			zap.String("alert_id", a.ID.String()),
			zap.Error(err))
		return
	}
	metrics.RecordNotificationDelivered(c.provider.Name())
}

// Recent returns the newest notifications first.
func (c *Center) Recent(limit int) []*Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if limit <= 0 || limit > len(c.entries) {
		limit = len(c.entries)
	}

	out := make([]*Notification, 0, limit)
	for i := len(c.entries) - 1; i >= len(c.entries)-limit; i-- {
		clone := *c.entries[i]
		out = append(out, &clone)
	}
	return out
}

// Unread counts notifications not yet marked read.
func (c *Center) Unread() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, n := range c.entries {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkAllRead marks every current notification as read and returns the
// number that changed state.
func (c *Center) MarkAllRead() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := 0
	for _, n := range c.entries {
		if !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed
}
