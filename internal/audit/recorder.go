// Package audit keeps a rolling activity trail of domain events for the
// admin dashboard. Entries come from the event bus, so the trail covers
// every node publishing to the shared store, not just this process.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/shared/events"
)

// maxEntries bounds the in-memory trail. EventStoreDB keeps the full
// history; this window only feeds the activity feed.
const maxEntries = 100

// Entry is one line in the admin activity trail.
type Entry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Actor     string    `json:"actor,omitempty"`
	Source    string    `json:"source"`
	Summary   string    `json:"summary"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder accumulates domain events into a bounded activity trail.
type Recorder struct {
	log *zap.Logger

	mu      sync.RWMutex
	entries []Entry
}

// NewRecorder creates an empty recorder.
func NewRecorder(log *zap.Logger) *Recorder {
	return &Recorder{log: log}
}

// Start subscribes the recorder to every domain event stream. The bus may
// be nil when EventStoreDB is not configured.
func (r *Recorder) Start(ctx context.Context, bus *events.Bus) error {
	if bus == nil {
		return nil
	}

	prefixes := []string{"advisory.", "hospital.", "alert."}
	for _, prefix := range prefixes {
		if err := bus.Subscribe(ctx, prefix, r.Record); err != nil {
			return fmt.Errorf("failed to subscribe to %s events: %w", prefix, err)
		}
	}
	return nil
}

// Record appends one event to the trail. It implements events.Handler.
func (r *Recorder) Record(_ context.Context, event events.Event) error {
	entry := Entry{
		ID:        event.ID,
		Type:      event.Type,
		Actor:     event.Actor,
		Source:    event.Source,
		Summary:   summarize(event),
		Timestamp: event.Timestamp,
	}

	r.mu.Lock()
	r.entries = append(r.entries, entry)
	if len(r.entries) > maxEntries {
		r.entries = r.entries[len(r.entries)-maxEntries:]
	}
	r.mu.Unlock()

	return nil
}

// Recent returns the newest entries first.
func (r *Recorder) Recent(limit int) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 || limit > len(r.entries) {
		limit = len(r.entries)
	}

	out := make([]Entry, 0, limit)
	for i := len(r.entries) - 1; i >= len(r.entries)-limit; i-- {
		out = append(out, r.entries[i])
	}
	return out
}

// summarize renders a human-readable line for the activity feed. Unknown
// event types fall back to the raw type name.
func summarize(event events.Event) string {
	data, _ := event.Data.(map[string]any)

	str := func(key string) string {
		if data == nil {
			return ""
		}
		s, _ := data[key].(string)
		return s
	}

	switch event.Type {
	case events.TypeAdvisoryGenerated:
		if name := str("hospital"); name != "" {
			return fmt.Sprintf("Advisory generated for %s (%s severity)", name, str("severity"))
		}
		return "Advisory generated"
	case events.TypeHospitalUpdated:
		if name := str("name"); name != "" {
			return fmt.Sprintf("Hospital %s updated, status %s", name, str("status"))
		}
		return "Hospital stats updated"
	case events.TypeAlertBroadcast:
		if title := str("title"); title != "" {
			return fmt.Sprintf("Alert broadcast: %s", title)
		}
		return "Alert broadcast"
	default:
		return event.Type
	}
}
