package alert

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/shared/database"
	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/events"
	"github.com/surge-sentinel/platform/internal/shared/sse"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Sink receives alerts that were newly appended, for delivery channels
// outside the SSE feed such as the in-app notification center.
type Sink interface {
	Notify(a *SystemAlert)
}

// store is the persistence surface Broadcast and the feed need.
type store interface {
	Append(ctx context.Context, a *SystemAlert) (bool, error)
	Recent(ctx context.Context, limit int) ([]*SystemAlert, error)
	ByRequestID(ctx context.Context, requestID types.ID) (*SystemAlert, error)
}

// Service coordinates alert broadcasts and the live alert feed.
type Service struct {
	repo store
	db   *database.DB
	bus  *events.Bus
	hub  *sse.Hub
	log  *zap.Logger
	sink Sink

	mu       sync.RWMutex
	snapshot []*SystemAlert
}

// NewService creates the alert service. repo and db may be nil when no
// database is configured.
func NewService(repo *Repository, db *database.DB, bus *events.Bus, log *zap.Logger) *Service {
	s := &Service{
		db:  db,
		bus: bus,
		hub: sse.NewHub("alerts"),
		log: log,
	}
	if repo != nil {
		s.repo = repo
	}
	return s
}

// Hub exposes the live-feed hub for the API layer.
func (s *Service) Hub() *sse.Hub {
	return s.hub
}

// SetSink attaches a delivery sink. Duplicate broadcasts never reach it.
func (s *Service) SetSink(sink Sink) {
	s.sink = sink
}

// Broadcast validates and appends an alert. A blank request ID gets one
// minted here; retries with the same ID append nothing and return the
// alert the first broadcast wrote.
func (s *Service) Broadcast(ctx context.Context, req BroadcastRequest, sender string) (*SystemAlert, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	requestID := types.ID(req.RequestID)
	if req.RequestID == "" {
		requestID = types.NewID()
	} else if _, err := types.ParseID(req.RequestID); err != nil {
		return nil, errors.BadRequest("requestId must be a UUID")
	}

	if s.repo == nil {
		return nil, errors.Unavailable("database", nil)
	}

	a := &SystemAlert{
		ID:        types.NewID(),
		RequestID: requestID,
		Title:     req.Title,
		Message:   req.Message,
		Severity:  Severity(req.Severity),
		Sender:    sender,
		CreatedAt: time.Now().UTC(),
	}

	inserted, err := s.repo.Append(ctx, a)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Return the row the first broadcast wrote, so retries see the
		// same alert ID and timestamp.
		existing, err := s.repo.ByRequestID(ctx, requestID)
		if err != nil {
			return nil, err
		}
		s.log.Info("duplicate alert dropped", zap.String("request_id", requestID.String()))
		return existing, nil
	}

	s.publish(ctx, a)
	if s.sink != nil {
		s.sink.Notify(a)
	}
	return a, nil
}

// Recent returns the newest alerts, most recent first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*SystemAlert, error) {
	if s.repo == nil {
		return nil, errors.Unavailable("database", nil)
	}
	return s.repo.Recent(ctx, limit)
}

// Snapshot returns the last alert window the watcher loaded.
func (s *Service) Snapshot() ([]*SystemAlert, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.snapshot != nil
}

// Watch follows the database change channel and pushes the refreshed
// alert window to connected clients. A failed refresh keeps the last
// known good window on the wire.
func (s *Service) Watch(ctx context.Context) {
	if s.db == nil || s.repo == nil {
		return
	}

	s.refresh(ctx)

	for {
		notifications, err := s.db.Listen(ctx, "alert_created")
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("alert listen failed, retrying", zap.Error(err))
			select {
			case <-time.After(5 * time.Second):
				continue
			case <-ctx.Done():
				return
			}
		}

		for range notifications {
			s.refresh(ctx)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Service) refresh(ctx context.Context) {
	alerts, err := s.repo.Recent(ctx, DefaultWindow)
	if err != nil {
		s.log.Warn("alert refresh failed, keeping last window", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.snapshot = alerts
	s.mu.Unlock()

	s.hub.BroadcastJSON(alerts)
}

func (s *Service) publish(ctx context.Context, a *SystemAlert) {
	if s.bus == nil {
		return
	}

	event := events.NewEvent(events.TypeAlertBroadcast, "alert", map[string]any{
		"id":       a.ID,
		"title":    a.Title,
		"severity": a.Severity,
	}).WithActor(a.Sender)

	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish alert event", zap.Error(err))
	}
}
