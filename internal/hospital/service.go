package hospital

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/shared/database"
	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/events"
	"github.com/surge-sentinel/platform/internal/shared/sse"
)

// Service coordinates hospital snapshot writes and the live feed that
// pushes the regional view to connected dashboards.
type Service struct {
	repo *Repository
	db   *database.DB
	bus  *events.Bus
	hub  *sse.Hub
	log  *zap.Logger

	mu       sync.RWMutex
	snapshot []*Stats
}

// NewService creates the hospital service. repo, db and bus may be nil
// when not configured; writes then fail with Unavailable and the live
// feed serves an empty region.
func NewService(repo *Repository, db *database.DB, bus *events.Bus, log *zap.Logger) *Service {
	return &Service{
		repo: repo,
		db:   db,
		bus:  bus,
		hub:  sse.NewHub("hospitals"),
		log:  log,
	}
}

// Hub exposes the live-feed hub for the API layer.
func (s *Service) Hub() *sse.Hub {
	return s.hub
}

// Sync derives the hospital's status from its load and the advisory
// severity, then writes the snapshot. The record replaces whatever was
// there before.
func (s *Service) Sync(ctx context.Context, name string, op, ip, er, capacity int, severity string) (*Stats, error) {
	if s.repo == nil {
		return nil, errors.Unavailable("database", nil)
	}
	if name == "" {
		return nil, errors.BadRequest("hospital name is required")
	}
	if capacity <= 0 {
		return nil, errors.BadRequest("capacity must be positive")
	}
	if op < 0 || ip < 0 || er < 0 {
		return nil, errors.BadRequest("patient counts must be non-negative")
	}

	stats := &Stats{
		ID:          KeyFor(name),
		Name:        name,
		OP:          op,
		IP:          ip,
		ER:          er,
		Capacity:    capacity,
		Status:      DeriveStatus(op, ip, er, capacity, severity),
		LastUpdated: time.Now().UTC(),
	}

	if err := s.repo.Upsert(ctx, stats); err != nil {
		return nil, err
	}

	if s.bus != nil {
		event := events.NewEvent(events.TypeHospitalUpdated, "hospital", map[string]any{
			"name":   stats.Name,
			"status": stats.Status,
			"load":   stats.Load(),
		})
		if err := s.bus.Publish(ctx, event); err != nil {
			s.log.Warn("failed to publish hospital event", zap.Error(err))
		}
	}
	return stats, nil
}

// List returns all hospital snapshots.
func (s *Service) List(ctx context.Context) ([]*Stats, error) {
	if s.repo == nil {
		return nil, errors.Unavailable("database", nil)
	}
	return s.repo.List(ctx)
}

// Snapshot returns the last region view the watcher loaded. ok is false
// until the first successful load.
func (s *Service) Snapshot() ([]*Stats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.snapshot != nil
}

// Watch follows the database change channel and pushes the refreshed
// region view to connected clients. A failed refresh keeps the last known
// good snapshot on the wire; subscribers never see a partial region.
func (s *Service) Watch(ctx context.Context) {
	if s.db == nil || s.repo == nil {
		return
	}

	s.refresh(ctx)

	for {
		notifications, err := s.db.Listen(ctx, "hospital_changed")
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Warn("hospital listen failed, retrying", zap.Error(err))
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
	all, err := s.repo.List(ctx)
	if err != nil {
		s.log.Warn("hospital refresh failed, keeping last snapshot", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.snapshot = all
	s.mu.Unlock()

	s.hub.BroadcastJSON(all)
}
