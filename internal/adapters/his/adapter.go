// Package his imports patient census figures from a legacy SQL Server
// hospital information system, feeding the same sync path the dashboard
// intake form uses.
package his

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	"go.uber.org/zap"

	"github.com/surge-sentinel/platform/internal/hospital"
	"github.com/surge-sentinel/platform/internal/shared/config"
)

// Census is one snapshot of the HIS patient counts.
type Census struct {
	OP       int
	IP       int
	ER       int
	Capacity int
}

// Adapter polls the HIS census view and upserts the hospital snapshot.
type Adapter struct {
	cfg       config.HISConfig
	hospitals *hospital.Service
	log       *zap.Logger

	db      *sql.DB
	running bool
	cancel  context.CancelFunc
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// New creates a new HIS adapter.
func New(cfg config.HISConfig, hospitals *hospital.Service, log *zap.Logger) *Adapter {
	return &Adapter{cfg: cfg, hospitals: hospitals, log: log}
}

// Start connects to the HIS database and begins the poll loop.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.running {
		return fmt.Errorf("adapter already running")
	}

	connStr := fmt.Sprintf("server=%s;port=%d;database=%s;user id=%s;password=%s",
		a.cfg.Host, a.cfg.Port, a.cfg.Database, a.cfg.User, a.cfg.Password)

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return fmt.Errorf("failed to open HIS database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping HIS database: %w", err)
	}

	a.db = db
	a.running = true

	pollCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	a.wg.Add(1)
	go a.pollLoop(pollCtx)

	return nil
}

// Stop stops polling and closes the connection.
func (a *Adapter) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.running {
		return nil
	}

	a.cancel()
	a.wg.Wait()

	a.running = false
	return a.db.Close()
}

func (a *Adapter) pollLoop(ctx context.Context) {
	defer a.wg.Done()

	a.poll(ctx)

	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.poll(ctx)
		}
	}
}

func (a *Adapter) poll(ctx context.Context) {
	census, err := a.fetchCensus(ctx)
	if err != nil {
		a.log.Warn("HIS census poll failed", zap.Error(err))
		return
	}

	// Severity is left empty: status derivation is driven purely by the
	// load numbers until the next generated advisory refines it.
	if _, err := a.hospitals.Sync(ctx, a.cfg.HospitalName,
		census.OP, census.IP, census.ER, census.Capacity, ""); err != nil {
		a.log.Warn("HIS census sync failed", zap.Error(err))
		return
	}

	a.log.Debug("HIS census synced",
		zap.String("hospital", a.cfg.HospitalName),
		zap.Int("op", census.OP),
		zap.Int("ip", census.IP),
		zap.Int("er", census.ER))
}

func (a *Adapter) fetchCensus(ctx context.Context) (*Census, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM dbo.Visits WHERE VisitType = 'OP' AND DischargedAt IS NULL),
			(SELECT COUNT(*) FROM dbo.Visits WHERE VisitType = 'IP' AND DischargedAt IS NULL),
			(SELECT COUNT(*) FROM dbo.Visits WHERE VisitType = 'ER' AND DischargedAt IS NULL),
			(SELECT TotalBeds FROM dbo.FacilityInfo)`

	c := &Census{}
	err := a.db.QueryRowContext(ctx, query).Scan(&c.OP, &c.IP, &c.ER, &c.Capacity)
	if err != nil {
		return nil, fmt.Errorf("failed to query HIS census: %w", err)
	}

	return c, nil
}
