package alert

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// DefaultWindow is the number of alerts dashboards show by default.
const DefaultWindow = 10

// Repository provides database operations for the alert log
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new alert repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Append writes an alert to the log. An alert whose request ID was already
// written is dropped without error; the bool reports whether a row was
// actually inserted.
func (r *Repository) Append(ctx context.Context, a *SystemAlert) (bool, error) {
	query := `
		INSERT INTO alerts (id, request_id, title, message, severity, sender, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		a.ID, a.RequestID, a.Title, a.Message, a.Severity, a.Sender, a.CreatedAt,
	)
	if err != nil {
		return false, errors.Wrap(err, "failed to append alert")
	}

	if tag.RowsAffected() == 0 {
		metrics.RecordAlertDeduplicated()
		return false, nil
	}

	metrics.RecordAlertBroadcast(string(a.Severity))
	return true, nil
}

// ByRequestID returns the alert written for a request ID.
func (r *Repository) ByRequestID(ctx context.Context, requestID types.ID) (*SystemAlert, error) {
	query := `
		SELECT id, request_id, title, message, severity, sender, created_at
		FROM alerts
		WHERE request_id = $1`

	a := &SystemAlert{}
	err := r.pool.QueryRow(ctx, query, requestID).Scan(
		&a.ID, &a.RequestID, &a.Title, &a.Message,
		&a.Severity, &a.Sender, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, errors.NotFound("alert", requestID.String())
		}
		return nil, errors.Wrap(err, "failed to get alert")
	}
	return a, nil
}

// Recent returns the newest alerts, most recent first.
func (r *Repository) Recent(ctx context.Context, limit int) ([]*SystemAlert, error) {
	if limit <= 0 {
		limit = DefaultWindow
	}

	query := `
		SELECT id, request_id, title, message, severity, sender, created_at
		FROM alerts
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list alerts")
	}
	defer rows.Close()

	var alerts []*SystemAlert
	for rows.Next() {
		a := &SystemAlert{}
		if err := rows.Scan(
			&a.ID, &a.RequestID, &a.Title, &a.Message,
			&a.Severity, &a.Sender, &a.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan alert")
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}
