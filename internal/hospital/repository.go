package hospital

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/surge-sentinel/platform/internal/shared/errors"
	"github.com/surge-sentinel/platform/internal/shared/metrics"
	"github.com/surge-sentinel/platform/internal/shared/types"
)

// Repository provides database operations for hospital snapshots
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new hospital repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert writes a hospital snapshot, replacing any previous record for the
// same ID. Last writer wins on the whole record.
func (r *Repository) Upsert(ctx context.Context, stats *Stats) error {
	query := `
		INSERT INTO hospitals (id, name, op, ip, er, capacity, status, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			op = EXCLUDED.op,
			ip = EXCLUDED.ip,
			er = EXCLUDED.er,
			capacity = EXCLUDED.capacity,
			status = EXCLUDED.status,
			last_updated = EXCLUDED.last_updated`

	_, err := r.pool.Exec(ctx, query,
		stats.ID, stats.Name, stats.OP, stats.IP, stats.ER,
		stats.Capacity, stats.Status, stats.LastUpdated,
	)
	if err != nil {
		return errors.Wrap(err, "failed to upsert hospital")
	}

	metrics.RecordHospitalUpdate(string(stats.Status))
	return nil
}

// Get retrieves a hospital snapshot by ID
func (r *Repository) Get(ctx context.Context, id types.ID) (*Stats, error) {
	query := `
		SELECT id, name, op, ip, er, capacity, status, last_updated
		FROM hospitals
		WHERE id = $1`

	stats := &Stats{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&stats.ID, &stats.Name, &stats.OP, &stats.IP, &stats.ER,
		&stats.Capacity, &stats.Status, &stats.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("hospital", id.String())
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get hospital")
	}

	return stats, nil
}

// List retrieves every hospital snapshot, name ascending.
func (r *Repository) List(ctx context.Context) ([]*Stats, error) {
	query := `
		SELECT id, name, op, ip, er, capacity, status, last_updated
		FROM hospitals
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list hospitals")
	}
	defer rows.Close()

	var all []*Stats
	for rows.Next() {
		stats := &Stats{}
		if err := rows.Scan(
			&stats.ID, &stats.Name, &stats.OP, &stats.IP, &stats.ER,
			&stats.Capacity, &stats.Status, &stats.LastUpdated,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan hospital")
		}
		all = append(all, stats)
	}

	return all, rows.Err()
}

// Delete removes a hospital record
func (r *Repository) Delete(ctx context.Context, id types.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM hospitals WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete hospital")
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("hospital", id.String())
	}
	return nil
}
