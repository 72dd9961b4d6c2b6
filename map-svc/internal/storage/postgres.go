package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"gerobak/map-svc/internal/domain"
)

const DefaultTrailLimit = 100

// TrailRepository keeps the history of vendor positions seen while polling.
type TrailRepository struct {
	DB  *sql.DB
	now func() time.Time
}

func NewTrailRepository(db *sql.DB) *TrailRepository {
	return &TrailRepository{DB: db, now: time.Now}
}

func (r *TrailRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS vendor_positions (
			id SERIAL PRIMARY KEY,
			store_id INT NOT NULL,
			lat DOUBLE PRECISION NOT NULL,
			lon DOUBLE PRECISION NOT NULL,
			recorded_at TIMESTAMPTZ NOT NULL,
			UNIQUE (store_id, recorded_at)
		)
	`)
	return err
}

// RecordPositions stores every update that carries a position. Updates
// already recorded for the same instant are ignored.
func (r *TrailRepository) RecordPositions(ctx context.Context, updates []domain.LocationUpdate) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, u := range updates {
		if u.CurrentLocation == nil {
			continue
		}
		recordedAt := r.now().UTC()
		if u.LocationUpdatedAt != nil {
			recordedAt = u.LocationUpdatedAt.UTC()
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO vendor_positions (store_id, lat, lon, recorded_at)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (store_id, recorded_at) DO NOTHING
		`, u.StoreID, u.CurrentLocation.Lat, u.CurrentLocation.Lon, recordedAt); err != nil {
			return fmt.Errorf("recording position of store %d: %w", u.StoreID, err)
		}
	}

	return tx.Commit()
}

// Trail returns the latest recorded positions of a store, newest first.
func (r *TrailRepository) Trail(ctx context.Context, storeID int, limit int) ([]domain.TrailPoint, error) {
	if limit <= 0 {
		limit = DefaultTrailLimit
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT store_id, lat, lon, recorded_at
		FROM vendor_positions
		WHERE store_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := []domain.TrailPoint{}
	for rows.Next() {
		var p domain.TrailPoint
		if err := rows.Scan(&p.StoreID, &p.Location.Lat, &p.Location.Lon, &p.RecordedAt); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
