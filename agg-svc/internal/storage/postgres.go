package storage

import (
	"context"
	"database/sql"
	"fmt"

	"gerobak/agg-svc/internal/domain"
)

// EventCounts keeps per-day event totals for each store in Postgres.
type EventCounts struct {
	DB *sql.DB
}

func NewEventCounts(db *sql.DB) *EventCounts {
	return &EventCounts{DB: db}
}

func (s *EventCounts) EnsureSchema(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS store_event_counts (
			store_id   INTEGER     NOT NULL,
			day        DATE        NOT NULL,
			event_type TEXT        NOT NULL,
			count      INTEGER     NOT NULL DEFAULT 0,
			PRIMARY KEY (store_id, day, event_type)
		)
	`)
	return err
}

func (s *EventCounts) Record(ctx context.Context, event domain.DashboardEvent) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO store_event_counts (store_id, day, event_type, count)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (store_id, day, event_type)
		DO UPDATE SET count = store_event_counts.count + 1
	`, event.StoreID, event.Timestamp.UTC().Format("2006-01-02"), event.Type)
	if err != nil {
		return fmt.Errorf("counting %s for store %d: %w", event.Type, event.StoreID, err)
	}
	return nil
}
