package service

import (
	"context"

	"gerobak/agg-svc/internal/domain"
	"gerobak/agg-svc/internal/storage"

	"github.com/segmentio/kafka-go"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// PopularityStore adds weight to a store's ranking. It reports false when the
// event was already counted.
type PopularityStore interface {
	Increment(ctx context.Context, event domain.DashboardEvent, weight float64) (bool, error)
}

type EventLog interface {
	Record(ctx context.Context, event domain.DashboardEvent) error
}

var (
	_ MessageReader   = (*kafka.Reader)(nil)
	_ PopularityStore = (*storage.PopularityStore)(nil)
	_ EventLog        = (*storage.EventCounts)(nil)
)
