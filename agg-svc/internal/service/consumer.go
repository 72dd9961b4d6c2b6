package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gerobak/agg-svc/internal/domain"

	"github.com/sirupsen/logrus"
)

// Weights of each event type in the popularity ranking. A route request shows
// more intent than a tap on a marker.
var Weights = map[string]float64{
	domain.EventStoreSelected:   1,
	domain.EventRouteRequested:  3,
	domain.EventReviewSubmitted: 2,
}

var ErrUnknownEvent = errors.New("unknown event type")

const defaultReadBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  PopularityStore
	// Log is optional.
	Log EventLog
	// ReadBackoff is the pause after a failed read.
	ReadBackoff time.Duration
}

func NewConsumer(reader MessageReader, store PopularityStore, log EventLog) *Consumer {
	return &Consumer{
		Reader:      reader,
		Store:       store,
		Log:         log,
		ReadBackoff: defaultReadBackoff,
	}
}

// Start reads events until ctx is cancelled. Malformed messages and failed
// updates are logged and skipped.
func (c *Consumer) Start(ctx context.Context) {
	logrus.Info("popularity consumer started")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				logrus.Info("popularity consumer stopped")
				return
			}
			logrus.WithError(err).Warn("reading event")
			select {
			case <-ctx.Done():
				logrus.Info("popularity consumer stopped")
				return
			case <-time.After(c.ReadBackoff):
			}
			continue
		}

		var event domain.DashboardEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			logrus.WithError(err).WithField("offset", message.Offset).Warn("decoding event")
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil && !errors.Is(err, ErrUnknownEvent) {
			logrus.WithError(err).WithFields(logrus.Fields{
				"id":       event.ID,
				"store_id": event.StoreID,
			}).Error("processing event")
		}
	}
}

// ProcessEvent adds one event to the rankings and, when configured, to the
// event log.
func (c *Consumer) ProcessEvent(ctx context.Context, event domain.DashboardEvent) error {
	weight, ok := Weights[event.Type]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEvent, event.Type)
	}
	if event.StoreID <= 0 {
		return fmt.Errorf("event %s has no store", event.ID)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	counted, err := c.Store.Increment(ctx, event, weight)
	if err != nil {
		return fmt.Errorf("updating popularity: %w", err)
	}
	if !counted {
		logrus.WithField("id", event.ID).Debug("event already counted")
		return nil
	}

	if c.Log != nil {
		if err := c.Log.Record(ctx, event); err != nil {
			return fmt.Errorf("recording event: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"type":     event.Type,
		"store_id": event.StoreID,
	}).Debug("event counted")
	return nil
}
