package storage_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/storage"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.messages = append(w.messages, msgs...)
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := &recordingWriter{}
	publisher := storage.NewKafkaPublisher(writer)

	event := domain.DashboardEvent{
		ID:        "evt-1",
		Type:      domain.EventRouteRequested,
		StoreID:   42,
		Timestamp: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	require.NoError(t, publisher.Publish(context.Background(), event))

	require.Len(t, writer.messages, 1)
	assert.Equal(t, "42", string(writer.messages[0].Key))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(writer.messages[0].Value, &decoded))
	assert.Equal(t, "route_requested", decoded["type"])
	assert.Equal(t, float64(42), decoded["store_id"])
	assert.NotContains(t, decoded, "score")
}
