package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "BACKEND_URL", "POLL_INTERVAL_MS", "LOCATE_TIMEOUT_MS", "DEFAULT_LAT", "DEFAULT_LON",
		"REDIS_ADDR", "REDIS_HOST", "REDIS_PORT", "EVENTS_TOPIC", "SESSION_ID",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 3*time.Second, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.LocateTimeout)
	assert.Nil(t, cfg.DefaultLat)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, "dashboard-events", cfg.EventsTopic)
	assert.Empty(t, cfg.SessionID)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("POLL_INTERVAL_MS", "1500")
	t.Setenv("LOCATE_TIMEOUT_MS", "not-a-number")
	t.Setenv("DEFAULT_LAT", "-6.2")
	t.Setenv("DEFAULT_LON", "106.816")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg := Load()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 1500*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, 5*time.Second, cfg.LocateTimeout)
	require.NotNil(t, cfg.DefaultLat)
	require.NotNil(t, cfg.DefaultLon)
	assert.Equal(t, -6.2, *cfg.DefaultLat)
	assert.Equal(t, 106.816, *cfg.DefaultLon)
	assert.Equal(t, "cache:6380", cfg.RedisAddr)

	t.Setenv("REDIS_ADDR", "redis:7000")
	assert.Equal(t, "redis:7000", Load().RedisAddr)
}

func TestConfigureLogging(t *testing.T) {
	defer logrus.SetLevel(logrus.GetLevel())

	(&Config{LogLevel: "debug"}).ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logrus.GetLevel())

	(&Config{LogLevel: "loud"}).ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logrus.GetLevel())
}

func TestNewKafkaWriter(t *testing.T) {
	writer := NewKafkaWriter("broker:9092", "dashboard-events")
	assert.Equal(t, "dashboard-events", writer.Topic)
	assert.Equal(t, "broker:9092", writer.Addr.String())
}
