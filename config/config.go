package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// Config holds the settings shared by map-svc and agg-svc.
type Config struct {
	Port          string
	BackendURL    string
	RoutingURL    string
	TileURL       string
	PublicURL     string
	PollInterval  time.Duration
	LocateTimeout time.Duration
	HTTPTimeout   time.Duration

	// DefaultLat/DefaultLon is the dashboard's fallback user position when
	// the device position cannot be resolved. Unset leaves it empty.
	DefaultLat *float64
	DefaultLon *float64

	// SessionID namespaces the persisted session in Redis. Empty means a
	// fresh id per process.
	SessionID string

	RedisAddr   string
	DatabaseURL string
	KafkaBroker string
	EventsTopic string
	LogLevel    string
}

// Load reads configuration from the environment, picking up a .env file
// when one is present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:          getEnv("PORT", "8090"),
		BackendURL:    getEnv("BACKEND_URL", "http://localhost:8000"),
		RoutingURL:    getEnv("ROUTING_URL", "https://router.project-osrm.org/route/v1/driving"),
		TileURL:       getEnv("TILE_URL", "https://{a-d}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}.png"),
		PublicURL:     getEnv("PUBLIC_URL", "http://localhost:4200"),
		PollInterval:  getMillisEnv("POLL_INTERVAL_MS", 3000),
		LocateTimeout: getMillisEnv("LOCATE_TIMEOUT_MS", 5000),
		HTTPTimeout:   getMillisEnv("HTTP_TIMEOUT_MS", 10000),
		DefaultLat:    getFloatEnv("DEFAULT_LAT"),
		DefaultLon:    getFloatEnv("DEFAULT_LON"),
		SessionID:     os.Getenv("SESSION_ID"),
		RedisAddr:     redisAddr(),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		EventsTopic:   getEnv("EVENTS_TOPIC", "dashboard-events"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

// ConfigureLogging applies LogLevel to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("unknown LOG_LEVEL %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}

func MustInitPostgres(connStr string) *sql.DB {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logrus.Fatal("Failed to connect to database: ", err)
	}

	if err = db.Ping(); err != nil {
		logrus.Fatal("Failed to ping database: ", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatal("Failed to connect to Redis: ", err)
	}

	return client
}

func NewKafkaReader(broker, topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(broker, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(broker),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}

func redisAddr() string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	return getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getMillisEnv(key string, defaultMillis int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if ms, err := strconv.Atoi(value); err == nil && ms > 0 {
			return time.Duration(ms) * time.Millisecond
		}
	}
	return time.Duration(defaultMillis) * time.Millisecond
}

func getFloatEnv(key string) *float64 {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}
