package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"gerobak/agg-svc/internal/service"
	"gerobak/agg-svc/internal/storage"
	"gerobak/config"

	"github.com/sirupsen/logrus"
)

const consumerGroup = "agg-svc-popularity"

func main() {
	cfg := config.Load()
	cfg.ConfigureLogging()

	if cfg.KafkaBroker == "" {
		logrus.Fatal("KAFKA_BROKER is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.RedisAddr)
	defer rdb.Close()

	var eventLog service.EventLog
	if cfg.DatabaseURL != "" {
		db := config.MustInitPostgres(cfg.DatabaseURL)
		defer db.Close()

		counts := storage.NewEventCounts(db)
		if err := counts.EnsureSchema(ctx); err != nil {
			logrus.Fatal("Failed to create event counts table: ", err)
		}
		eventLog = counts
	}

	reader := config.NewKafkaReader(cfg.KafkaBroker, cfg.EventsTopic, consumerGroup)
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewPopularityStore(rdb), eventLog)
	logrus.WithField("topic", cfg.EventsTopic).Info("aggregation service starting")
	consumer.Start(ctx)
}
