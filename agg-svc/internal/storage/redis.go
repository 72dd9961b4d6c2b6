package storage

import (
	"context"
	"strconv"
	"time"

	"gerobak/agg-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Keys shared with map-svc, which reads the rankings.
const (
	AllTimeKey = "popularity:alltime"
	seenPrefix = "popularity:seen:"
)

func DailyKey(day time.Time) string {
	return "popularity:daily:" + day.UTC().Format("2006-01-02")
}

type PopularityStore struct {
	Client *redis.Client
	// DailyTTL bounds how long a day's ranking is kept.
	DailyTTL time.Duration
	// SeenTTL is how long an event id is remembered to drop redeliveries.
	SeenTTL time.Duration
}

func NewPopularityStore(client *redis.Client) *PopularityStore {
	return &PopularityStore{
		Client:   client,
		DailyTTL: 7 * 24 * time.Hour,
		SeenTTL:  24 * time.Hour,
	}
}

// Increment adds weight to the store in the daily and all-time rankings. An
// event whose id was already seen is skipped and reported as false.
func (s *PopularityStore) Increment(ctx context.Context, event domain.DashboardEvent, weight float64) (bool, error) {
	if event.ID != "" {
		fresh, err := s.Client.SetNX(ctx, seenPrefix+event.ID, 1, s.SeenTTL).Result()
		if err != nil {
			return false, err
		}
		if !fresh {
			return false, nil
		}
	}

	member := strconv.Itoa(event.StoreID)
	dailyKey := DailyKey(event.Timestamp)

	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZIncrBy(ctx, dailyKey, weight, member)
		pipe.Expire(ctx, dailyKey, s.DailyTTL)
		pipe.ZIncrBy(ctx, AllTimeKey, weight, member)
		return nil
	})
	if err != nil {
		if event.ID != "" {
			// Forget the id so a redelivery is counted.
			s.Client.Del(context.WithoutCancel(ctx), seenPrefix+event.ID)
		}
		return false, err
	}
	return true, nil
}
