package storage

import (
	"context"
	"errors"
	"strconv"
	"time"

	"gerobak/map-svc/internal/domain"

	"github.com/redis/go-redis/v9"
)

// PopularityAllTimeKey is the sorted set maintained by agg-svc.
const PopularityAllTimeKey = "popularity:alltime"

func PopularityDailyKey(day time.Time) string {
	return "popularity:daily:" + day.UTC().Format("2006-01-02")
}

type PopularityCache struct {
	Client *redis.Client
	Key    string
}

func NewPopularityCache(client *redis.Client) *PopularityCache {
	return &PopularityCache{Client: client, Key: PopularityAllTimeKey}
}

// Scores returns the popularity score per store id. Stores never seen are
// absent.
func (c *PopularityCache) Scores(ctx context.Context) (map[int]float64, error) {
	entries, err := c.Client.ZRangeWithScores(ctx, c.Key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}

	scores := make(map[int]float64, len(entries))
	for _, z := range entries {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		scores[id] = z.Score
	}
	return scores, nil
}

// Top returns the n most popular stores of all time, highest first.
func (c *PopularityCache) Top(ctx context.Context, n int64) ([]domain.Popularity, error) {
	return c.top(ctx, c.Key, n)
}

// TopDaily is Top restricted to the events of one day.
func (c *PopularityCache) TopDaily(ctx context.Context, day time.Time, n int64) ([]domain.Popularity, error) {
	return c.top(ctx, PopularityDailyKey(day), n)
}

func (c *PopularityCache) top(ctx context.Context, key string, n int64) ([]domain.Popularity, error) {
	entries, err := c.Client.ZRevRangeWithScores(ctx, key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	top := make([]domain.Popularity, 0, len(entries))
	for _, z := range entries {
		member, _ := z.Member.(string)
		id, err := strconv.Atoi(member)
		if err != nil {
			continue
		}
		top = append(top, domain.Popularity{StoreID: id, Score: z.Score})
	}
	return top, nil
}

// ReviewMarkers remembers recent review submissions for a short TTL.
type ReviewMarkers struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewReviewMarkers(client *redis.Client, ttl time.Duration) *ReviewMarkers {
	return &ReviewMarkers{Client: client, TTL: ttl}
}

func (c *ReviewMarkers) MarkerKey(storeID int, userID string) string {
	return "review:" + strconv.Itoa(storeID) + ":" + userID
}

func (c *ReviewMarkers) Exists(ctx context.Context, key string) (bool, error) {
	res, err := c.Client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return res > 0, nil
}

func (c *ReviewMarkers) SetMarker(ctx context.Context, key string) error {
	return c.Client.Set(ctx, key, "1", c.TTL).Err()
}
