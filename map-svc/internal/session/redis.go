// Package session persists the bearer token and user record between runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gerobak/map-svc/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	tokenKey = "gbk_token"
	userKey  = "gbk_user"
)

var ErrNoSession = errors.New("no active session")

// RedisStorage keeps the session under a namespace so several dashboards can
// share one Redis.
type RedisStorage struct {
	Client    *redis.Client
	Namespace string
	// DefaultTTL applies when the token carries no readable expiry. Zero keeps
	// the session until logout.
	DefaultTTL time.Duration
	now        func() time.Time
}

func NewRedisStorage(client *redis.Client, namespace string, defaultTTL time.Duration) *RedisStorage {
	return &RedisStorage{
		Client:     client,
		Namespace:  namespace,
		DefaultTTL: defaultTTL,
		now:        time.Now,
	}
}

func (s *RedisStorage) key(name string) string {
	if s.Namespace == "" {
		return name
	}
	return s.Namespace + ":" + name
}

// SetSession stores the token and user. When the token is a JWT with an exp
// claim the keys expire with it.
func (s *RedisStorage) SetSession(ctx context.Context, token string, user domain.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}

	ttl := s.DefaultTTL
	if exp, ok := TokenExpiry(token); ok {
		ttl = exp.Sub(s.now())
		if ttl <= 0 {
			return fmt.Errorf("token already expired at %s", exp.Format(time.RFC3339))
		}
	}

	_, err = s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(tokenKey), token, ttl)
		pipe.Set(ctx, s.key(userKey), encoded, ttl)
		return nil
	})
	return err
}

// Token returns the stored token, or "" when there is none.
func (s *RedisStorage) Token(ctx context.Context) (string, error) {
	token, err := s.Client.Get(ctx, s.key(tokenKey)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return token, err
}

func (s *RedisStorage) User(ctx context.Context) (domain.User, error) {
	raw, err := s.Client.Get(ctx, s.key(userKey)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.User{}, ErrNoSession
	}
	if err != nil {
		return domain.User{}, err
	}

	var user domain.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.User{}, fmt.Errorf("decoding stored user: %w", err)
	}
	return user, nil
}

func (s *RedisStorage) Clear(ctx context.Context) error {
	return s.Client.Del(ctx, s.key(tokenKey), s.key(userKey)).Err()
}

func (s *RedisStorage) IsLoggedIn(ctx context.Context) (bool, error) {
	n, err := s.Client.Exists(ctx, s.key(tokenKey)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature;
// the backend remains the authority on validity.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
