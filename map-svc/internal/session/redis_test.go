package session_test

import (
	"context"
	"testing"
	"time"

	"gerobak/map-svc/internal/domain"
	"gerobak/map-svc/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "17",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func setupStorage(t *testing.T) (*miniredis.Miniredis, *session.RedisStorage) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, session.NewRedisStorage(client, "dash-1", 0)
}

func TestRedisStorage_SessionLifecycle(t *testing.T) {
	mr, storage := setupStorage(t)
	ctx := context.Background()

	loggedIn, err := storage.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)

	token, err := storage.Token(ctx)
	require.NoError(t, err)
	assert.Empty(t, token)

	_, err = storage.User(ctx)
	assert.ErrorIs(t, err, session.ErrNoSession)

	user := domain.User{UserID: "17", Email: "ayu@gerobak.id", FullName: "Ayu"}
	require.NoError(t, storage.SetSession(ctx, "opaque-token", user))

	assert.True(t, mr.Exists("dash-1:gbk_token"))
	assert.Zero(t, mr.TTL("dash-1:gbk_token"))

	token, err = storage.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "opaque-token", token)

	stored, err := storage.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, user, stored)

	require.NoError(t, storage.Clear(ctx))
	loggedIn, err = storage.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
	assert.False(t, mr.Exists("dash-1:gbk_user"))
}

func TestRedisStorage_TTLFollowsTokenExpiry(t *testing.T) {
	mr, storage := setupStorage(t)
	ctx := context.Background()

	token := signedToken(t, time.Now().Add(time.Hour))
	require.NoError(t, storage.SetSession(ctx, token, domain.User{UserID: "17"}))

	ttl := mr.TTL("dash-1:gbk_token")
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
	assert.Equal(t, ttl, mr.TTL("dash-1:gbk_user"))

	mr.FastForward(2 * time.Hour)
	loggedIn, err := storage.IsLoggedIn(ctx)
	require.NoError(t, err)
	assert.False(t, loggedIn)
}

func TestRedisStorage_RejectsExpiredToken(t *testing.T) {
	_, storage := setupStorage(t)
	token := signedToken(t, time.Now().Add(-time.Minute))

	err := storage.SetSession(context.Background(), token, domain.User{})
	assert.Error(t, err)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(30 * time.Minute).Truncate(time.Second)

	got, ok := session.TokenExpiry(signedToken(t, exp))
	require.True(t, ok)
	assert.True(t, exp.Equal(got))

	_, ok = session.TokenExpiry("not-a-jwt")
	assert.False(t, ok)
}
