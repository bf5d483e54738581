package auth

import (
	"context"
	"testing"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps values in map and records used expirations.
type fakeRedis struct {
	values      map[string]string
	expirations map[string]time.Duration
	err         error
}

func (r *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if r.err != nil {
		return redis.NewStringResult("", r.err)
	}
	value, ok := r.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (r *fakeRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if r.err != nil {
		return redis.NewStatusResult("", r.err)
	}
	r.values[key] = string(value.([]byte))
	r.expirations[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestUnitRedisCache(t *testing.T) {
	client := &fakeRedis{values: map[string]string{}, expirations: map[string]time.Duration{}}
	cache := NewRedisCache(client, "catalog-bridge:", DefaultTokenTTL)
	token := &models.AuthToken{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresAt:    time.Date(2024, time.May, 1, 12, 0, 0, 0, time.UTC),
	}

	missing, err := cache.Load(context.TODO(), "malfini")
	require.NoError(t, err, "missing token shouldn't be an error")
	assert.Nil(t, missing, "should return nil for missing token")

	require.NoError(t, cache.Store(context.TODO(), "malfini", token), "shouldn't fail storing token")
	assert.Equal(t, DefaultTokenTTL, client.expirations["catalog-bridge:malfini:token"], "should store token with ttl")

	loaded, err := cache.Load(context.TODO(), "malfini")
	require.NoError(t, err, "shouldn't fail loading token")
	assert.Equal(t, token, loaded, "should load stored token")
}

func TestUnitRedisCacheErrors(t *testing.T) {
	client := &fakeRedis{err: assert.AnError}
	cache := NewRedisCache(client, "", DefaultTokenTTL)

	_, err := cache.Load(context.TODO(), "malfini")
	require.ErrorIs(t, err, assert.AnError, "should return redis error")

	err = cache.Store(context.TODO(), "malfini", &models.AuthToken{})
	require.ErrorIs(t, err, assert.AnError, "should return redis error")

	client = &fakeRedis{values: map[string]string{"malfini:token": "{"}}
	cache = NewRedisCache(client, "", DefaultTokenTTL)
	_, err = cache.Load(context.TODO(), "malfini")
	require.ErrorContains(t, err, "can't decode cached token", "should return decoding error")
}
