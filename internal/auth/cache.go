package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MichalMitros/catalog-bridge/internal/platform/models"
	"github.com/redis/go-redis/v9"
)

// DefaultTokenTTL is default time tokens are kept in redis.
const DefaultTokenTTL = 7 * 24 * time.Hour

type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisCache is TokenCache storing tokens in redis.
type RedisCache struct {
	client redisClient
	prefix string
	ttl    time.Duration
}

// NewRedisCache returns new RedisCache storing tokens under prefixed keys.
func NewRedisCache(client redisClient, prefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

// Load returns cached token of source or nil when there is none.
func (c *RedisCache) Load(ctx context.Context, source string) (*models.AuthToken, error) {
	value, err := c.client.Get(ctx, c.key(source)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't get token from redis: %w", err)
	}

	var token models.AuthToken
	if err := json.Unmarshal(value, &token); err != nil {
		return nil, fmt.Errorf("can't decode cached token: %w", err)
	}

	return &token, nil
}

// Store caches token of source.
func (c *RedisCache) Store(ctx context.Context, source string, token *models.AuthToken) error {
	value, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("can't encode token: %w", err)
	}

	if err := c.client.Set(ctx, c.key(source), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("can't set token in redis: %w", err)
	}

	return nil
}

func (c *RedisCache) key(source string) string {
	return c.prefix + source + ":token"
}

// MemoryCache is in-process TokenCache.
type MemoryCache struct {
	mu     sync.Mutex
	tokens map[string]models.AuthToken
}

// NewMemoryCache returns new MemoryCache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{tokens: map[string]models.AuthToken{}}
}

// Load returns cached token of source or nil when there is none.
func (c *MemoryCache) Load(_ context.Context, source string) (*models.AuthToken, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	token, ok := c.tokens[source]
	if !ok {
		return nil, nil
	}

	return &token, nil
}

// Store caches token of source.
func (c *MemoryCache) Store(_ context.Context, source string, token *models.AuthToken) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tokens[source] = *token

	return nil
}
