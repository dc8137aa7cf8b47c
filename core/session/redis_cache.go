package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache keeps profiles in Redis under prefix + sha256(token), expiring
// together with the token.
type RedisCache struct {
	client redis.Cmdable
	prefix string
}

// NewRedisCache creates a Redis-backed profile cache.
func NewRedisCache(client redis.Cmdable, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "smcd:profile:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Key returns the Redis key holding the profile for token.
func (c *RedisCache) Key(token string) string {
	return c.prefix + tokenDigest(token)
}

func (c *RedisCache) Load(r *http.Request, token string) (Profile, error) {
	data, err := c.client.Get(r.Context(), c.Key(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Profile{}, ErrProfileNotFound
		}
		return Profile{}, err
	}

	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return Profile{}, errors.Join(ErrMalformedProfile, err)
	}
	return p, nil
}

func (c *RedisCache) Save(_ http.ResponseWriter, r *http.Request, token string, p Profile, ttl time.Duration) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.client.Set(context.WithoutCancel(r.Context()), c.Key(token), data, ttl).Err()
}

func (c *RedisCache) Delete(_ http.ResponseWriter, r *http.Request, token string) error {
	if token == "" {
		return nil
	}
	return c.client.Del(context.WithoutCancel(r.Context()), c.Key(token)).Err()
}
