package session_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smcd-ma/portal/core/session"
)

func TestRedisCache_Key(t *testing.T) {
	c := session.NewRedisCache(nil, "")
	key := c.Key("tok-1")

	assert.Regexp(t, `^smcd:profile:[0-9a-f]{64}$`, key)
	assert.NotContains(t, key, "tok-1")
	assert.NotEqual(t, key, c.Key("tok-2"))
}

func TestRedisCache_RoundTrip(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	opts, err := redis.ParseURL(url)
	require.NoError(t, err)
	client := redis.NewClient(opts)
	t.Cleanup(func() { _ = client.Close() })

	cache := session.NewRedisCache(client, "smcd:test:profile:")
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err = cache.Load(r, "tok-1")
	assert.ErrorIs(t, err, session.ErrProfileNotFound)

	require.NoError(t, cache.Save(nil, r, "tok-1", admin, time.Minute))
	got, err := cache.Load(r, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, admin, got)

	require.NoError(t, client.Set(r.Context(), cache.Key("tok-bad"), "{", time.Minute).Err())
	_, err = cache.Load(r, "tok-bad")
	assert.ErrorIs(t, err, session.ErrMalformedProfile)

	require.NoError(t, cache.Delete(nil, r, "tok-1"))
	_, err = cache.Load(r, "tok-1")
	assert.ErrorIs(t, err, session.ErrProfileNotFound)
	_ = client.Del(r.Context(), cache.Key("tok-bad"))
}
