package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/avast/retry-go/v4"
	"github.com/redis/go-redis/v9"
)

// Connect parses cfg.ConnectionURL, opens a client and pings it until it
// answers, backing off exponentially between attempts.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyConnectionURL
	}
	if !strings.HasPrefix(cfg.ConnectionURL, "redis://") && !strings.HasPrefix(cfg.ConnectionURL, "rediss://") {
		return nil, fmt.Errorf("%w: unsupported scheme", ErrFailedToParseRedisConnString)
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	client := redis.NewClient(opts)
	err = retry.Do(
		func() error { return client.Ping(ctx).Err() },
		retry.Context(ctx),
		retry.Attempts(uint(max(cfg.RetryAttempts, 1))),
		retry.Delay(cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		_ = client.Close()
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}

// Healthcheck returns a ping probe for the /health endpoint.
func Healthcheck(client redis.Cmdable) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
