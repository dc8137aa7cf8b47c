// Package redis connects the portal to Redis, which backs the optional
// server-side profile cache.
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	check := redis.Healthcheck(client)
//
// Connect accepts redis:// and rediss:// URLs and retries the initial ping
// with exponential backoff within ConnectTimeout.
package redis
