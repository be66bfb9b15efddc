package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect establishes a Redis connection, retrying RetryAttempts times with
// RetryInterval between attempts and giving up once ConnectTimeout elapses.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	redisConnOpt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	for range cfg.RetryAttempts {
		redisClient := redis.NewClient(redisConnOpt)

		if err := redisClient.Ping(ctx).Err(); err == nil {
			return redisClient, nil
		}
		_ = redisClient.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrRedisNotReady, ctx.Err())
		default:
			time.Sleep(cfg.RetryInterval)
		}
	}

	return nil, ErrRedisNotReady
}
