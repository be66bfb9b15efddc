package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// recordScript atomically prunes expired timestamps, checks the count
// against the limit and records the attempt when below it. Scores are
// microsecond timestamps; members are unique so equal timestamps never
// collapse.
var recordScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local member = ARGV[4]

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
	return {0, count}
end

redis.call('ZADD', key, now, member)
redis.call('PEXPIRE', key, math.ceil(window / 1000))
return {1, count + 1}
`)

// RedisStore keeps attempt timestamps in a Redis sorted set per key, making
// the window consistent across processes.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a store over the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) RecordIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int64, error) {
	res, err := recordScript.Run(ctx, s.client, []string{redisKeyPrefix + key},
		now.UnixMicro(),
		window.Microseconds(),
		limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: record attempt: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("ratelimit: unexpected script reply of length %d", len(res))
	}

	return res[0] == 1, res[1], nil
}

func (s *RedisStore) CountInWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int64, error) {
	cutoff := strconv.FormatInt(now.Add(-window).UnixMicro(), 10)
	count, err := s.client.ZCount(ctx, redisKeyPrefix+key, "("+cutoff, "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("ratelimit: count window: %w", err)
	}
	return count, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("ratelimit: reset: %w", err)
	}
	return nil
}
