package queue

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisTranscodeLock is a SETNX lease keyed by rendition target path. It
// keeps two processes from transcoding the same target; the TTL bounds how
// long a crashed holder can block others.
type RedisTranscodeLock struct {
	rdb *redis.Client
}

func NewRedisTranscodeLock(rdb *redis.Client) *RedisTranscodeLock {
	return &RedisTranscodeLock{rdb: rdb}
}

func (l *RedisTranscodeLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, "transcode_lock:"+key, 1, ttl).Result()
}

func (l *RedisTranscodeLock) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, "transcode_lock:"+key).Err()
}
