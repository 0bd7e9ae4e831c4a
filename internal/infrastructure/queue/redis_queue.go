package queue

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisQueue is a list-backed job queue shared by the server (producer) and
// the worker binary (consumer).
type RedisQueue struct {
	rdb *redis.Client
}

func NewRedisQueue(rdb *redis.Client) *RedisQueue {
	return &RedisQueue{rdb: rdb}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	serialized, err := SerializeJob(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, TranscodeQueueKey, serialized).Err()
}

// Dequeue blocks up to timeout for the next job; returns nil when the
// queue stayed empty.
func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (*Job, error) {
	val, err := q.rdb.BRPop(ctx, timeout, TranscodeQueueKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return DeserializeJob(val[1])
}
