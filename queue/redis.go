package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPollWait = time.Second

// RedisQueue is a list based queue: RPUSH to publish, BLPOP to receive.
// Tasks are removed on receive, so Ack is a no-op.
type RedisQueue struct {
	client *redis.Client
	key    string
}

func NewRedisQueue(client *redis.Client, name string) *RedisQueue {
	return &RedisQueue{client: client, key: "queue:" + name}
}

func (q *RedisQueue) Publish(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := q.client.RPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("redis publish %s: %w", task.JobID, err)
	}
	return nil
}

// Receive polls with a short BLPOP timeout so ctx cancellation is noticed.
func (q *RedisQueue) Receive(ctx context.Context) (Delivery, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Delivery{}, err
		}
		res, err := q.client.BLPop(ctx, redisPollWait, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return Delivery{}, ctx.Err()
			}
			return Delivery{}, fmt.Errorf("redis receive: %w", err)
		}
		var task Task
		if err := json.Unmarshal([]byte(res[1]), &task); err != nil {
			return Delivery{}, fmt.Errorf("redis receive: decode task: %w", err)
		}
		return Delivery{Task: task}, nil
	}
}

// Len is the number of tasks waiting.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.key).Result()
}

// Close leaves the shared client open.
func (q *RedisQueue) Close() error {
	return nil
}
