package queue

import (
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/stefanologica/firebear-importexport/config"
)

// NewFromConfig builds the configured driver. client is only used by "redis".
func NewFromConfig(cfg *config.Config, client *redis.Client) (Queue, error) {
	switch cfg.Queue.Driver {
	case "", "memory":
		return NewMemoryQueue(0), nil
	case "redis":
		if client == nil {
			return nil, fmt.Errorf("queue driver redis: REDIS_ADDR is not set")
		}
		return NewRedisQueue(client, cfg.Queue.Name), nil
	case "kafka":
		return NewKafkaQueue(cfg.Queue.Brokers, cfg.Queue.Name, cfg.Queue.GroupID), nil
	default:
		return nil, fmt.Errorf("unknown queue driver %q", cfg.Queue.Driver)
	}
}
