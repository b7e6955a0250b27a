package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/segmentio/kafka-go"

	"github.com/stefanologica/firebear-importexport/core/log"
)

// KafkaQueue publishes to a topic and consumes it with a consumer group.
// Offsets are committed on Ack, so an unacknowledged task is redelivered.
type KafkaQueue struct {
	writer *kafka.Writer
	reader *kafka.Reader
}

// NewKafkaQueue takes brokers as a comma separated list.
func NewKafkaQueue(brokers, topic, groupID string) *KafkaQueue {
	addrs := strings.Split(brokers, ",")
	return &KafkaQueue{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(addrs...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  addrs,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1,
			MaxBytes: 10e6,
		}),
	}
}

func (q *KafkaQueue) Publish(ctx context.Context, task Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return err
	}
	if err := q.writer.WriteMessages(ctx, kafka.Message{Key: []byte(task.JobID), Value: data}); err != nil {
		return fmt.Errorf("kafka publish %s: %w", task.JobID, err)
	}
	return nil
}

// Receive skips and commits messages that are not tasks so they do not block the partition.
func (q *KafkaQueue) Receive(ctx context.Context) (Delivery, error) {
	for {
		m, err := q.reader.FetchMessage(ctx)
		if err != nil {
			return Delivery{}, err
		}
		var task Task
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Warnw("kafka: invalid task skipped", "offset", m.Offset, "error", err)
			if err := q.reader.CommitMessages(ctx, m); err != nil {
				return Delivery{}, fmt.Errorf("kafka commit: %w", err)
			}
			continue
		}
		return Delivery{
			Task: task,
			ack: func(ctx context.Context) error {
				return q.reader.CommitMessages(ctx, m)
			},
		}, nil
	}
}

func (q *KafkaQueue) Close() error {
	werr := q.writer.Close()
	if err := q.reader.Close(); err != nil {
		return err
	}
	return werr
}
