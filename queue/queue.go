// Package queue moves image import batches between the API and background workers.
package queue

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrClosed is returned by a queue that was closed.
var ErrClosed = errors.New("queue closed")

// Task is one queued image batch. Payload is a serialized media message.
type Task struct {
	JobID   string          `json:"job_id"`
	Payload json.RawMessage `json:"payload"`
}

// Delivery is a received task. Ack confirms it was handled; drivers without
// acknowledgements treat Ack as a no-op.
type Delivery struct {
	Task Task
	ack  func(ctx context.Context) error
}

func (d Delivery) Ack(ctx context.Context) error {
	if d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}

type Publisher interface {
	Publish(ctx context.Context, task Task) error
}

// Consumer blocks in Receive until a task arrives or ctx is done.
type Consumer interface {
	Receive(ctx context.Context) (Delivery, error)
}

// Queue is a transport that both publishes and consumes.
type Queue interface {
	Publisher
	Consumer
	Close() error
}
