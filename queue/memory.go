package queue

import (
	"context"
	"sync"
)

// MemoryQueue is an in-process queue for single binary deployments and tests.
type MemoryQueue struct {
	ch     chan Task
	once   sync.Once
	closed chan struct{}
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 64
	}
	return &MemoryQueue{ch: make(chan Task, size), closed: make(chan struct{})}
}

func (q *MemoryQueue) Publish(ctx context.Context, task Task) error {
	select {
	case <-q.closed:
		return ErrClosed
	default:
	}
	select {
	case q.ch <- task:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQueue) Receive(ctx context.Context) (Delivery, error) {
	select {
	case task := <-q.ch:
		return Delivery{Task: task}, nil
	case <-q.closed:
		return Delivery{}, ErrClosed
	case <-ctx.Done():
		return Delivery{}, ctx.Err()
	}
}

// Len is the number of tasks waiting.
func (q *MemoryQueue) Len() int {
	return len(q.ch)
}

func (q *MemoryQueue) Close() error {
	q.once.Do(func() { close(q.closed) })
	return nil
}
