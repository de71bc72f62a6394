package repository

import "context"

// JobQueue is a FIFO queue of extraction IDs waiting for a worker.
type JobQueue interface {
	// Push adds an ID to the end of the queue.
	Push(ctx context.Context, id string) error
	// Pop moves the ID at the front of the queue onto the in-flight list and
	// returns it. It returns ("", false, nil) when the queue is empty.
	Pop(ctx context.Context) (string, bool, error)
	// Ack removes a finished ID from the in-flight list.
	Ack(ctx context.Context, id string) error
	// Requeue moves every in-flight ID back to the front of the queue and
	// reports how many were moved.
	Requeue(ctx context.Context) (int64, error)
	// Size returns the current number of items in the queue.
	Size(ctx context.Context) (int64, error)
}
