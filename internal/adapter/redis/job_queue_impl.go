package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const (
	jobQueueKey      = "sitecrawler:jobs"
	jobProcessingKey = "sitecrawler:jobs:processing"
)

// JobQueueImpl implements repository.JobQueue with a Redis list.
type JobQueueImpl struct {
	client redis.UniversalClient
}

// NewJobQueue creates a new instance of JobQueueImpl.
func NewJobQueue(client redis.UniversalClient) *JobQueueImpl {
	return &JobQueueImpl{client: client}
}

// Push adds an extraction ID to the left side of the list.
func (r *JobQueueImpl) Push(ctx context.Context, id string) error {
	return r.client.LPush(ctx, jobQueueKey, id).Err()
}

// Pop atomically moves the oldest ID from the right side of the list onto the
// processing list, so a worker crash before Ack leaves the job recoverable.
func (r *JobQueueImpl) Pop(ctx context.Context) (string, bool, error) {
	id, err := r.client.LMove(ctx, jobQueueKey, jobProcessingKey, "RIGHT", "LEFT").Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Ack drops id from the processing list.
func (r *JobQueueImpl) Ack(ctx context.Context, id string) error {
	return r.client.LRem(ctx, jobProcessingKey, 1, id).Err()
}

// Requeue moves every ID left on the processing list back to the consumer end
// of the queue. The oldest in-flight ID is popped first again.
func (r *JobQueueImpl) Requeue(ctx context.Context) (int64, error) {
	var moved int64
	for {
		err := r.client.LMove(ctx, jobProcessingKey, jobQueueKey, "LEFT", "RIGHT").Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, err
		}
		moved++
	}
}

// Size returns the current number of items in the queue.
func (r *JobQueueImpl) Size(ctx context.Context) (int64, error) {
	return r.client.LLen(ctx, jobQueueKey).Result()
}
