package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/pkg/metrics"
)

// JobManager defines the interface for submitting and checking extraction jobs.
type JobManager interface {
	Submit(ctx context.Context, url string, budget int) (string, error)
	Status(ctx context.Context, id string) (*entity.Extraction, error)
}

type jobManagerUseCase struct {
	limits      RequestLimits
	extractions repository.ExtractionRepository
	queue       repository.JobQueue
	logger      *zap.Logger
}

// NewJobManager creates a new JobManager use case.
func NewJobManager(
	limits RequestLimits,
	extractions repository.ExtractionRepository,
	queue repository.JobQueue,
	logger *zap.Logger,
) JobManager {
	return &jobManagerUseCase{
		limits:      limits,
		extractions: extractions,
		queue:       queue,
		logger:      logger,
	}
}

func (uc *jobManagerUseCase) Submit(ctx context.Context, rawURL string, budget int) (string, error) {
	startURL, budget, err := uc.limits.Validate(rawURL, budget)
	if err != nil {
		return "", err
	}

	e := NewPendingExtraction(startURL, budget)
	if err := uc.extractions.Save(ctx, e); err != nil {
		return "", fmt.Errorf("failed to save pending extraction: %w", err)
	}
	if err := uc.queue.Push(ctx, e.ID); err != nil {
		return "", fmt.Errorf("failed to enqueue extraction %s: %w", e.ID, err)
	}

	if size, err := uc.queue.Size(ctx); err == nil {
		metrics.JobsInQueue.Set(float64(size))
	} else {
		uc.logger.Warn("Failed to read job queue size", zap.Error(err))
	}

	uc.logger.Info("Extraction job queued", zap.String("extraction_id", e.ID), zap.String("url", startURL), zap.Int("page_budget", budget))
	return e.ID, nil
}

func (uc *jobManagerUseCase) Status(ctx context.Context, id string) (*entity.Extraction, error) {
	return uc.extractions.FindByID(ctx, id)
}

// JobWorker pulls queued extraction jobs and runs them one at a time.
type JobWorker struct {
	service     ExtractionService
	extractions repository.ExtractionRepository
	queue       repository.JobQueue
	logger      *zap.Logger
}

// NewJobWorker creates a worker. Each worker runs one crawl job, and so one
// browser session, at a time.
func NewJobWorker(
	service ExtractionService,
	extractions repository.ExtractionRepository,
	queue repository.JobQueue,
	logger *zap.Logger,
) *JobWorker {
	return &JobWorker{
		service:     service,
		extractions: extractions,
		queue:       queue,
		logger:      logger,
	}
}

// ProcessNext pops one job and runs it. It reports false when the queue was empty.
// Crawl failures are saved on the extraction record and are not returned.
// A job is acknowledged only once its record holds a terminal status; a job
// whose record could not be loaded stays in flight until Recover.
func (w *JobWorker) ProcessNext(ctx context.Context) (bool, error) {
	id, ok, err := w.queue.Pop(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to pop job from queue: %w", err)
	}
	if !ok {
		return false, nil
	}
	if size, err := w.queue.Size(ctx); err == nil {
		metrics.JobsInQueue.Set(float64(size))
	}

	e, err := w.extractions.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		w.logger.Warn("Dropping job with no extraction record", zap.String("extraction_id", id))
		w.ack(ctx, id)
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("failed to load extraction %s: %w", id, err)
	}

	w.logger.Info("Processing extraction job", zap.String("extraction_id", id), zap.String("url", e.URL))
	if err := w.service.Run(ctx, e); err != nil {
		w.logger.Warn("Extraction job finished with error", zap.String("extraction_id", id), zap.Error(err))
	}
	w.ack(ctx, id)
	return true, nil
}

func (w *JobWorker) ack(ctx context.Context, id string) {
	if err := w.queue.Ack(context.WithoutCancel(ctx), id); err != nil {
		w.logger.Warn("Failed to acknowledge job", zap.String("extraction_id", id), zap.Error(err))
	}
}

// Recover returns jobs left in flight by a previous worker process to the queue.
// Call it once at startup, before any worker of this process starts popping.
func (w *JobWorker) Recover(ctx context.Context) (int64, error) {
	n, err := w.queue.Requeue(ctx)
	if err != nil {
		return n, fmt.Errorf("failed to requeue in-flight jobs: %w", err)
	}
	if n > 0 {
		w.logger.Info("Requeued in-flight jobs", zap.Int64("count", n))
	}
	return n, nil
}

// Run processes jobs until ctx is done, sleeping for interval whenever the
// queue is empty or the queue cannot be read.
func (w *JobWorker) Run(ctx context.Context, interval time.Duration) {
	for {
		processed, err := w.ProcessNext(ctx)
		if err != nil {
			w.logger.Error("Error processing job", zap.Error(err))
		}
		if processed && err == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		select {
		case <-ctx.Done():
			w.logger.Info("Job worker stopping")
			return
		case <-time.After(interval):
		}
	}
}
