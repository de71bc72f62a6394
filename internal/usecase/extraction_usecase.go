package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/pkg/metrics"
	"github.com/varon-ai/sitecrawler/pkg/utils"
)

// ExtractionConfig bounds and tunes extraction requests.
type ExtractionConfig struct {
	DefaultBudget int
	MaxBudget     int
	CrawlWorkers  int
	JobTimeout    time.Duration
	CacheTTL      time.Duration
}

// RequestLimits validates start URLs and page budgets of incoming requests.
type RequestLimits struct {
	DefaultBudget int
	MaxBudget     int
}

// Validate normalizes rawURL and resolves budget. A zero budget selects the default.
func (l RequestLimits) Validate(rawURL string, budget int) (string, int, error) {
	u, err := utils.NormalizeRawURL(rawURL)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidStartURL, rawURL)
	}
	if budget == 0 {
		budget = l.DefaultBudget
	}
	if budget <= 0 || (l.MaxBudget > 0 && budget > l.MaxBudget) {
		return "", 0, fmt.Errorf("%w: got %d, max %d", ErrInvalidBudget, budget, l.MaxBudget)
	}
	return u, budget, nil
}

// ExtractionService turns a start URL into a persisted, cached corpus.
type ExtractionService interface {
	// Extract runs a crawl synchronously. A cached result is returned unless force is set.
	Extract(ctx context.Context, url string, budget int, force bool) (*entity.Extraction, error)
	// Run crawls for an existing extraction record and saves its terminal status.
	Run(ctx context.Context, e *entity.Extraction) error
	// RecentFailures lists the most recently failed pages across extractions.
	RecentFailures(ctx context.Context, limit int) ([]*entity.FailedPage, error)
	// Limits returns the request limits used by Extract.
	Limits() RequestLimits
}

const (
	defaultFailureLimit = 20
	maxFailureLimit     = 100

	// persistTimeout bounds the terminal writes that run after the caller's context is done.
	persistTimeout = 10 * time.Second
)

type extractionUseCase struct {
	crawler     Crawler
	extractions repository.ExtractionRepository
	failedPages repository.FailedPageRepository
	cache       repository.CorpusCache
	cfg         ExtractionConfig
	logger      *zap.Logger
}

// NewExtractionService creates a new ExtractionService use case.
func NewExtractionService(
	crawler Crawler,
	extractions repository.ExtractionRepository,
	failedPages repository.FailedPageRepository,
	cache repository.CorpusCache,
	cfg ExtractionConfig,
	logger *zap.Logger,
) ExtractionService {
	if cfg.DefaultBudget <= 0 {
		cfg.DefaultBudget = DefaultPageBudget
	}
	return &extractionUseCase{
		crawler:     crawler,
		extractions: extractions,
		failedPages: failedPages,
		cache:       cache,
		cfg:         cfg,
		logger:      logger,
	}
}

func (uc *extractionUseCase) Limits() RequestLimits {
	return RequestLimits{DefaultBudget: uc.cfg.DefaultBudget, MaxBudget: uc.cfg.MaxBudget}
}

func (uc *extractionUseCase) RecentFailures(ctx context.Context, limit int) ([]*entity.FailedPage, error) {
	if limit <= 0 {
		limit = defaultFailureLimit
	}
	limit = min(limit, maxFailureLimit)
	pages, err := uc.failedPages.FindRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list failed pages: %w", err)
	}
	return pages, nil
}

func (uc *extractionUseCase) Extract(ctx context.Context, rawURL string, budget int, force bool) (*entity.Extraction, error) {
	startURL, budget, err := uc.Limits().Validate(rawURL, budget)
	if err != nil {
		return nil, err
	}

	if force {
		if err := uc.cache.Invalidate(ctx, startURL, budget); err != nil {
			uc.logger.Warn("Failed to invalidate cached corpus for forced extraction", zap.String("url", startURL), zap.Error(err))
		}
	} else if cached := uc.lookup(ctx, startURL, budget); cached != nil {
		return cached, nil
	}

	e := NewPendingExtraction(startURL, budget)
	err = uc.Run(ctx, e)
	return e, err
}

func (uc *extractionUseCase) lookup(ctx context.Context, startURL string, budget int) *entity.Extraction {
	cached, ok, err := uc.cache.Get(ctx, startURL, budget)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		uc.logger.Warn("Corpus cache lookup failed", zap.String("url", startURL), zap.Error(err))
		return nil
	case !ok:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil
	default:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		uc.logger.Debug("Serving corpus from cache", zap.String("url", startURL), zap.String("id", cached.ID))
		return cached
	}
}

func (uc *extractionUseCase) Run(ctx context.Context, e *entity.Extraction) error {
	logger := uc.logger.With(zap.String("extraction_id", e.ID), zap.String("url", e.URL))

	e.Status = entity.ExtractionRunning
	uc.save(ctx, logger, e)

	jobCtx := ctx
	if uc.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, uc.cfg.JobTimeout)
		defer cancel()
	}

	report, crawlErr := uc.crawler.Crawl(jobCtx, e.URL, CrawlOptions{PageBudget: e.PageBudget, Workers: uc.cfg.CrawlWorkers})

	// The terminal status must land even when ctx was canceled mid-crawl.
	persistCtx, cancelPersist := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer cancelPersist()

	if report != nil {
		e.Apply(report)
	}
	if crawlErr != nil {
		e.Status = entity.ExtractionFailed
		e.FailureReason = crawlErr.Error()
		if e.CompletedAt == nil {
			now := time.Now()
			e.CompletedAt = &now
		}
		logger.Error("Extraction failed", zap.Error(crawlErr))
		uc.save(persistCtx, logger, e)
		return crawlErr
	}
	if report.Canceled {
		e.FailureReason = "crawl stopped before the frontier was exhausted"
	}

	uc.recordPages(persistCtx, logger, e.ID, report)
	uc.save(persistCtx, logger, e)

	// A canceled crawl holds a partial corpus; it is returned but never cached.
	if !report.Canceled {
		if err := uc.cache.Put(persistCtx, e, uc.cfg.CacheTTL); err != nil {
			logger.Warn("Failed to cache corpus", zap.Error(err))
		}
	}

	logger.Info("Extraction completed",
		zap.Int("pages_rendered", e.PagesRendered),
		zap.Int("pages_failed", e.PagesFailed),
		zap.Int("corpus_bytes", len(e.Corpus)),
	)
	return nil
}

// recordPages keeps failure history in step with the latest crawl. Storage
// errors are logged and never fail the extraction.
func (uc *extractionUseCase) recordPages(ctx context.Context, logger *zap.Logger, extractionID string, report *entity.CrawlReport) {
	for _, page := range report.Pages {
		if !page.Failed() {
			if err := uc.failedPages.Delete(ctx, page.URL); err != nil {
				logger.Warn("Failed to clear failure record after successful render", zap.String("page", page.URL), zap.Error(err))
			}
			continue
		}
		if page.Failure == entity.FailureCanceled {
			continue
		}
		failed := &entity.FailedPage{
			URL:           page.URL,
			ExtractionID:  extractionID,
			Kind:          page.Failure,
			Reason:        page.Reason,
			LastAttemptAt: time.Now(),
		}
		if err := uc.failedPages.SaveOrUpdate(ctx, failed); err != nil {
			logger.Warn("Failed to record failed page", zap.String("page", page.URL), zap.Error(err))
		}
	}
}

func (uc *extractionUseCase) save(ctx context.Context, logger *zap.Logger, e *entity.Extraction) {
	if err := uc.extractions.Save(ctx, e); err != nil {
		logger.Error("Failed to save extraction", zap.String("status", string(e.Status)), zap.Error(err))
	}
}

// NewPendingExtraction creates a pending extraction record with a fresh ID.
func NewPendingExtraction(startURL string, budget int) *entity.Extraction {
	return &entity.Extraction{
		ID:         uuid.NewString(),
		URL:        startURL,
		PageBudget: budget,
		Status:     entity.ExtractionPending,
		CreatedAt:  time.Now(),
	}
}

// IsInvalidRequest reports whether err was caused by bad caller input.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidStartURL) || errors.Is(err, ErrInvalidBudget)
}
