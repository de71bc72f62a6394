package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
	"github.com/varon-ai/sitecrawler/pkg/metrics"
	"github.com/varon-ai/sitecrawler/pkg/utils"
)

const (
	// DefaultPageBudget is the number of pages a crawl renders when no budget is given.
	DefaultPageBudget = 5
)

var (
	ErrInvalidStartURL = errors.New("start URL must be an absolute http or https URL")
	ErrInvalidBudget   = errors.New("page budget must be positive")
)

// CrawlOptions tunes one crawl job.
type CrawlOptions struct {
	PageBudget int // default DefaultPageBudget
	Workers    int // pages rendered concurrently on one session, default 1
}

func (o CrawlOptions) withDefaults() CrawlOptions {
	if o.PageBudget == 0 {
		o.PageBudget = DefaultPageBudget
	}
	if o.Workers <= 0 {
		o.Workers = 1
	}
	return o
}

// Crawler runs bounded crawl jobs.
type Crawler interface {
	Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*entity.CrawlReport, error)
}

// Coordinator drives a bounded breadth-first crawl over one browser session
// per job and folds the pages into a corpus.
type Coordinator struct {
	sessions repository.SessionManager
	parser   repository.PageParser
	logger   *zap.Logger
}

// NewCoordinator creates a crawl coordinator.
func NewCoordinator(sessions repository.SessionManager, parser repository.PageParser, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		sessions: sessions,
		parser:   parser,
		logger:   logger,
	}
}

// Crawl renders startURL and same-domain pages reachable from it, breadth
// first, until the queue is empty or the page budget is spent. Per-page
// failures are recorded on the report and never fail the job; only a browser
// launch failure returns an error. If ctx is cancelled the job stops
// dequeuing and returns what it has, with Canceled set.
func (c *Coordinator) Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*entity.CrawlReport, error) {
	opts = opts.withDefaults()
	if opts.PageBudget < 0 {
		return nil, ErrInvalidBudget
	}
	start, err := utils.NormalizeRawURL(startURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStartURL, startURL)
	}

	report := &entity.CrawlReport{
		StartURL:   start,
		PageBudget: opts.PageBudget,
		State:      entity.CrawlIdle,
		StartedAt:  time.Now(),
	}
	logger := c.logger.With(zap.String("start_url", start), zap.Int("page_budget", opts.PageBudget))
	defer func() {
		metrics.CrawlsTotal.WithLabelValues(string(report.State)).Inc()
		metrics.CrawlDuration.WithLabelValues(hostOf(start)).Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())
	}()

	report.State, _ = report.State.Transition(entity.CrawlRunning)

	session, err := c.sessions.Acquire(ctx)
	if err != nil {
		report.State, _ = report.State.Transition(entity.CrawlFailed)
		report.FinishedAt = time.Now()
		logger.Error("could not acquire browser session", zap.Error(err))
		if !errors.Is(err, repository.ErrBrowserLaunch) {
			err = fmt.Errorf("%w: %w", repository.ErrBrowserLaunch, err)
		}
		return report, err
	}
	defer func() {
		if err := c.sessions.Release(session); err != nil {
			logger.Warn("failed to release browser session", zap.Error(err))
		}
	}()

	job := newFrontier(start, opts.PageBudget)
	for !job.done() {
		if ctx.Err() != nil {
			report.Canceled = true
			logger.Info("crawl canceled, stopping before next dequeue", zap.Error(ctx.Err()))
			break
		}

		batch := job.next(opts.Workers)
		for _, page := range c.processBatch(ctx, session, batch) {
			report.Pages = append(report.Pages, page)
			metrics.PagesTotal.WithLabelValues(page.Outcome()).Inc()
			if page.Failed() {
				logger.Warn("page contributed no content",
					zap.String("url", page.URL),
					zap.String("failure", string(page.Failure)),
					zap.String("reason", page.Reason),
				)
				continue
			}
			report.Corpus.Append(page.URL, page.Text)
			for _, link := range page.Links {
				job.enqueue(link)
			}
		}
	}

	report.State, _ = report.State.Transition(entity.CrawlCompleted)
	report.FinishedAt = time.Now()
	metrics.CorpusBytes.Observe(float64(len(report.Corpus.String())))
	logger.Info("crawl finished",
		zap.Int("pages_rendered", report.Rendered()),
		zap.Int("pages_failed", len(report.FailedPages())),
		zap.Int("sections", len(report.Corpus.Sections)),
		zap.Int("links_dropped", job.dropped),
		zap.Bool("canceled", report.Canceled),
	)
	return report, nil
}

// processBatch renders and parses each URL on its own tab. Results keep the
// order of batch.
func (c *Coordinator) processBatch(ctx context.Context, session repository.BrowserSession, batch []string) []entity.PageResult {
	results := make([]entity.PageResult, len(batch))
	if len(batch) == 1 {
		results[0] = c.processPage(ctx, session, batch[0])
		return results
	}

	var g errgroup.Group
	for i, pageURL := range batch {
		g.Go(func() error {
			results[i] = c.processPage(ctx, session, pageURL)
			return nil
		})
	}
	_ = g.Wait() // processPage never fails the group
	return results
}

func (c *Coordinator) processPage(ctx context.Context, session repository.BrowserSession, pageURL string) entity.PageResult {
	startTime := time.Now()
	result := entity.PageResult{URL: pageURL}
	defer func() {
		result.Duration = time.Since(startTime)
		metrics.PageRenderDuration.WithLabelValues(hostOf(pageURL)).Observe(result.Duration.Seconds())
	}()

	html, err := session.RenderPage(ctx, pageURL)
	if err != nil {
		result.Failure = classifyRenderError(ctx, err)
		result.Reason = err.Error()
		return result
	}

	parsed, err := c.parser.Parse(pageURL, html)
	if err != nil {
		result.Failure = entity.FailureParse
		result.Reason = err.Error()
		return result
	}

	result.Title = parsed.Title
	result.Text = parsed.Text
	result.Links = parsed.Links
	return result
}

func classifyRenderError(ctx context.Context, err error) entity.FailureKind {
	switch {
	case ctx.Err() != nil || errors.Is(err, context.Canceled):
		return entity.FailureCanceled
	case errors.Is(err, repository.ErrNavigationTimeout), errors.Is(err, context.DeadlineExceeded):
		return entity.FailureTimeout
	case errors.Is(err, repository.ErrParse):
		return entity.FailureParse
	default:
		return entity.FailureRender
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
