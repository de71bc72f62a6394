package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
)

type memExtractions struct {
	mu      sync.Mutex
	records map[string]entity.Extraction
	history []entity.ExtractionStatus
	saveErr error
}

func newMemExtractions() *memExtractions {
	return &memExtractions{records: make(map[string]entity.Extraction)}
}

func (m *memExtractions) Save(ctx context.Context, e *entity.Extraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.saveErr != nil {
		return m.saveErr
	}
	m.records[e.ID] = *e
	m.history = append(m.history, e.Status)
	return nil
}

func (m *memExtractions) FindByID(_ context.Context, id string) (*entity.Extraction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.records[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

type memFailedPages struct {
	mu      sync.Mutex
	pages   map[string]*entity.FailedPage
	deleted []string
}

func newMemFailedPages() *memFailedPages {
	return &memFailedPages{pages: make(map[string]*entity.FailedPage)}
}

func (m *memFailedPages) SaveOrUpdate(ctx context.Context, p *entity.FailedPage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if prev, ok := m.pages[p.URL]; ok {
		p.AttemptCount = prev.AttemptCount + 1
	} else {
		p.AttemptCount = 1
	}
	m.pages[p.URL] = p
	return nil
}

func (m *memFailedPages) FindRecent(_ context.Context, limit int) ([]*entity.FailedPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.FailedPage
	for _, p := range m.pages {
		if len(out) == limit {
			break
		}
		out = append(out, p)
	}
	return out, nil
}

func (m *memFailedPages) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pages, url)
	m.deleted = append(m.deleted, url)
	return nil
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]entity.Extraction
	getErr  error
	puts    int
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string]entity.Extraction)}
}

func cacheKey(url string, budget int) string {
	return fmt.Sprintf("%s|%d", url, budget)
}

func (m *memCache) Get(_ context.Context, url string, budget int) (*entity.Extraction, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	e, ok := m.entries[cacheKey(url, budget)]
	if !ok {
		return nil, false, nil
	}
	return &e, true, nil
}

func (m *memCache) Put(_ context.Context, e *entity.Extraction, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[cacheKey(e.URL, e.PageBudget)] = *e
	m.puts++
	return nil
}

func (m *memCache) Invalidate(_ context.Context, url string, budget int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, cacheKey(url, budget))
	return nil
}

type memQueue struct {
	mu       sync.Mutex
	items    []string
	inFlight []string
	popErr   error
}

func (q *memQueue) Push(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, id)
	return nil
}

func (q *memQueue) Pop(_ context.Context) (string, bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.popErr != nil {
		return "", false, q.popErr
	}
	if len(q.items) == 0 {
		return "", false, nil
	}
	id := q.items[0]
	q.items = q.items[1:]
	q.inFlight = append(q.inFlight, id)
	return id, true, nil
}

func (q *memQueue) Ack(_ context.Context, id string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, v := range q.inFlight {
		if v == id {
			q.inFlight = append(q.inFlight[:i], q.inFlight[i+1:]...)
			break
		}
	}
	return nil
}

func (q *memQueue) Requeue(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := int64(len(q.inFlight))
	q.items = append(q.inFlight, q.items...)
	q.inFlight = nil
	return n, nil
}

func (q *memQueue) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}

// stubCrawler returns a canned report and records calls.
type stubCrawler struct {
	mu     sync.Mutex
	report func(startURL string, opts CrawlOptions) *entity.CrawlReport
	err    error
	calls  []CrawlOptions
	ctxs   []context.Context
}

func (c *stubCrawler) Crawl(ctx context.Context, startURL string, opts CrawlOptions) (*entity.CrawlReport, error) {
	c.mu.Lock()
	c.calls = append(c.calls, opts)
	c.ctxs = append(c.ctxs, ctx)
	c.mu.Unlock()
	var r *entity.CrawlReport
	if c.report != nil {
		r = c.report(startURL, opts)
	}
	return r, c.err
}
