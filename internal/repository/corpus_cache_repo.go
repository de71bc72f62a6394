package repository

import (
	"context"
	"time"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

// CorpusCache holds recently completed extractions keyed by start URL and page budget.
type CorpusCache interface {
	// Get returns (nil, false, nil) on a miss.
	Get(ctx context.Context, url string, budget int) (*entity.Extraction, bool, error)
	Put(ctx context.Context, e *entity.Extraction, ttl time.Duration) error
	Invalidate(ctx context.Context, url string, budget int) error
}
