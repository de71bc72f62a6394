package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/pkg/utils"
)

const corpusKeyPrefix = "corpus:"

// CorpusCacheImpl implements repository.CorpusCache with JSON values under expiring keys.
type CorpusCacheImpl struct {
	client redis.UniversalClient
}

// NewCorpusCache creates a new instance of CorpusCacheImpl.
func NewCorpusCache(client redis.UniversalClient) *CorpusCacheImpl {
	return &CorpusCacheImpl{client: client}
}

// generateKey hashes the URL so keys stay short and safe.
func generateKey(url string, budget int) string {
	return fmt.Sprintf("%s%s:%d", corpusKeyPrefix, utils.HashURL(url), budget)
}

func (r *CorpusCacheImpl) Get(ctx context.Context, url string, budget int) (*entity.Extraction, bool, error) {
	raw, err := r.client.Get(ctx, generateKey(url, budget)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e entity.Extraction
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, false, fmt.Errorf("decode cached corpus: %w", err)
	}
	return &e, true, nil
}

// Put stores e under its URL and budget. A non-positive ttl disables caching.
func (r *CorpusCacheImpl) Put(ctx context.Context, e *entity.Extraction, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	// SET with EX is atomic.
	return r.client.Set(ctx, generateKey(e.URL, e.PageBudget), raw, ttl).Err()
}

func (r *CorpusCacheImpl) Invalidate(ctx context.Context, url string, budget int) error {
	return r.client.Del(ctx, generateKey(url, budget)).Err()
}
