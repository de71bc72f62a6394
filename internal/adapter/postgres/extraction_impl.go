package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/varon-ai/sitecrawler/internal/entity"
	"github.com/varon-ai/sitecrawler/internal/repository"
)

// ExtractionRepoImpl provides a concrete implementation for the ExtractionRepository interface using PostgreSQL.
type ExtractionRepoImpl struct {
	db DB
}

// NewExtractionRepo creates a new instance of ExtractionRepoImpl.
func NewExtractionRepo(db DB) *ExtractionRepoImpl {
	return &ExtractionRepoImpl{db: db}
}

// Save stores or updates an extraction by its ID.
func (r *ExtractionRepoImpl) Save(ctx context.Context, e *entity.Extraction) error {
	sourcesJSON, err := json.Marshal(nonNil(e.SourceURLs))
	if err != nil {
		return err
	}

	query := `
		INSERT INTO extractions (id, url, page_budget, status, corpus, source_urls, pages_rendered, pages_failed, failure_reason, created_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			corpus = EXCLUDED.corpus,
			source_urls = EXCLUDED.source_urls,
			pages_rendered = EXCLUDED.pages_rendered,
			pages_failed = EXCLUDED.pages_failed,
			failure_reason = EXCLUDED.failure_reason,
			completed_at = EXCLUDED.completed_at;
	`

	_, err = r.db.Exec(ctx, query,
		e.ID,
		e.URL,
		e.PageBudget,
		string(e.Status),
		e.Corpus,
		sourcesJSON,
		e.PagesRendered,
		e.PagesFailed,
		e.FailureReason,
		e.CreatedAt,
		e.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("save extraction %s: %w", e.ID, err)
	}
	return nil
}

// FindByID retrieves an extraction. Unknown IDs return repository.ErrNotFound.
func (r *ExtractionRepoImpl) FindByID(ctx context.Context, id string) (*entity.Extraction, error) {
	query := `
		SELECT id, url, page_budget, status, corpus, source_urls, pages_rendered, pages_failed, failure_reason, created_at, completed_at
		FROM extractions
		WHERE id = $1;
	`
	row := r.db.QueryRow(ctx, query, id)

	var e entity.Extraction
	var status string
	var sourcesJSON []byte

	err := row.Scan(
		&e.ID,
		&e.URL,
		&e.PageBudget,
		&status,
		&e.Corpus,
		&sourcesJSON,
		&e.PagesRendered,
		&e.PagesFailed,
		&e.FailureReason,
		&e.CreatedAt,
		&e.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("extraction %s: %w", id, repository.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	e.Status = entity.ExtractionStatus(status)

	if err := json.Unmarshal(sourcesJSON, &e.SourceURLs); err != nil {
		return nil, fmt.Errorf("decode source_urls: %w", err)
	}
	return &e, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
