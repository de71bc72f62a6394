package postgres

import (
	"context"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

// FailedPageRepoImpl provides a concrete implementation for the FailedPageRepository interface using PostgreSQL.
type FailedPageRepoImpl struct {
	db DB
}

// NewFailedPageRepo creates a new instance of FailedPageRepoImpl.
func NewFailedPageRepo(db DB) *FailedPageRepoImpl {
	return &FailedPageRepoImpl{db: db}
}

// SaveOrUpdate creates or updates a record for a failed page.
// It increments the attempt_count on conflict.
func (r *FailedPageRepoImpl) SaveOrUpdate(ctx context.Context, page *entity.FailedPage) error {
	query := `
		INSERT INTO failed_pages (url, extraction_id, kind, reason, attempt_count, last_attempt_at)
		VALUES ($1, $2, $3, $4, 1, $5)
		ON CONFLICT (url) DO UPDATE SET
			extraction_id = EXCLUDED.extraction_id,
			kind = EXCLUDED.kind,
			reason = EXCLUDED.reason,
			attempt_count = failed_pages.attempt_count + 1,
			last_attempt_at = EXCLUDED.last_attempt_at;
	`
	_, err := r.db.Exec(ctx, query,
		page.URL,
		page.ExtractionID,
		string(page.Kind),
		page.Reason,
		page.LastAttemptAt,
	)
	return err
}

// FindRecent retrieves the most recently failed pages.
func (r *FailedPageRepoImpl) FindRecent(ctx context.Context, limit int) ([]*entity.FailedPage, error) {
	query := `
		SELECT id, url, extraction_id, kind, reason, attempt_count, last_attempt_at
		FROM failed_pages
		ORDER BY last_attempt_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []*entity.FailedPage
	for rows.Next() {
		var p entity.FailedPage
		var kind string
		if err := rows.Scan(
			&p.ID,
			&p.URL,
			&p.ExtractionID,
			&kind,
			&p.Reason,
			&p.AttemptCount,
			&p.LastAttemptAt,
		); err != nil {
			return nil, err
		}
		p.Kind = entity.FailureKind(kind)
		pages = append(pages, &p)
	}

	return pages, rows.Err()
}

// Delete removes a failed page record, typically after a successful render.
func (r *FailedPageRepoImpl) Delete(ctx context.Context, url string) error {
	query := `DELETE FROM failed_pages WHERE url = $1;`
	_, err := r.db.Exec(ctx, query, url)
	return err
}
