package repository

import (
	"context"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

// FailedPageRepository keeps the failure history of pages that could not be rendered.
type FailedPageRepository interface {
	// SaveOrUpdate creates or updates a record for a failed page.
	SaveOrUpdate(ctx context.Context, page *entity.FailedPage) error
	// FindRecent returns the most recently failed pages.
	FindRecent(ctx context.Context, limit int) ([]*entity.FailedPage, error)
	// Delete removes a failed page record, typically after a successful render.
	Delete(ctx context.Context, url string) error
}
