package repository

import (
	"context"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

// ExtractionRepository stores extraction requests and their corpora.
type ExtractionRepository interface {
	// Save stores the extraction. If the ID already exists, it is updated.
	Save(ctx context.Context, e *entity.Extraction) error
	// FindByID returns ErrNotFound for unknown IDs.
	FindByID(ctx context.Context, id string) (*entity.Extraction, error)
}
