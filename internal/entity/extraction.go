package entity

import "time"

// ExtractionStatus is the persisted status of an extraction request.
type ExtractionStatus string

const (
	ExtractionPending   ExtractionStatus = "pending"
	ExtractionRunning   ExtractionStatus = "running"
	ExtractionCompleted ExtractionStatus = "completed"
	ExtractionFailed    ExtractionStatus = "failed"
)

// Extraction mirrors the `extractions` PostgreSQL table schema.
type Extraction struct {
	ID            string           `json:"id"`
	URL           string           `json:"url"`
	PageBudget    int              `json:"page_budget"`
	Status        ExtractionStatus `json:"status"`
	Corpus        string           `json:"corpus"`
	SourceURLs    []string         `json:"source_urls"` // Stored as JSONB in PostgreSQL
	PagesRendered int              `json:"pages_rendered"`
	PagesFailed   int              `json:"pages_failed"`
	FailureReason string           `json:"failure_reason,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	CompletedAt   *time.Time       `json:"completed_at,omitempty"`
}

// Apply copies the outcome of a crawl report onto the extraction.
func (e *Extraction) Apply(r *CrawlReport) {
	e.Corpus = r.Corpus.String()
	e.SourceURLs = r.Corpus.SourceURLs()
	e.PagesRendered = r.Rendered()
	e.PagesFailed = len(r.FailedPages())
	if r.State == CrawlFailed {
		e.Status = ExtractionFailed
	} else {
		e.Status = ExtractionCompleted
	}
	finished := r.FinishedAt
	e.CompletedAt = &finished
}
