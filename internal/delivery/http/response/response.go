package response

import (
	"time"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

type SubmitJobResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	JobID   string `json:"job_id"`
}

// ExtractionResponse is a DTO for an extraction, mirroring entity.Extraction
type ExtractionResponse struct {
	ID            string     `json:"id"`
	URL           string     `json:"url"`
	PageBudget    int        `json:"page_budget"`
	Status        string     `json:"status"` // "pending", "running", "completed", "failed"
	Corpus        string     `json:"corpus"`
	SourceURLs    []string   `json:"source_urls"`
	PagesRendered int        `json:"pages_rendered"`
	PagesFailed   int        `json:"pages_failed"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// FromExtraction converts an extraction record to its API form.
func FromExtraction(e *entity.Extraction) ExtractionResponse {
	sources := e.SourceURLs
	if sources == nil {
		sources = []string{}
	}
	return ExtractionResponse{
		ID:            e.ID,
		URL:           e.URL,
		PageBudget:    e.PageBudget,
		Status:        string(e.Status),
		Corpus:        e.Corpus,
		SourceURLs:    sources,
		PagesRendered: e.PagesRendered,
		PagesFailed:   e.PagesFailed,
		FailureReason: e.FailureReason,
		CreatedAt:     e.CreatedAt,
		CompletedAt:   e.CompletedAt,
	}
}

type FailedPageResponse struct {
	URL           string    `json:"url"`
	ExtractionID  string    `json:"extraction_id"`
	Kind          string    `json:"kind"` // "render", "timeout", "parse"
	Reason        string    `json:"reason"`
	AttemptCount  int       `json:"attempt_count"`
	LastAttemptAt time.Time `json:"last_attempt_at"`
}

// FromFailedPages converts failure records to their API form.
func FromFailedPages(pages []*entity.FailedPage) []FailedPageResponse {
	out := make([]FailedPageResponse, 0, len(pages))
	for _, p := range pages {
		out = append(out, FailedPageResponse{
			URL:           p.URL,
			ExtractionID:  p.ExtractionID,
			Kind:          string(p.Kind),
			Reason:        p.Reason,
			AttemptCount:  p.AttemptCount,
			LastAttemptAt: p.LastAttemptAt,
		})
	}
	return out
}
