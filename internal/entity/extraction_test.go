package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractionApply(t *testing.T) {
	finished := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := &CrawlReport{
		State: CrawlCompleted,
		Pages: []PageResult{
			{URL: "https://example.com/", Text: "home"},
			{URL: "https://example.com/broken", Failure: FailureTimeout},
		},
		FinishedAt: finished,
	}
	r.Corpus.Append("https://example.com/", "home")

	e := &Extraction{ID: "x", Status: ExtractionRunning}
	e.Apply(r)

	assert.Equal(t, ExtractionCompleted, e.Status)
	assert.Equal(t, 2, e.PagesRendered)
	assert.Equal(t, 1, e.PagesFailed)
	assert.Equal(t, []string{"https://example.com/"}, e.SourceURLs)
	assert.Contains(t, e.Corpus, "=== Source: https://example.com/ ===")
	require.NotNil(t, e.CompletedAt)
	assert.Equal(t, finished, *e.CompletedAt)

	e.Apply(&CrawlReport{State: CrawlFailed})
	assert.Equal(t, ExtractionFailed, e.Status)
	assert.Empty(t, e.SourceURLs)
}
