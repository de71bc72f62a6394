package entity

import "time"

// CrawlReport is everything one crawl job produced.
type CrawlReport struct {
	StartURL   string
	PageBudget int
	State      CrawlState
	Corpus     Corpus
	Pages      []PageResult // dequeue order
	Canceled   bool
	StartedAt  time.Time
	FinishedAt time.Time
}

// Rendered is the number of URLs the job dequeued and attempted.
func (r *CrawlReport) Rendered() int {
	return len(r.Pages)
}

// FailedPages returns the pages that carry a failure marker.
func (r *CrawlReport) FailedPages() []PageResult {
	var failed []PageResult
	for _, p := range r.Pages {
		if p.Failed() {
			failed = append(failed, p)
		}
	}
	return failed
}
