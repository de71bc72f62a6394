package entity

import "fmt"

// CrawlState is the lifecycle state of one crawl job.
type CrawlState string

const (
	CrawlIdle      CrawlState = "idle"
	CrawlRunning   CrawlState = "running"
	CrawlCompleted CrawlState = "completed"
	CrawlFailed    CrawlState = "failed" // browser acquisition failure only
)

var crawlTransitions = map[CrawlState][]CrawlState{
	CrawlIdle:    {CrawlRunning},
	CrawlRunning: {CrawlCompleted, CrawlFailed},
}

// CanTransition reports whether moving from s to next is allowed.
func (s CrawlState) CanTransition(next CrawlState) bool {
	for _, allowed := range crawlTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition returns next, or an error if the move is not allowed.
func (s CrawlState) Transition(next CrawlState) (CrawlState, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("invalid crawl state transition %s -> %s", s, next)
	}
	return next, nil
}

// Terminal reports whether no further transitions exist.
func (s CrawlState) Terminal() bool {
	return s == CrawlCompleted || s == CrawlFailed
}
