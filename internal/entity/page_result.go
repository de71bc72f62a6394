package entity

import "time"

// FailureKind marks why a page contributed nothing to a corpus.
type FailureKind string

const (
	FailureNone     FailureKind = ""
	FailureRender   FailureKind = "render"
	FailureTimeout  FailureKind = "timeout"
	FailureParse    FailureKind = "parse"
	FailureCanceled FailureKind = "canceled"
)

// ParsedPage is the output of one parse pass over rendered HTML.
type ParsedPage struct {
	Title string
	Text  string
	Links []string
}

// PageResult is the outcome of processing one dequeued URL.
type PageResult struct {
	URL      string
	Title    string
	Text     string
	Links    []string // absolute, same-domain
	Failure  FailureKind
	Reason   string
	Duration time.Duration
}

// Failed reports whether the page carries a recoverable-failure marker.
func (p PageResult) Failed() bool {
	return p.Failure != FailureNone
}

// Outcome is the metrics label for the page.
func (p PageResult) Outcome() string {
	if p.Failed() {
		return string(p.Failure)
	}
	return "success"
}
