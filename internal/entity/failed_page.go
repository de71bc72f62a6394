package entity

import "time"

// FailedPage mirrors the `failed_pages` PostgreSQL table schema.
type FailedPage struct {
	ID            int64
	URL           string
	ExtractionID  string
	Kind          FailureKind
	Reason        string
	AttemptCount  int
	LastAttemptAt time.Time
}
