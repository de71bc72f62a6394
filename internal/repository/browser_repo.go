package repository

import (
	"context"

	"github.com/varon-ai/sitecrawler/internal/entity"
)

// BrowserSession is one isolated rendering environment owned by a single crawl job.
type BrowserSession interface {
	// RenderPage loads url in a fresh tab and returns the rendered HTML.
	// The tab is closed before RenderPage returns.
	RenderPage(ctx context.Context, url string) (string, error)
}

// SessionManager launches and tears down browser sessions.
type SessionManager interface {
	// Acquire launches a browser. Errors wrap ErrBrowserLaunch.
	Acquire(ctx context.Context) (BrowserSession, error)
	// Release terminates the browser and all its tabs.
	Release(session BrowserSession) error
}

// PageParser turns rendered HTML into text and same-domain links.
type PageParser interface {
	Parse(pageURL, html string) (*entity.ParsedPage, error)
}
