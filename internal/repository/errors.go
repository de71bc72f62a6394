package repository

import "errors"

var (
	// ErrBrowserLaunch is fatal for a crawl job: no page can be processed.
	ErrBrowserLaunch = errors.New("browser launch failed")
	// ErrPageRender covers navigation, DNS and network failures for one page.
	ErrPageRender = errors.New("page render failed")
	// ErrNavigationTimeout is a page render that exceeded its navigation timeout.
	ErrNavigationTimeout = errors.New("page navigation timed out")
	// ErrParse is returned when rendered markup or its URL cannot be parsed.
	ErrParse = errors.New("page parse failed")
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
)
