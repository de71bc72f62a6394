package chromedp_crawler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/repository"
)

// RenderConfig constrains a single page render.
type RenderConfig struct {
	ViewportWidth     int64
	ViewportHeight    int64
	NavigationTimeout time.Duration
	Scroll            ScrollConfig
}

// DefaultRenderConfig is a 1280x800 viewport with a 30s navigation timeout.
func DefaultRenderConfig() RenderConfig {
	return RenderConfig{
		ViewportWidth:     1280,
		ViewportHeight:    800,
		NavigationTimeout: 30 * time.Second,
		Scroll:            DefaultScrollConfig(),
	}
}

// pageTimeout bounds the whole render: navigation, scrolling and serialization.
func (c RenderConfig) pageTimeout() time.Duration {
	return c.NavigationTimeout + c.Scroll.Allowance() + 5*time.Second
}

// PageRenderer loads one URL per fresh tab and returns its rendered markup.
type PageRenderer struct {
	cfg    RenderConfig
	logger *zap.Logger
}

// NewPageRenderer creates a renderer.
func NewPageRenderer(cfg RenderConfig, logger *zap.Logger) *PageRenderer {
	return &PageRenderer{cfg: cfg, logger: logger}
}

// Render opens a new tab in the browser bound to browserCtx, navigates to url,
// auto-scrolls to trigger lazy content and returns the page's outer HTML.
// The tab is closed on every exit path; cancelling ctx closes it early.
func (r *PageRenderer) Render(ctx, browserCtx context.Context, url string) (string, error) {
	tabCtx, closeTab := chromedp.NewContext(browserCtx)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	pageCtx, cancel := context.WithTimeout(tabCtx, r.cfg.pageTimeout())
	defer cancel()

	startTime := time.Now()
	var html string
	var scrolled int64
	err := chromedp.Run(pageCtx,
		injectStealth(),
		chromedp.EmulateViewport(r.cfg.ViewportWidth, r.cfg.ViewportHeight),
		r.navigate(url),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			scrolled, err = AutoScroll(ctx, cdpScroller{}, r.cfg.Scroll)
			return err
		}),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %s: %w", repository.ErrPageRender, url, ctx.Err())
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", repository.ErrNavigationTimeout, url)
		}
		return "", fmt.Errorf("%w: %s: %v", repository.ErrPageRender, url, err)
	}

	r.logger.Debug("page rendered",
		zap.String("url", url),
		zap.Int("html_bytes", len(html)),
		zap.Int64("scrolled_px", scrolled),
		zap.Duration("duration", time.Since(startTime)),
	)
	return html, nil
}

// navigate loads url and returns once the DOM is constructed, without waiting
// for subresources. It is bounded by the navigation timeout.
func (r *PageRenderer) navigate(url string) chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		navCtx, cancel := context.WithTimeout(ctx, r.cfg.NavigationTimeout)
		defer cancel()

		domReady := make(chan struct{})
		var once sync.Once
		chromedp.ListenTarget(navCtx, func(ev any) {
			if _, ok := ev.(*page.EventDomContentEventFired); ok {
				once.Do(func() { close(domReady) })
			}
		})

		_, _, errorText, _, err := page.Navigate(url).Do(navCtx)
		if err != nil {
			return err
		}
		if errorText != "" {
			return fmt.Errorf("page load error %s", errorText)
		}

		select {
		case <-domReady:
		case <-navCtx.Done():
			return navCtx.Err()
		}
		return chromedp.WaitReady("body", chromedp.ByQuery).Do(navCtx)
	})
}
