package chromedp_crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// ScrollConfig bounds the auto-scroll loop.
type ScrollConfig struct {
	Step        int64         // pixels per increment
	MaxDistance int64         // hard cap on total scrolled pixels
	Pause       time.Duration // wait between increments for lazy content
}

// DefaultScrollConfig scrolls in 100px steps up to 5000px.
func DefaultScrollConfig() ScrollConfig {
	return ScrollConfig{Step: 100, MaxDistance: 5000, Pause: 100 * time.Millisecond}
}

// Allowance is an upper bound on the wall time the loop can take.
func (c ScrollConfig) Allowance() time.Duration {
	if c.Step <= 0 {
		return 0
	}
	steps := c.MaxDistance/c.Step + 1
	return time.Duration(steps) * (c.Pause + 50*time.Millisecond)
}

// Scroller is the page surface the loop drives.
type Scroller interface {
	ScrollHeight(ctx context.Context) (int64, error)
	ScrollBy(ctx context.Context, dy int64) error
}

// AutoScroll advances the page in fixed increments until the scrolled distance
// reaches the current document height or the distance cap, whichever comes
// first. Both conditions are re-checked every iteration since lazy content
// can grow the document. It returns the total distance scrolled.
func AutoScroll(ctx context.Context, s Scroller, cfg ScrollConfig) (int64, error) {
	if cfg.Step <= 0 {
		return 0, fmt.Errorf("scroll step must be positive, got %d", cfg.Step)
	}

	var scrolled int64
	for {
		height, err := s.ScrollHeight(ctx)
		if err != nil {
			return scrolled, fmt.Errorf("read scroll height: %w", err)
		}
		if scrolled >= height || scrolled >= cfg.MaxDistance {
			return scrolled, nil
		}

		step := min(cfg.Step, cfg.MaxDistance-scrolled)
		if err := s.ScrollBy(ctx, step); err != nil {
			return scrolled, fmt.Errorf("scroll by %d: %w", step, err)
		}
		scrolled += step

		timer := time.NewTimer(cfg.Pause)
		select {
		case <-ctx.Done():
			timer.Stop()
			return scrolled, ctx.Err()
		case <-timer.C:
		}
	}
}

// cdpScroller scrolls the page bound to the chromedp executor in ctx.
type cdpScroller struct{}

func (cdpScroller) ScrollHeight(ctx context.Context) (int64, error) {
	var height int64
	err := chromedp.Evaluate(`document.body ? document.body.scrollHeight : 0`, &height).Do(ctx)
	return height, err
}

func (cdpScroller) ScrollBy(ctx context.Context, dy int64) error {
	return chromedp.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", dy), nil).Do(ctx)
}
