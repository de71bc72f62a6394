package chromedp_crawler

import (
	"context"
	"math/rand/v2"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36",
}

// stealthScript runs before any page script and hides the usual headless signals.
const stealthScript = `(() => {
  Object.defineProperty(navigator, 'webdriver', { get: () => undefined });
  Object.defineProperty(navigator, 'languages', { get: () => ['en-US', 'en'] });
  Object.defineProperty(navigator, 'plugins', { get: () => [1, 2, 3, 4, 5] });
  window.chrome = window.chrome || { runtime: {} };
  const query = window.navigator.permissions && window.navigator.permissions.query;
  if (query) {
    window.navigator.permissions.query = (p) =>
      p && p.name === 'notifications'
        ? Promise.resolve({ state: Notification.permission })
        : query.call(window.navigator.permissions, p);
  }
})();`

// Fingerprints hands out the user agent and proxy for each browser launch.
type Fingerprints struct {
	proxies    []string
	userAgents []string
	mu         sync.Mutex
	proxyIndex int
}

// NewFingerprints uses the built-in desktop Chrome user agents when none are given.
func NewFingerprints(userAgents, proxies []string) *Fingerprints {
	if len(userAgents) == 0 {
		userAgents = defaultUserAgents
	}
	return &Fingerprints{
		proxies:    append([]string(nil), proxies...),
		userAgents: append([]string(nil), userAgents...),
	}
}

// Proxy returns a proxy URL from the list, rotating sequentially.
func (f *Fingerprints) Proxy() string {
	if len(f.proxies) == 0 {
		return "" // No proxy
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	proxy := f.proxies[f.proxyIndex]
	f.proxyIndex = (f.proxyIndex + 1) % len(f.proxies)
	return proxy
}

// UserAgent returns a random user agent string.
func (f *Fingerprints) UserAgent() string {
	return f.userAgents[rand.IntN(len(f.userAgents))]
}

// injectStealth registers the stealth script for every document the tab loads.
func injectStealth() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(stealthScript).Do(ctx)
		return err
	})
}
