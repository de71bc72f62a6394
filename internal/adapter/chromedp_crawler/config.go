package chromedp_crawler

import "github.com/varon-ai/sitecrawler/pkg/config"

// BrowserConfigFrom maps application settings onto browser settings.
func BrowserConfigFrom(cfg *config.Config) BrowserConfig {
	return BrowserConfig{
		ExecPath: cfg.ChromePath,
		Render: RenderConfig{
			ViewportWidth:     int64(cfg.ViewportWidth),
			ViewportHeight:    int64(cfg.ViewportHeight),
			NavigationTimeout: cfg.NavigationTimeout,
			Scroll: ScrollConfig{
				Step:        int64(cfg.ScrollStep),
				MaxDistance: int64(cfg.ScrollMaxDistance),
				Pause:       cfg.ScrollPause,
			},
		},
	}
}
