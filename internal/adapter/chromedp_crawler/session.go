package chromedp_crawler

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/varon-ai/sitecrawler/internal/repository"
)

// BrowserConfig configures browser launches.
type BrowserConfig struct {
	ExecPath string // empty uses chromedp's lookup of installed Chrome/Chromium
	Render   RenderConfig
}

// SessionManager launches one headless Chrome per crawl job.
type SessionManager struct {
	cfg          BrowserConfig
	fingerprints *Fingerprints
	renderer     *PageRenderer
	logger       *zap.Logger
}

// NewSessionManager creates a session manager backed by chromedp.
func NewSessionManager(cfg BrowserConfig, fingerprints *Fingerprints, logger *zap.Logger) *SessionManager {
	return &SessionManager{
		cfg:          cfg,
		fingerprints: fingerprints,
		renderer:     NewPageRenderer(cfg.Render, logger),
		logger:       logger,
	}
}

func (m *SessionManager) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
		chromedp.UserAgent(m.fingerprints.UserAgent()),
		chromedp.WindowSize(int(m.cfg.Render.ViewportWidth), int(m.cfg.Render.ViewportHeight)),
	)
	if proxy := m.fingerprints.Proxy(); proxy != "" {
		opts = append(opts, chromedp.ProxyServer(proxy))
	}
	if m.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(m.cfg.ExecPath))
	}
	return opts
}

// Acquire launches a browser process and returns a live session.
// The browser outlives ctx; it only stops on Release.
func (m *SessionManager) Acquire(ctx context.Context) (repository.BrowserSession, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), m.allocatorOptions()...)
	sugar := m.logger.Sugar()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)

	// An empty Run starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", repository.ErrBrowserLaunch, err)
	}

	s := &Session{
		id:       uuid.NewString(),
		ctx:      browserCtx,
		renderer: m.renderer,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}
	m.logger.Debug("browser session acquired", zap.String("session_id", s.id))
	return s, nil
}

// Release terminates the browser and all its tabs. Releasing twice is a no-op.
func (m *SessionManager) Release(bs repository.BrowserSession) error {
	s, ok := bs.(*Session)
	if !ok {
		return fmt.Errorf("release: unexpected session type %T", bs)
	}
	err := s.close()
	m.logger.Debug("browser session released", zap.String("session_id", s.id), zap.Error(err))
	return err
}

// Session is one running browser.
type Session struct {
	id       string
	ctx      context.Context
	renderer *PageRenderer
	cancel   func()
	once     sync.Once
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// RenderPage implements repository.BrowserSession.
func (s *Session) RenderPage(ctx context.Context, url string) (string, error) {
	return s.renderer.Render(ctx, s.ctx, url)
}

func (s *Session) close() error {
	var err error
	s.once.Do(func() {
		err = chromedp.Cancel(s.ctx)
		s.cancel()
	})
	return err
}
