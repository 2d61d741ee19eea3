package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// probeJS inspects the element found by a lookup expression
const probeJS = `(() => {
	const el = %s;
	if (!el) {
		return {found: false, visible: false, enabled: false};
	}
	const rect = el.getBoundingClientRect();
	const style = window.getComputedStyle(el);
	return {
		found: true,
		visible: rect.width > 0 && rect.height > 0 && style.display !== 'none' && style.visibility !== 'hidden',
		enabled: el.disabled !== true
	};
})()`

type probeResult struct {
	Found   bool `json:"found"`
	Visible bool `json:"visible"`
	Enabled bool `json:"enabled"`
}

// actionTimeout bounds single chromedp actions such as a probe or a click
const actionTimeout = 10 * time.Second

type chromedpLauncher struct {
	logger *logrus.Logger
}

// NewChromedpLauncher - creates launcher that drives Chrome over the DevTools protocol
func NewChromedpLauncher(logger *logrus.Logger) interfaces.Launcher {
	return &chromedpLauncher{logger: logger}
}

type chromedpSession struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	navTimeout    time.Duration
	closeOnce     sync.Once
}

// Launch - starts a Chrome process and opens a tab
func (l *chromedpLauncher) Launch(ctx context.Context, opts entities.LaunchOptions) (interfaces.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The browser outlives individual calls, so it is not tied to ctx
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), l.allocatorOptions(opts)...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(l.logger.Debugf),
		chromedp.WithErrorf(l.logger.Debugf),
	)
	shutdown := func() {
		browserCancel()
		allocCancel()
	}

	// the first Run starts the browser and must use browserCtx itself:
	// canceling a context derived for that call would kill the process
	stopAfter := context.AfterFunc(ctx, shutdown)
	err := chromedp.Run(browserCtx)
	if !stopAfter() {
		shutdown()
		return nil, fmt.Errorf("failed to launch browser: %w", ctx.Err())
	}
	if err != nil {
		shutdown()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return &chromedpSession{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		navTimeout:    opts.NavigationTimeout,
	}, nil
}

func (l *chromedpLauncher) allocatorOptions(opts entities.LaunchOptions) []chromedp.ExecAllocatorOption {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WSURLReadTimeout(actionTimeout),
	)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.Proxy != nil {
		if opts.Proxy.HasAuth() {
			l.logger.Warnf("Proxy credentials are not supported by the chromedp driver, connecting to %s without them", opts.Proxy.Server)
		}
		allocOpts = append(allocOpts, chromedp.ProxyServer(opts.Proxy.Server))
	}
	return allocOpts
}

// joinContext - derives a context from the browser context that is also
// canceled when caller is done or after timeout
func joinContext(browserCtx, caller context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(browserCtx, timeout)
	stopAfter := context.AfterFunc(caller, cancel)
	return ctx, func() {
		stopAfter()
		cancel()
	}
}

// Navigate - navigates the tab to url and waits for the body
func (s *chromedpSession) Navigate(ctx context.Context, url string) error {
	timeout := s.navTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, stop := joinContext(s.browserCtx, ctx, timeout)
	defer stop()

	return chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Probe - evaluates the candidate lookup once in the page
func (s *chromedpSession) Probe(ctx context.Context, candidate entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	target := chromedpTarget(candidate)

	runCtx, stop := joinContext(s.browserCtx, ctx, actionTimeout)
	defer stop()

	var res probeResult
	if err := chromedp.Run(runCtx, chromedp.Evaluate(fmt.Sprintf(probeJS, target.jsLookup()), &res)); err != nil {
		return nil, err
	}
	if !res.Found {
		return nil, entities.ErrNoMatch
	}
	if cond == entities.Clickable && (!res.Visible || !res.Enabled) {
		return nil, entities.ErrNoMatch
	}

	return &chromedpElement{session: s, target: target}, nil
}

// Close - closes the tab and kills the browser process
func (s *chromedpSession) Close() error {
	s.closeOnce.Do(func() {
		s.browserCancel()
		s.allocCancel()
	})
	return nil
}

type chromedpElement struct {
	session *chromedpSession
	target  cdpTarget
}

func (e *chromedpElement) queryOptions(extra ...chromedp.QueryOption) []chromedp.QueryOption {
	opts := []chromedp.QueryOption{chromedp.ByQuery}
	if e.target.xpath {
		opts = []chromedp.QueryOption{chromedp.BySearch}
	}
	return append(opts, extra...)
}

// Fill - clears the field and types text
func (e *chromedpElement) Fill(ctx context.Context, text string) error {
	runCtx, stop := joinContext(e.session.browserCtx, ctx, actionTimeout)
	defer stop()

	return chromedp.Run(runCtx,
		chromedp.Clear(e.target.sel, e.queryOptions()...),
		chromedp.SendKeys(e.target.sel, text, e.queryOptions()...),
	)
}

// Click - clicks the element once it is visible
func (e *chromedpElement) Click(ctx context.Context) error {
	runCtx, stop := joinContext(e.session.browserCtx, ctx, actionTimeout)
	defer stop()

	return chromedp.Run(runCtx, chromedp.Click(e.target.sel, e.queryOptions(chromedp.NodeVisible)...))
}
