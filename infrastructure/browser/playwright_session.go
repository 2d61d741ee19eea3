package browser

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/playwright-community/playwright-go"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

var chromiumArgs = []string{
	"--disable-popup-blocking",
	"--disable-blink-features=AutomationControlled",
	"--disable-dev-shm-usage",
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-infobars",
	"--disable-notifications",
}

type playwrightLauncher struct {
	logger *logrus.Logger
}

// NewPlaywrightLauncher - creates launcher that drives Chromium through playwright
func NewPlaywrightLauncher(logger *logrus.Logger) interfaces.Launcher {
	return &playwrightLauncher{logger: logger}
}

type playwrightSession struct {
	pw         *playwright.Playwright
	browser    playwright.Browser
	context    playwright.BrowserContext
	page       playwright.Page
	navTimeout float64
	logger     *logrus.Logger
	closeOnce  sync.Once
	closeErr   error
}

// Launch - starts playwright, launches Chromium and opens a page
func (l *playwrightLauncher) Launch(ctx context.Context, opts entities.LaunchOptions) (interfaces.Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	launchOptions := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
		Args:     chromiumArgs,
	}
	if opts.Proxy != nil {
		proxy := &playwright.Proxy{Server: opts.Proxy.Server}
		if opts.Proxy.HasAuth() {
			proxy.Username = playwright.String(opts.Proxy.Username)
			proxy.Password = playwright.String(opts.Proxy.Password)
		}
		launchOptions.Proxy = proxy
	}

	browser, err := pw.Chromium.Launch(launchOptions)
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  1280,
			Height: 720,
		},
		IgnoreHttpsErrors: playwright.Bool(true),
	}
	if opts.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(opts.UserAgent)
	}

	bctx, err := browser.NewContext(contextOptions)
	if err != nil {
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create context: %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		browser.Close()
		pw.Stop()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}

	page.OnDialog(func(dialog playwright.Dialog) {
		dialog.Accept()
	})

	return &playwrightSession{
		pw:         pw,
		browser:    browser,
		context:    bctx,
		page:       page,
		navTimeout: float64(opts.NavigationTimeout.Milliseconds()),
		logger:     l.logger,
	}, nil
}

// Navigate - navigates to the specified URL and waits for the load event.
// Canceling ctx closes the page, which aborts a pending load.
func (s *playwrightSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() {
		s.page.Close()
	})
	defer stop()

	gotoOptions := playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}
	if s.navTimeout > 0 {
		gotoOptions.Timeout = playwright.Float(s.navTimeout)
	}
	resp, err := s.page.Goto(url, gotoOptions)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("navigation to %s interrupted: %w", url, ctx.Err())
		}
		return err
	}
	if resp != nil {
		s.logger.Debugf("Navigation to %s answered with status %d", url, resp.Status())
	}
	return nil
}

// Probe - checks the first element matching the candidate without waiting
func (s *playwrightSession) Probe(ctx context.Context, candidate entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	locator := s.page.Locator(playwrightSelector(candidate)).First()

	count, err := locator.Count()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, entities.ErrNoMatch
	}

	if cond == entities.Clickable {
		visible, err := locator.IsVisible()
		if err != nil {
			return nil, err
		}
		enabled, err := locator.IsEnabled()
		if err != nil {
			return nil, err
		}
		if !visible || !enabled {
			return nil, entities.ErrNoMatch
		}
	}

	return &playwrightElement{locator: locator}, nil
}

// Close - closes context, browser and the playwright driver
func (s *playwrightSession) Close() error {
	s.closeOnce.Do(func() {
		var closeErr error
		if err := s.context.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close context: %w", err))
		}
		if err := s.browser.Close(); err != nil && !isClosedErr(err) {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to close browser: %w", err))
		}
		if err := s.pw.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop playwright: %w", err))
		}
		s.closeErr = closeErr
	})
	return s.closeErr
}

type playwrightElement struct {
	locator playwright.Locator
}

// Fill - clears the field and fills it with text
func (e *playwrightElement) Fill(ctx context.Context, text string) error {
	if err := e.locator.Clear(); err != nil {
		return fmt.Errorf("failed to clear field: %w", err)
	}
	return e.locator.Fill(text)
}

// Click - clicks the element
func (e *playwrightElement) Click(ctx context.Context) error {
	return e.locator.Click()
}

// isClosedErr - reports errors raised for a target that is already gone
func isClosedErr(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "closed") || strings.Contains(errStr, "target closed")
}
