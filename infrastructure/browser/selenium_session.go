package browser

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"go.uber.org/multierr"
)

// SeleniumOptions locates chromedriver and Chrome. Empty paths are
// discovered from the environment and common install locations.
type SeleniumOptions struct {
	DriverPath  string
	BrowserPath string
	Port        int
}

type seleniumLauncher struct {
	opts   SeleniumOptions
	logger *logrus.Logger
}

// NewSeleniumLauncher - creates launcher that drives Chrome through chromedriver
func NewSeleniumLauncher(opts SeleniumOptions, logger *logrus.Logger) interfaces.Launcher {
	if opts.Port == 0 {
		opts.Port = 9515
	}
	return &seleniumLauncher{opts: opts, logger: logger}
}

type seleniumSession struct {
	wd        selenium.WebDriver
	service   *selenium.Service
	closeOnce sync.Once
	closeErr  error
}

// findChromeDriver - finds ChromeDriver executable path
func findChromeDriver(configured string) (string, error) {
	for _, path := range []string{configured, os.Getenv("VOTE_CHROMEDRIVER_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	commonPaths := []string{
		"/usr/local/bin/chromedriver",
		"/usr/bin/chromedriver",
		"/opt/homebrew/bin/chromedriver",
		filepath.Join(os.Getenv("HOME"), "bin", "chromedriver"),
	}

	for _, path := range commonPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if path, err := exec.LookPath("chromedriver"); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("chromedriver not found. Please install it or set selenium.driver_path")
}

// findChromeBinary - finds Chrome/Chromium browser executable path
func findChromeBinary(configured string) string {
	for _, path := range []string{configured, os.Getenv("VOTE_CHROME_PATH")} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	chromePaths := []string{
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
		"/Applications/Chromium.app/Contents/MacOS/Chromium",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		`C:\Program Files\Google\Chrome\Application\chrome.exe`,
		`C:\Program Files (x86)\Google\Chrome\Application\chrome.exe`,
	}

	for _, path := range chromePaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"google-chrome", "chromium", "chromium-browser"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	return ""
}

// chromeArgs - builds the Chrome command line for a session
func chromeArgs(opts entities.LaunchOptions) []string {
	args := []string{
		"--disable-blink-features=AutomationControlled",
		"--disable-dev-shm-usage",
		"--no-sandbox",
	}
	if opts.Headless {
		args = append(args, "--headless=new", "--disable-gpu")
	}
	if opts.UserAgent != "" {
		args = append(args, "--user-agent="+opts.UserAgent)
	}
	if opts.Proxy != nil {
		args = append(args, "--proxy-server="+opts.Proxy.Server)
	}
	return args
}

// Launch - starts chromedriver and a Chrome session
func (l *seleniumLauncher) Launch(ctx context.Context, opts entities.LaunchOptions) (interfaces.Session, error) {
	driverPath, err := findChromeDriver(l.opts.DriverPath)
	if err != nil {
		return nil, fmt.Errorf("failed to find chromedriver: %w", err)
	}
	l.logger.Debugf("Using ChromeDriver at: %s", driverPath)

	if opts.Proxy != nil && opts.Proxy.HasAuth() {
		l.logger.Warnf("Proxy credentials are not supported by the selenium driver, connecting to %s without them", opts.Proxy.Server)
	}

	service, err := selenium.NewChromeDriverService(driverPath, l.opts.Port)
	if err != nil {
		return nil, fmt.Errorf("failed to start chromedriver: %w", err)
	}

	caps := selenium.Capabilities{
		"browserName": "chrome",
	}
	chromeCaps := chrome.Capabilities{
		Args: chromeArgs(opts),
	}
	if chromeBinary := findChromeBinary(l.opts.BrowserPath); chromeBinary != "" {
		l.logger.Debugf("Using Chrome binary at: %s", chromeBinary)
		chromeCaps.Path = chromeBinary
	}
	caps.AddChrome(chromeCaps)

	wd, err := selenium.NewRemote(caps, fmt.Sprintf("http://localhost:%d/wd/hub", l.opts.Port))
	if err != nil {
		service.Stop()
		if strings.Contains(err.Error(), "cannot find Chrome binary") {
			return nil, fmt.Errorf("failed to create webdriver: Chrome browser not found, set selenium.browser_path: %w", err)
		}
		return nil, fmt.Errorf("failed to create webdriver: %w", err)
	}

	if opts.NavigationTimeout > 0 {
		if err := wd.SetPageLoadTimeout(opts.NavigationTimeout); err != nil {
			l.logger.Warnf("Failed to set page load timeout: %v", err)
		}
	}

	return &seleniumSession{
		wd:      wd,
		service: service,
	}, nil
}

// Navigate - navigates browser to specified URL. WebDriver cannot abort a
// load in flight, so ctx is only checked before it starts; the page load
// timeout bounds the rest.
func (s *seleniumSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.Get(url)
}

// Probe - looks the candidate up once with FindElements, which does not
// fail when nothing matches
func (s *seleniumSession) Probe(ctx context.Context, candidate entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	by, value := seleniumBy(candidate)
	elements, err := s.wd.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, entities.ErrNoMatch
	}
	element := elements[0]

	if cond == entities.Clickable {
		displayed, err := element.IsDisplayed()
		if err != nil {
			return nil, err
		}
		enabled, err := element.IsEnabled()
		if err != nil {
			return nil, err
		}
		if !displayed || !enabled {
			return nil, entities.ErrNoMatch
		}
	}

	return &seleniumElement{element: element}, nil
}

// Close - quits the browser and stops ChromeDriver service
func (s *seleniumSession) Close() error {
	s.closeOnce.Do(func() {
		var closeErr error
		if err := s.wd.Quit(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to quit webdriver: %w", err))
		}
		if err := s.service.Stop(); err != nil {
			closeErr = multierr.Append(closeErr, fmt.Errorf("failed to stop chromedriver: %w", err))
		}
		s.closeErr = closeErr
	})
	return s.closeErr
}

type seleniumElement struct {
	element selenium.WebElement
}

// Fill - clears the field and sends the text as keystrokes
func (e *seleniumElement) Fill(ctx context.Context, text string) error {
	if err := e.element.Clear(); err != nil {
		return fmt.Errorf("failed to clear field: %w", err)
	}
	return e.element.SendKeys(text)
}

// Click - clicks the element
func (e *seleniumElement) Click(ctx context.Context) error {
	return e.element.Click()
}
