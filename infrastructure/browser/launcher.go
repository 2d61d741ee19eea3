package browser

import (
	"fmt"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// NewLauncher - returns the launcher for a driver name: playwright, selenium or chromedp
func NewLauncher(driver string, selenium SeleniumOptions, logger *logrus.Logger) (interfaces.Launcher, error) {
	switch driver {
	case "playwright", "":
		return NewPlaywrightLauncher(logger), nil
	case "selenium":
		return NewSeleniumLauncher(selenium, logger), nil
	case "chromedp":
		return NewChromedpLauncher(logger), nil
	}
	return nil, fmt.Errorf("%w: %q", entities.ErrUnknownDriver, driver)
}
