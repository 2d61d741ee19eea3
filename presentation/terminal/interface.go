package terminal

import (
	"context"
	"fmt"
	"io"
	"strings"

	"vote_automation/application/locator"
	"vote_automation/application/voter"
	"vote_automation/domain/interfaces"
	"vote_automation/infrastructure/browser"
	"vote_automation/infrastructure/config"
	"vote_automation/infrastructure/storage"

	"github.com/sirupsen/logrus"
)

type TerminalInterface struct {
	cfg    *config.Config
	runner *voter.Runner
	lists  interfaces.ListSource
	logger *logrus.Logger
	out    io.Writer
}

// NewTerminalInterface - wires logger, browser launcher, locator and voter
// from a validated config
func NewTerminalInterface(cfg *config.Config, out, errOut io.Writer) (*TerminalInterface, error) {
	logger, err := newLogger(cfg, errOut)
	if err != nil {
		return nil, err
	}

	launcher, err := browser.NewLauncher(cfg.Driver, browser.SeleniumOptions{
		DriverPath:  cfg.Selenium.DriverPath,
		BrowserPath: cfg.Selenium.BrowserPath,
		Port:        cfg.Selenium.Port,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize browser: %w", err)
	}

	return newTerminalInterface(cfg, launcher, logger, out,
		spinnerPause(errOut, " waiting for the vote to register"),
		spinnerPause(errOut, " waiting before the next vote"),
	), nil
}

func newTerminalInterface(cfg *config.Config, launcher interfaces.Launcher, logger *logrus.Logger, out io.Writer, settle, delay voter.PauseFunc) *TerminalInterface {
	loc := locator.New(logger,
		locator.WithTimeout(cfg.Timeout),
		locator.WithPollInterval(cfg.PollInterval),
	)

	v := voter.NewVoter(launcher, loc, logger, voter.Options{
		Launch:  cfg.LaunchOptions(),
		Targets: voter.NewTargets(cfg.Selectors.Username, cfg.Selectors.Vote),
		Settle:  cfg.Settle,
		Pause:   settle,
	})

	return &TerminalInterface{
		cfg:    cfg,
		runner: voter.NewRunner(v, logger, cfg.Delay, delay),
		lists:  storage.NewListFiles(cfg.NamesFile, cfg.ProxiesFile),
		logger: logger,
		out:    out,
	}
}

// Run - loads names and proxies, votes once per name and returns an error
// when any attempt failed
func (t *TerminalInterface) Run(ctx context.Context) error {
	names := []string{t.cfg.Name}
	if t.cfg.NamesFile != "" {
		loaded, err := t.lists.LoadNames()
		if err != nil {
			return err
		}
		if t.cfg.Name != "" {
			t.logger.Warnf("Ignoring username %q, names are read from %s", t.cfg.Name, t.cfg.NamesFile)
		}
		names = loaded
	}

	proxies, err := t.lists.LoadProxies()
	if err != nil {
		return err
	}

	t.printBanner(names, len(proxies))

	tasks := voter.Plan(t.cfg.URL, names, proxies)
	attempts := t.runner.Run(ctx, tasks)

	failed := voter.Failed(attempts)
	if len(tasks) > 1 {
		t.logger.Infof("Finished: %d succeeded, %d failed", len(attempts)-failed, failed)
	}

	switch {
	case failed > 0:
		return fmt.Errorf("%d of %d votes failed", failed, len(tasks))
	case len(attempts) < len(tasks):
		return fmt.Errorf("interrupted after %d of %d votes: %w", len(attempts), len(tasks), ctx.Err())
	}
	return nil
}

func (t *TerminalInterface) printBanner(names []string, proxies int) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintln(t.out, rule)
	fmt.Fprintln(t.out, "Vote Automation Script")
	fmt.Fprintln(t.out, rule)
	fmt.Fprintf(t.out, "URL: %s\n", t.cfg.URL)
	if len(names) == 1 {
		fmt.Fprintf(t.out, "Username: %s\n", names[0])
	} else {
		fmt.Fprintf(t.out, "Names: %d from %s\n", len(names), t.cfg.NamesFile)
	}
	if proxies > 0 {
		fmt.Fprintf(t.out, "Proxies: %d from %s\n", proxies, t.cfg.ProxiesFile)
	}
	fmt.Fprintf(t.out, "Timeout: %s\n", t.cfg.Timeout)
	fmt.Fprintf(t.out, "Driver: %s\n", t.cfg.Driver)
	fmt.Fprintln(t.out, rule)
}
