package voter

import (
	"context"
	"fmt"
	"time"

	"vote_automation/application/locator"
	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// DefaultSettle is how long to wait after clicking for the vote to register
const DefaultSettle = 2 * time.Second

// Targets are the two elements a vote interacts with
type Targets struct {
	Username entities.Target
	Vote     entities.Target
}

// NewTargets - builds targets from the username and vote selector lists
func NewTargets(username, vote entities.SelectorList) Targets {
	return Targets{
		Username: entities.Target{Label: "username field", Candidates: username, Condition: entities.Present},
		Vote:     entities.Target{Label: "vote button", Candidates: vote, Condition: entities.Clickable},
	}
}

// PauseFunc waits for d or until ctx is done
type PauseFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default PauseFunc
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Options configures a Voter
type Options struct {
	Launch  entities.LaunchOptions
	Targets Targets
	Settle  time.Duration
	Pause   PauseFunc
}

// Voter runs one vote per browser session
type Voter struct {
	launcher interfaces.Launcher
	locator  *locator.Locator
	logger   *logrus.Logger
	opts     Options
}

// NewVoter - creates new voter
func NewVoter(launcher interfaces.Launcher, loc *locator.Locator, logger *logrus.Logger, opts Options) *Voter {
	if opts.Pause == nil {
		opts.Pause = Sleep
	}
	return &Voter{
		launcher: launcher,
		locator:  loc,
		logger:   logger,
		opts:     opts,
	}
}

// Vote - launches a browser, fills the username, clicks vote and closes the
// browser again. The session is closed on every path.
func (v *Voter) Vote(ctx context.Context, task entities.VoteTask) error {
	launch := v.opts.Launch
	launch.Proxy = task.Proxy

	session, err := v.launcher.Launch(ctx, launch)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	v.logger.Info("Browser started successfully")
	defer v.closeSession(session)

	v.logger.Infof("Navigating to %s...", task.URL)
	if err := session.Navigate(ctx, task.URL); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", task.URL, err)
	}
	v.logger.Infof("Successfully navigated to %s", task.URL)

	if err := v.fillUsername(ctx, session, task.Name); err != nil {
		return err
	}

	if err := v.clickVote(ctx, session); err != nil {
		return err
	}

	if err := v.opts.Pause(ctx, v.opts.Settle); err != nil {
		return fmt.Errorf("interrupted while waiting for vote to register: %w", err)
	}
	return nil
}

// fillUsername - locates the username field, clears it and types name
func (v *Voter) fillUsername(ctx context.Context, page interfaces.Page, name string) error {
	match, err := v.locator.Locate(ctx, page, v.opts.Targets.Username)
	if err != nil {
		return fmt.Errorf("failed to fill username field: %w", err)
	}

	if err := match.Element.Fill(ctx, name); err != nil {
		return fmt.Errorf("failed to fill username field: %w", err)
	}
	v.logger.Infof("Successfully filled username field with: %s", name)
	return nil
}

// clickVote - locates the vote button and clicks it
func (v *Voter) clickVote(ctx context.Context, page interfaces.Page) error {
	match, err := v.locator.Locate(ctx, page, v.opts.Targets.Vote)
	if err != nil {
		return fmt.Errorf("failed to click vote button: %w", err)
	}

	if err := match.Element.Click(ctx); err != nil {
		return fmt.Errorf("failed to click vote button: %w", err)
	}
	v.logger.Info("Successfully clicked the vote button")
	return nil
}

func (v *Voter) closeSession(session interfaces.Session) {
	if err := session.Close(); err != nil {
		v.logger.Warnf("Failed to close browser cleanly: %v", err)
		return
	}
	v.logger.Info("Browser closed")
}
