// Package locator finds page elements by trying an ordered list of selector
// candidates, each with a bounded wait.
package locator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultPollInterval = 250 * time.Millisecond
)

// Match is the element a locate call settled on and the candidate that found it
type Match struct {
	Element   interfaces.Element
	Candidate entities.SelectorCandidate
}

// Locator tries selector candidates in order, first match wins
type Locator struct {
	timeout  time.Duration
	interval time.Duration
	logger   *logrus.Logger
}

// Option configures a Locator
type Option func(*Locator)

// WithTimeout sets how long each candidate is polled before moving on
func WithTimeout(d time.Duration) Option {
	return func(l *Locator) {
		l.timeout = d
	}
}

// WithPollInterval sets the pause between probes of one candidate
func WithPollInterval(d time.Duration) Option {
	return func(l *Locator) {
		l.interval = d
	}
}

// New - creates a locator with default timeout and poll interval
func New(logger *logrus.Logger, opts ...Option) *Locator {
	l := &Locator{
		timeout:  DefaultTimeout,
		interval: DefaultPollInterval,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.interval <= 0 {
		l.interval = DefaultPollInterval
	}
	return l
}

// Timeout returns the per-candidate wait
func (l *Locator) Timeout() time.Duration {
	return l.timeout
}

// Locate - returns the first candidate of target that matches within the
// per-candidate timeout. When none match, the error wraps
// entities.ErrElementNotFound.
func (l *Locator) Locate(ctx context.Context, page interfaces.Page, target entities.Target) (Match, error) {
	for _, candidate := range target.Candidates {
		el, err := l.wait(ctx, page, candidate, target.Condition)
		if err == nil {
			l.logger.Infof("Found %s using selector: %s", target.Label, candidate)
			return Match{Element: el, Candidate: candidate}, nil
		}
		if ctx.Err() != nil {
			return Match{}, fmt.Errorf("locating %s: %w", target.Label, ctx.Err())
		}
		l.logger.Debugf("No %s for selector %s within %s", target.Label, candidate, l.timeout)
	}

	return Match{}, fmt.Errorf("could not find %s with any selector: %w", target.Label, entities.ErrElementNotFound)
}

// wait polls a single candidate until it matches or the timeout expires
func (l *Locator) wait(ctx context.Context, page interfaces.Page, candidate entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	deadline := time.Now().Add(l.timeout)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		el, err := page.Probe(ctx, candidate, cond)
		if err == nil {
			return el, nil
		}
		if !errors.Is(err, entities.ErrNoMatch) {
			l.logger.Debugf("Probe %s failed: %v", candidate, err)
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, entities.ErrNoMatch
		}
		next := min(l.interval, remaining)
		if timer == nil {
			timer = time.NewTimer(next)
		} else {
			timer.Reset(next)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
