package voter

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"vote_automation/application/locator"
	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usernameSelectors = entities.SelectorList{
		{By: entities.ByID, Value: "username"},
		{By: entities.ByName, Value: "user"},
	}
	voteSelectors = entities.SelectorList{
		{By: entities.ByID, Value: "vote"},
		{By: entities.ByXPath, Value: "//input[@type='submit']"},
	}
)

type fakeElement struct {
	session *fakeSession
	value   string
}

func (e *fakeElement) Fill(ctx context.Context, text string) error {
	if e.session.fillErr != nil {
		return e.session.fillErr
	}
	e.session.filled = append(e.session.filled, text)
	return nil
}

func (e *fakeElement) Click(ctx context.Context) error {
	if e.session.clickErr != nil {
		return e.session.clickErr
	}
	e.session.clicked = append(e.session.clicked, e.value)
	return nil
}

type fakeSession struct {
	present     map[entities.SelectorCandidate]bool
	navigateErr error
	fillErr     error
	clickErr    error

	navigated []string
	filled    []string
	clicked   []string
	closes    int
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.navigated = append(s.navigated, url)
	return s.navigateErr
}

func (s *fakeSession) Probe(ctx context.Context, c entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	if !s.present[c] {
		return nil, entities.ErrNoMatch
	}
	return &fakeElement{session: s, value: c.Value}, nil
}

func (s *fakeSession) Close() error {
	s.closes++
	return nil
}

type fakeLauncher struct {
	mu        sync.Mutex
	newSess   func() *fakeSession
	sessions  []*fakeSession
	launches  []entities.LaunchOptions
	launchErr error
}

func (l *fakeLauncher) Launch(ctx context.Context, opts entities.LaunchOptions) (interfaces.Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.launches = append(l.launches, opts)
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	s := l.newSess()
	l.sessions = append(l.sessions, s)
	return s, nil
}

func pageWith(candidates ...entities.SelectorCandidate) func() *fakeSession {
	return func() *fakeSession {
		present := make(map[entities.SelectorCandidate]bool)
		for _, c := range candidates {
			present[c] = true
		}
		return &fakeSession{present: present}
	}
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type pauseRecorder struct {
	calls []time.Duration
}

func (p *pauseRecorder) pause(ctx context.Context, d time.Duration) error {
	p.calls = append(p.calls, d)
	return ctx.Err()
}

func newTestVoter(l interfaces.Launcher, pauses *pauseRecorder) *Voter {
	loc := locator.New(quietLogger(), locator.WithTimeout(5*time.Millisecond), locator.WithPollInterval(time.Millisecond))
	return NewVoter(l, loc, quietLogger(), Options{
		Launch:  entities.LaunchOptions{Headless: true, UserAgent: "test-agent"},
		Targets: NewTargets(usernameSelectors, voteSelectors),
		Settle:  2 * time.Second,
		Pause:   pauses.pause,
	})
}

func TestVoteSuccess(t *testing.T) {
	launcher := &fakeLauncher{newSess: pageWith(usernameSelectors[1], voteSelectors[0])}
	pauses := &pauseRecorder{}
	v := newTestVoter(launcher, pauses)

	err := v.Vote(context.Background(), entities.VoteTask{URL: "https://example.com/vote", Name: "john_doe"})
	require.NoError(t, err)

	require.Len(t, launcher.sessions, 1)
	s := launcher.sessions[0]
	assert.Equal(t, []string{"https://example.com/vote"}, s.navigated)
	assert.Equal(t, []string{"john_doe"}, s.filled)
	assert.Equal(t, []string{"vote"}, s.clicked)
	assert.Equal(t, 1, s.closes)
	assert.Equal(t, []time.Duration{2 * time.Second}, pauses.calls)
}

func TestVotePassesProxyToLauncher(t *testing.T) {
	launcher := &fakeLauncher{newSess: pageWith(usernameSelectors[0], voteSelectors[0])}
	v := newTestVoter(launcher, &pauseRecorder{})

	proxy := &entities.Proxy{Server: "http://10.0.0.1:8080"}
	require.NoError(t, v.Vote(context.Background(), entities.VoteTask{URL: "u", Name: "n", Proxy: proxy}))

	require.Len(t, launcher.launches, 1)
	assert.Equal(t, proxy, launcher.launches[0].Proxy)
	assert.True(t, launcher.launches[0].Headless)
	assert.Equal(t, "test-agent", launcher.launches[0].UserAgent)
}

func TestVoteClosesSessionExactlyOnce(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		session func() *fakeSession
		wantErr error
		filled  int
		clicked int
	}{
		{
			name:    "navigation fails",
			session: func() *fakeSession { s := pageWith()(); s.navigateErr = boom; return s },
			wantErr: boom,
		},
		{
			name:    "username field missing",
			session: pageWith(voteSelectors[0]),
			wantErr: entities.ErrElementNotFound,
		},
		{
			name:    "fill fails",
			session: func() *fakeSession { s := pageWith(usernameSelectors[0])(); s.fillErr = boom; return s },
			wantErr: boom,
		},
		{
			name:    "vote button missing",
			session: pageWith(usernameSelectors[0]),
			wantErr: entities.ErrElementNotFound,
			filled:  1,
		},
		{
			name: "click fails",
			session: func() *fakeSession {
				s := pageWith(usernameSelectors[0], voteSelectors[1])()
				s.clickErr = boom
				return s
			},
			wantErr: boom,
			filled:  1,
		},
		{
			name:    "success",
			session: pageWith(usernameSelectors[0], voteSelectors[1]),
			filled:  1,
			clicked: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			launcher := &fakeLauncher{newSess: tt.session}
			v := newTestVoter(launcher, &pauseRecorder{})

			err := v.Vote(context.Background(), entities.VoteTask{URL: "https://example.com", Name: "jane"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}

			require.Len(t, launcher.sessions, 1)
			s := launcher.sessions[0]
			assert.Equal(t, 1, s.closes)
			assert.Len(t, s.filled, tt.filled)
			assert.Len(t, s.clicked, tt.clicked)
		})
	}
}

func TestVoteLaunchFailure(t *testing.T) {
	launcher := &fakeLauncher{launchErr: errors.New("chromium not installed")}
	v := newTestVoter(launcher, &pauseRecorder{})

	err := v.Vote(context.Background(), entities.VoteTask{URL: "u", Name: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start browser")
	assert.Empty(t, launcher.sessions)
}

func TestVoteErrorNamesTheStep(t *testing.T) {
	launcher := &fakeLauncher{newSess: pageWith(usernameSelectors[0])}
	v := newTestVoter(launcher, &pauseRecorder{})

	err := v.Vote(context.Background(), entities.VoteTask{URL: "u", Name: "n"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to click vote button")
	assert.Contains(t, err.Error(), "vote button")
}
