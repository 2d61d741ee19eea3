package terminal

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vote_automation/application/voter"
	"vote_automation/domain/entities"
	"vote_automation/domain/interfaces"
	"vote_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubElement struct{}

func (stubElement) Fill(ctx context.Context, text string) error { return nil }
func (stubElement) Click(ctx context.Context) error             { return nil }

// stubSession matches every selector when the page has a form
type stubSession struct {
	hasForm bool
	closed  *int
}

func (s *stubSession) Navigate(ctx context.Context, url string) error { return nil }

func (s *stubSession) Probe(ctx context.Context, c entities.SelectorCandidate, cond entities.Condition) (interfaces.Element, error) {
	if !s.hasForm {
		return nil, entities.ErrNoMatch
	}
	return stubElement{}, nil
}

func (s *stubSession) Close() error {
	*s.closed++
	return nil
}

type stubLauncher struct {
	noForm  bool
	proxies []string
	closed  int
}

func (l *stubLauncher) Launch(ctx context.Context, opts entities.LaunchOptions) (interfaces.Session, error) {
	if opts.Proxy != nil {
		l.proxies = append(l.proxies, opts.Proxy.Server)
	}
	return &stubSession{hasForm: !l.noForm, closed: &l.closed}, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	cfg.URL = "https://example.com/vote"
	cfg.Name = "john_doe"
	cfg.Timeout = 5 * time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.Settle = 0
	require.NoError(t, cfg.Validate())
	return cfg
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRunSingleName(t *testing.T) {
	cfg := testConfig(t)
	launcher := &stubLauncher{}
	var out bytes.Buffer

	ti := newTerminalInterface(cfg, launcher, quietLogger(), &out, voter.Sleep, voter.Sleep)
	require.NoError(t, ti.Run(context.Background()))

	assert.Contains(t, out.String(), "Vote Automation Script")
	assert.Contains(t, out.String(), "URL: https://example.com/vote")
	assert.Contains(t, out.String(), "Username: john_doe")
	assert.Equal(t, 1, launcher.closed)
}

func TestRunNamesAndProxies(t *testing.T) {
	dir := t.TempDir()
	namesPath := filepath.Join(dir, "names.txt")
	proxiesPath := filepath.Join(dir, "proxies.txt")
	require.NoError(t, os.WriteFile(namesPath, []byte("name1\nname2\nname3\n"), 0644))
	require.NoError(t, os.WriteFile(proxiesPath, []byte("proxy1:8080\nproxy2:8080\n"), 0644))

	cfg := testConfig(t)
	cfg.Name = ""
	cfg.NamesFile = namesPath
	cfg.ProxiesFile = proxiesPath

	launcher := &stubLauncher{}
	var out bytes.Buffer
	ti := newTerminalInterface(cfg, launcher, quietLogger(), &out, voter.Sleep, voter.Sleep)
	require.NoError(t, ti.Run(context.Background()))

	assert.Equal(t, []string{"http://proxy1:8080", "http://proxy2:8080", "http://proxy1:8080"}, launcher.proxies)
	assert.Equal(t, 3, launcher.closed)
	assert.Contains(t, out.String(), "Names: 3 from")
	assert.Contains(t, out.String(), "Proxies: 2 from")
}

func TestRunWarnsWhenNamesFileOverridesName(t *testing.T) {
	namesPath := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(namesPath, []byte("name1\nname2\n"), 0644))

	cfg := testConfig(t)
	cfg.NamesFile = namesPath

	var logs bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&logs)

	launcher := &stubLauncher{}
	ti := newTerminalInterface(cfg, launcher, logger, io.Discard, voter.Sleep, voter.Sleep)
	require.NoError(t, ti.Run(context.Background()))

	assert.Contains(t, logs.String(), "Ignoring username")
	assert.Contains(t, logs.String(), "john_doe")
	assert.Equal(t, 2, launcher.closed)
}

func TestRunUsesDelayPauseBetweenVotes(t *testing.T) {
	namesPath := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(namesPath, []byte("name1\nname2\n"), 0644))

	cfg := testConfig(t)
	cfg.Name = ""
	cfg.NamesFile = namesPath
	cfg.Settle = time.Second
	cfg.Delay = 3 * time.Second

	var settles, delays []time.Duration
	record := func(into *[]time.Duration) voter.PauseFunc {
		return func(ctx context.Context, d time.Duration) error {
			*into = append(*into, d)
			return nil
		}
	}

	ti := newTerminalInterface(cfg, &stubLauncher{}, quietLogger(), io.Discard, record(&settles), record(&delays))
	require.NoError(t, ti.Run(context.Background()))

	assert.Equal(t, []time.Duration{time.Second, time.Second}, settles)
	assert.Equal(t, []time.Duration{3 * time.Second}, delays)
}

func TestRunReportsFailure(t *testing.T) {
	cfg := testConfig(t)
	launcher := &stubLauncher{noForm: true}

	ti := newTerminalInterface(cfg, launcher, quietLogger(), io.Discard, voter.Sleep, voter.Sleep)
	err := ti.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 votes failed")
	assert.Equal(t, 1, launcher.closed)
}

func TestNewLoggerLevels(t *testing.T) {
	cfg := &config.Config{LogLevel: "warn"}
	logger, err := newLogger(cfg, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, logger.GetLevel())

	cfg.Debug = true
	logger, err = newLogger(cfg, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	_, err = newLogger(&config.Config{LogLevel: "loud"}, io.Discard)
	assert.Error(t, err)
}
