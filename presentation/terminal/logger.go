package terminal

import (
	"fmt"
	"io"

	"vote_automation/infrastructure/config"

	"github.com/sirupsen/logrus"
)

// newLogger - builds the logrus logger all components share
func newLogger(cfg *config.Config, out io.Writer) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(out)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	level := logrus.InfoLevel
	if cfg.LogLevel != "" {
		parsed, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level: %w", err)
		}
		level = parsed
	}
	if cfg.Debug {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)

	return logger, nil
}
