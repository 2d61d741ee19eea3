package terminal

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"vote_automation/infrastructure/config"

	"github.com/spf13/cobra"
)

const usageExample = `  vote 'https://example.com/vote' 'john_doe'
  vote 'https://example.com/vote' 'john_doe' 20
  vote 'https://example.com/vote' --names names.txt --proxies proxies.txt`

// NewCommand - builds the vote command
func NewCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "vote <url> [username] [timeout-seconds]",
		Short: "Fill a username field and click the vote button",
		Long: `Opens the voting page in a browser, fills the username field and clicks
the vote button. With --names every name in the file gets its own browser,
optionally rotating through the proxies in --proxies.`,
		Example:       usageExample,
		Args:          cobra.RangeArgs(1, 3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := applyArgs(cfg, args); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ti, err := NewTerminalInterface(cfg, cmd.OutOrStdout(), os.Stderr)
			if err != nil {
				return err
			}
			return ti.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml or ./config/config.yaml)")
	flags.String("driver", "playwright", "browser driver: playwright, selenium or chromedp")
	flags.Bool("headless", true, "run the browser without a window")
	flags.Duration("timeout", 10*time.Second, "how long to wait for each selector")
	flags.Duration("poll-interval", 250*time.Millisecond, "pause between checks of one selector")
	flags.Duration("settle", 2*time.Second, "wait after clicking for the vote to register")
	flags.Duration("delay", 0, "pause between votes")
	flags.Duration("navigation-timeout", 30*time.Second, "page load timeout")
	flags.String("user-agent", "", "override the browser user agent")
	flags.String("names", "", "file with one name per line")
	flags.String("proxies", "", "file with one proxy per line")
	flags.Bool("debug", false, "enable debug logging")

	return cmd
}

// applyArgs - copies positional url, username and timeout seconds into cfg
func applyArgs(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		cfg.URL = args[0]
	}
	if len(args) > 1 {
		cfg.Name = args[1]
	}
	if len(args) > 2 {
		seconds, err := strconv.Atoi(args[2])
		if err != nil || seconds <= 0 {
			return fmt.Errorf("invalid timeout value: %s", args[2])
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}
	return nil
}

// Execute - runs the vote command until it finishes or the process is
// interrupted
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewCommand().ExecuteContext(ctx)
}
