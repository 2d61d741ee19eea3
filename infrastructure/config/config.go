// Package config loads run configuration from defaults, an optional YAML
// file, VOTE_* environment variables (including a .env file) and flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"vote_automation/domain/entities"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "VOTE"

// Drivers are the supported browser backends
var Drivers = []string{"playwright", "selenium", "chromedp"}

// Selenium holds chromedriver settings
type Selenium struct {
	DriverPath  string `mapstructure:"driver_path"`
	BrowserPath string `mapstructure:"browser_path"`
	Port        int    `mapstructure:"port"`
}

// Selectors holds the candidate lists for the two page targets
type Selectors struct {
	Username entities.SelectorList `mapstructure:"username"`
	Vote     entities.SelectorList `mapstructure:"vote"`
}

// Config is the full run configuration
type Config struct {
	URL   string `mapstructure:"url"`
	Name  string `mapstructure:"name"`
	Debug bool   `mapstructure:"debug"`

	Driver            string        `mapstructure:"driver"`
	Headless          bool          `mapstructure:"headless"`
	Timeout           time.Duration `mapstructure:"timeout"`
	PollInterval      time.Duration `mapstructure:"poll_interval"`
	Settle            time.Duration `mapstructure:"settle"`
	Delay             time.Duration `mapstructure:"delay"`
	NavigationTimeout time.Duration `mapstructure:"navigation_timeout"`
	UserAgent         string        `mapstructure:"user_agent"`
	NamesFile         string        `mapstructure:"names_file"`
	ProxiesFile       string        `mapstructure:"proxies_file"`
	LogLevel          string        `mapstructure:"log_level"`

	Selenium  Selenium  `mapstructure:"selenium"`
	Selectors Selectors `mapstructure:"selectors"`
}

// DefaultUsernameSelectors are tried in order to find the username field
func DefaultUsernameSelectors() entities.SelectorList {
	return entities.SelectorList{
		{By: entities.ByID, Value: "username"},
		{By: entities.ByName, Value: "username"},
		{By: entities.ByCSS, Value: "input[type='text'][name='username']"},
		{By: entities.ByCSS, Value: "input[type='text']"},
		{By: entities.ByID, Value: "user"},
		{By: entities.ByName, Value: "user"},
	}
}

// DefaultVoteSelectors are tried in order to find the vote button
func DefaultVoteSelectors() entities.SelectorList {
	return entities.SelectorList{
		{By: entities.ByID, Value: "vote"},
		{By: entities.ByName, Value: "vote"},
		{By: entities.ByCSS, Value: "button[type='submit']"},
		{By: entities.ByXPath, Value: "//button[contains(text(), 'Vote')]"},
		{By: entities.ByXPath, Value: "//button[contains(text(), 'vote')]"},
		{By: entities.ByXPath, Value: "//input[@type='submit']"},
		{By: entities.ByCSS, Value: "input[type='submit']"},
	}
}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"driver":             "driver",
	"headless":           "headless",
	"timeout":            "timeout",
	"poll-interval":      "poll_interval",
	"settle":             "settle",
	"delay":              "delay",
	"navigation-timeout": "navigation_timeout",
	"user-agent":         "user_agent",
	"names":              "names_file",
	"proxies":            "proxies_file",
	"debug":              "debug",
}

// Load - builds a Config. path may be empty, in which case ./config.yaml
// and ./config/config.yaml are tried; a missing default file is not an
// error. flags may be nil; only flags the user actually set override
// file and environment values.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("driver", "playwright")
	v.SetDefault("headless", true)
	v.SetDefault("timeout", 10*time.Second)
	v.SetDefault("poll_interval", 250*time.Millisecond)
	v.SetDefault("settle", 2*time.Second)
	v.SetDefault("delay", time.Duration(0))
	v.SetDefault("navigation_timeout", 30*time.Second)
	v.SetDefault("user_agent", "")
	v.SetDefault("names_file", "")
	v.SetDefault("proxies_file", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)

	v.SetDefault("selenium.driver_path", "")
	v.SetDefault("selenium.browser_path", "")
	v.SetDefault("selenium.port", 9515)

	v.SetDefault("selectors.username", toMaps(DefaultUsernameSelectors()))
	v.SetDefault("selectors.vote", toMaps(DefaultVoteSelectors()))
}

// toMaps renders a selector list the way it would appear in a YAML file
func toMaps(l entities.SelectorList) []map[string]any {
	out := make([]map[string]any, 0, len(l))
	for _, c := range l {
		out = append(out, map[string]any{"by": string(c.By), "value": c.Value})
	}
	return out
}

// Validate - checks the configuration before any browser is started
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}
	if c.Name == "" && c.NamesFile == "" {
		return fmt.Errorf("a username or a names file is required")
	}

	known := false
	for _, d := range Drivers {
		if c.Driver == d {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: %q (want one of %s)", entities.ErrUnknownDriver, c.Driver, strings.Join(Drivers, ", "))
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout value: %s", c.Timeout)
	}
	if c.Settle < 0 || c.Delay < 0 {
		return fmt.Errorf("settle and delay must not be negative")
	}

	if len(c.Selectors.Username) == 0 {
		return fmt.Errorf("no username selectors configured")
	}
	if err := c.Selectors.Username.Validate(); err != nil {
		return fmt.Errorf("username selectors: %w", err)
	}
	if len(c.Selectors.Vote) == 0 {
		return fmt.Errorf("no vote selectors configured")
	}
	if err := c.Selectors.Vote.Validate(); err != nil {
		return fmt.Errorf("vote selectors: %w", err)
	}
	return nil
}

// LaunchOptions - derives browser launch options from the config
func (c *Config) LaunchOptions() entities.LaunchOptions {
	return entities.LaunchOptions{
		Headless:          c.Headless,
		UserAgent:         c.UserAgent,
		NavigationTimeout: c.NavigationTimeout,
	}
}
