package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/lukehollenback/walutomat/constants"
	"gopkg.in/yaml.v3"
)

const (
	BaseURLEnv = "WT_BASE_URL"
	KeyEnv     = "WT_KEY"
	SecretEnv  = "WT_SECRET"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Poller  PollerConfig  `yaml:"poller"`
	Logging LoggingConfig `yaml:"logging"`
}

//
// APIConfig holds the credentials. Key and secret are normally left out of the file and provided
// through the environment (or a .env file) instead.
//
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Key     string        `yaml:"key"`
	Secret  string        `yaml:"secret"`
	Timeout time.Duration `yaml:"timeout"`
}

type PollerConfig struct {
	Currencies  []string      `yaml:"currencies"`
	Interval    time.Duration `yaml:"interval"`
	Window      int           `yaml:"window"`
	HeaderEvery int           `yaml:"header_every"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
	MaxAge int    `yaml:"max_age"`
}

//
// Default returns the configuration used when no file is given.
//
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: constants.DefaultBaseURL,
			Timeout: 10 * time.Second,
		},
		Poller: PollerConfig{
			Currencies:  constants.DefaultCurrencies(),
			Interval:    constants.DefaultPollInterval,
			Window:      constants.DefaultWindow,
			HeaderEvery: constants.HeaderEvery,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
	}
}

//
// LoadConfig reads the YAML file at the provided path on top of the defaults, applies the
// environment overrides and validates the result. An empty path skips the file.
//
func LoadConfig(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyEnv(config)

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(BaseURLEnv); v != "" {
		cfg.API.BaseURL = strings.TrimSpace(v)
	}
	if v := os.Getenv(KeyEnv); v != "" {
		cfg.API.Key = strings.TrimSpace(v)
	}
	if v := os.Getenv(SecretEnv); v != "" {
		cfg.API.Secret = strings.TrimSpace(v)
	}

	for i, c := range cfg.Poller.Currencies {
		cfg.Poller.Currencies[i] = strings.ToUpper(strings.TrimSpace(c))
	}
}

func validateConfig(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url '%s' is not an absolute URL", cfg.API.BaseURL)
	}

	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if len(cfg.Poller.Currencies) < 2 {
		return fmt.Errorf("poller.currencies must list at least two currencies")
	}

	seen := make(map[string]bool, len(cfg.Poller.Currencies))
	for _, c := range cfg.Poller.Currencies {
		if len(c) != 3 {
			return fmt.Errorf("poller.currencies entry '%s' is not a three-letter code", c)
		}
		if seen[c] {
			return fmt.Errorf("poller.currencies lists '%s' twice", c)
		}
		seen[c] = true
	}

	if cfg.Poller.Interval <= 0 {
		return fmt.Errorf("poller.interval must be greater than 0")
	}

	if cfg.Poller.Window <= 0 {
		return fmt.Errorf("poller.window must be greater than 0")
	}

	if cfg.Poller.HeaderEvery <= 0 {
		return fmt.Errorf("poller.header_every must be greater than 0")
	}

	return nil
}
