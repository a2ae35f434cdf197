package config

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from an optional YAML file, loads a local .env
// file if present, and applies environment variable overrides. Grounded on
// internal/config/config.go's Load/defaultConfig/parseFile shape.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // optional; fine if no .env file exists

	cfg := defaultConfig()

	if path != "" {
		if err := cfg.parseFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address:          ":8402",
			ReadTimeout:      Duration{Duration: 15 * time.Second},
			WriteTimeout:     Duration{Duration: 30 * time.Second},
			IdleTimeout:      Duration{Duration: 60 * time.Second},
			DiscoveryTimeout: Duration{Duration: 5 * time.Second},
			VerifyTimeout:    Duration{Duration: 10 * time.Second},
			SettleTimeout:    Duration{Duration: 30 * time.Second},
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			Environment: "production",
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
		RateLimit: RateLimitConfig{
			GlobalEnabled: true,
			GlobalLimit:   600,
			GlobalWindow:  Duration{Duration: time.Minute},
		},
		CircuitBreaker: CircuitBreakerConfig{
			Enabled:             true,
			MaxRequests:         3,
			Interval:            Duration{Duration: 60 * time.Second},
			Timeout:             Duration{Duration: 30 * time.Second},
			ConsecutiveFailures: 5,
			FailureRatio:        0.5,
			MinRequests:         10,
		},
	}
}

func (c *Config) parseFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}
