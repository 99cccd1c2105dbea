// Package config provides configuration loading and validation for the AgriMRV-Lite server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment set a value.
const (
	DefaultPort              = 8080
	DefaultLogLevel          = "info"
	DefaultRecordingDuration = 3 * time.Second
	DefaultVerificationDelay = 2 * time.Second
)

// Config is the server configuration. It can be loaded from a YAML file;
// environment variables override file values.
type Config struct {
	Port        int    `yaml:"port"`
	DatabaseURL string `yaml:"database_url"`
	LogLevel    string `yaml:"log_level"`

	// Flow timing of the Farmer Input page
	RecordingDuration time.Duration `yaml:"recording_duration"`
	VerificationDelay time.Duration `yaml:"verification_delay"`

	// Mark session cookies Secure (serve behind TLS)
	SecureCookies bool `yaml:"secure_cookies"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	return &Config{
		Port:              DefaultPort,
		LogLevel:          DefaultLogLevel,
		RecordingDuration: DefaultRecordingDuration,
		VerificationDelay: DefaultVerificationDelay,
	}
}

// Load reads the optional YAML file at path (skipped when path is empty),
// applies environment overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.fillDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %v", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("RECORDING_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid RECORDING_DURATION: %v", err)
		}
		c.RecordingDuration = d
	}
	if v := os.Getenv("VERIFICATION_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid VERIFICATION_DELAY: %v", err)
		}
		c.VerificationDelay = d
	}
	if v := os.Getenv("SECURE_COOKIES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid SECURE_COOKIES: %v", err)
		}
		c.SecureCookies = b
	}
	return nil
}

func (c *Config) fillDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.RecordingDuration == 0 {
		c.RecordingDuration = DefaultRecordingDuration
	}
	if c.VerificationDelay == 0 {
		c.VerificationDelay = DefaultVerificationDelay
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config error: unknown 'log_level' %q", c.LogLevel)
	}
	if c.RecordingDuration < 0 {
		return fmt.Errorf("config error: 'recording_duration' must be positive")
	}
	if c.VerificationDelay < 0 {
		return fmt.Errorf("config error: 'verification_delay' must be positive")
	}
	return nil
}

// UseDatabase reports whether a PostgreSQL URL is configured.
func (c *Config) UseDatabase() bool {
	return c.DatabaseURL != ""
}
