package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"

	"github.com/dshills/cascade/internal/logging"
)

// Config holds process-wide settings.
type Config struct {
	// LogLevel is a logrus level name.
	LogLevel string `env:"CASCADE_LOG_LEVEL" envDefault:"info"`

	// LogFormat is "text" or "json".
	LogFormat string `env:"CASCADE_LOG_FORMAT" envDefault:"text"`

	// RecoverPanics converts subscriber panics into errors.
	RecoverPanics bool `env:"CASCADE_RECOVER_PANICS" envDefault:"false"`

	// NoColor disables colored output.
	NoColor bool `env:"CASCADE_NO_COLOR" envDefault:"false"`
}

// Load parses the environment into a Config and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks that every field holds a supported value.
func (c Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return &ValidationError{Field: "CASCADE_LOG_LEVEL", Value: c.LogLevel, Message: "unknown log level"}
	}
	switch c.LogFormat {
	case logging.FormatText, logging.FormatJSON:
	default:
		return &ValidationError{
			Field:   "CASCADE_LOG_FORMAT",
			Value:   c.LogFormat,
			Message: fmt.Sprintf("must be %s or %s", logging.FormatText, logging.FormatJSON),
		}
	}
	return nil
}

// LoggingOptions returns the logger options described by c.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:   c.LogLevel,
		Format:  c.LogFormat,
		NoColor: c.NoColor,
	}
}
