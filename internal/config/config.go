// Package config loads ptyrun configuration from a YAML file, PTYRUN_*
// environment variables and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/PiranhaCodes/ptyrun/internal/logger"
)

// Config holds all configuration sections.
type Config struct {
	Logging logger.LoggingConfig `mapstructure:"logging"`
	Session SessionConfig        `mapstructure:"session"`
}

// SessionConfig controls a single interactive session.
type SessionConfig struct {
	KeyEncoding     string `mapstructure:"keyEncoding"`     // control or literal
	SettleTimeoutMs int    `mapstructure:"settleTimeoutMs"` // output drain / reap grace after exit
	ExpectedRuntime int    `mapstructure:"expectedRuntime"` // seconds, advisory only
	TranscriptDir   string `mapstructure:"transcriptDir"`   // empty disables transcripts
}

// SettleTimeout returns the settle grace as a time.Duration.
func (s *SessionConfig) SettleTimeout() time.Duration {
	return time.Duration(s.SettleTimeoutMs) * time.Millisecond
}

// ExpectedRuntimeDuration returns the expected runtime as a time.Duration.
func (s *SessionConfig) ExpectedRuntimeDuration() time.Duration {
	return time.Duration(s.ExpectedRuntime) * time.Second
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.outputPath", "stderr")

	v.SetDefault("session.keyEncoding", "control")
	v.SetDefault("session.settleTimeoutMs", 2000)
	v.SetDefault("session.expectedRuntime", 30)
	v.SetDefault("session.transcriptDir", "")
}

// Load reads configuration from path (when it exists), the environment and
// defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PTYRUN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not map camelCase keys to SNAKE_CASE.
	_ = v.BindEnv("logging.outputPath", "PTYRUN_LOGGING_OUTPUT_PATH")
	_ = v.BindEnv("session.keyEncoding", "PTYRUN_SESSION_KEY_ENCODING")
	_ = v.BindEnv("session.settleTimeoutMs", "PTYRUN_SESSION_SETTLE_TIMEOUT_MS")
	_ = v.BindEnv("session.expectedRuntime", "PTYRUN_SESSION_EXPECTED_RUNTIME")
	_ = v.BindEnv("session.transcriptDir", "PTYRUN_SESSION_TRANSCRIPT_DIR")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	var errs []string

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, "logging.format must be one of: json, text")
	}

	validEncodings := map[string]bool{"control": true, "literal": true}
	if !validEncodings[strings.ToLower(cfg.Session.KeyEncoding)] {
		errs = append(errs, "session.keyEncoding must be one of: control, literal")
	}
	if cfg.Session.SettleTimeoutMs < 0 {
		errs = append(errs, "session.settleTimeoutMs must not be negative")
	}
	if cfg.Session.ExpectedRuntime <= 0 {
		errs = append(errs, "session.expectedRuntime must be positive")
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
