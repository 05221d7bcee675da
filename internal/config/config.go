package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// PathEnv names the environment variable holding an optional YAML config file.
const PathEnv = "DESKCALC_CONFIG"

// Config is the service configuration.
type Config struct {
	Addr            string          `yaml:"addr"`
	LogLevel        string          `yaml:"log_level"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout"`
	Sessions        SessionsConfig  `yaml:"sessions"`
	Telemetry       TelemetryConfig `yaml:"telemetry"`
}

// SessionsConfig bounds the calculator session store.
type SessionsConfig struct {
	TTL           time.Duration `yaml:"ttl"`            // Idle time before a session is swept.
	MaxSessions   int           `yaml:"max_sessions"`   // Upper bound on live sessions.
	SweepInterval time.Duration `yaml:"sweep_interval"` // How often idle sessions are swept.
}

// TelemetryConfig toggles the OTLP exporters. Exporter endpoints come from the
// standard OTEL_EXPORTER_OTLP_* variables.
type TelemetryConfig struct {
	Traces  bool `yaml:"traces"`
	Metrics bool `yaml:"metrics"`
	Logs    bool `yaml:"logs"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Addr:            ":8080",
		LogLevel:        "info",
		ShutdownTimeout: 5 * time.Second,
		Sessions: SessionsConfig{
			TTL:           30 * time.Minute,
			MaxSessions:   10000,
			SweepInterval: time.Minute,
		},
		Telemetry: TelemetryConfig{
			Traces:  true,
			Metrics: true,
		},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// DESKCALC_CONFIG (if set), and DESKCALC_* environment overrides, in that
// order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv(PathEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// loadFile overlays the YAML file onto cfg. ${VAR} references are expanded
// before parsing.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = d
		return nil
	}
	integer := func(key string, dst *int) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
		return nil
	}
	boolean := func(key string, dst *bool) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = b
		return nil
	}

	str("DESKCALC_ADDR", &c.Addr)
	str("DESKCALC_LOG_LEVEL", &c.LogLevel)

	return errors.Join(
		dur("DESKCALC_SHUTDOWN_TIMEOUT", &c.ShutdownTimeout),
		dur("DESKCALC_SESSION_TTL", &c.Sessions.TTL),
		dur("DESKCALC_SWEEP_INTERVAL", &c.Sessions.SweepInterval),
		integer("DESKCALC_MAX_SESSIONS", &c.Sessions.MaxSessions),
		boolean("DESKCALC_OTEL_TRACES", &c.Telemetry.Traces),
		boolean("DESKCALC_OTEL_METRICS", &c.Telemetry.Metrics),
		boolean("DESKCALC_OTEL_LOGS", &c.Telemetry.Logs),
	)
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr must not be empty"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout must be positive"))
	}
	if c.Sessions.TTL <= 0 {
		errs = append(errs, errors.New("sessions.ttl must be positive"))
	}
	if c.Sessions.MaxSessions <= 0 {
		errs = append(errs, errors.New("sessions.max_sessions must be positive"))
	}
	if c.Sessions.SweepInterval <= 0 {
		errs = append(errs, errors.New("sessions.sweep_interval must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
