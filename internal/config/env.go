package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by loadFromEnv.
const (
	EnvTasksFile     = "TASKTRACKER_FILE"
	EnvAtomicWrite   = "TASKTRACKER_ATOMIC_WRITE"
	EnvLogLevel      = "TASKTRACKER_LOG_LEVEL"
	EnvLogFormat     = "TASKTRACKER_LOG_FORMAT"
	EnvLogTimestamps = "TASKTRACKER_LOG_TIMESTAMPS"
	EnvLogCaller     = "TASKTRACKER_LOG_CALLER"
)

// loadFromEnv overrides config from environment variables and updates
// source tracking when sources is non-nil.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	setEnv := func(field string) {
		if sources != nil {
			sources[field] = SourceEnv
		}
	}
	envBool := func(name string, target *bool, field string) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		*target = b
		setEnv(field)
		return nil
	}

	if v := os.Getenv(EnvTasksFile); v != "" {
		cfg.TasksFile = v
		setEnv("tasks_file")
	}
	if err := envBool(EnvAtomicWrite, &cfg.AtomicWrite, "atomic_write"); err != nil {
		return err
	}

	// Logging configuration
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.LogLevel = v
		setEnv("log_level")
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.LogFormat = v
		setEnv("log_format")
	}
	if err := envBool(EnvLogTimestamps, &cfg.LogTimestamps, "log_timestamps"); err != nil {
		return err
	}
	return envBool(EnvLogCaller, &cfg.LogCaller, "log_caller")
}

// parseBool accepts the strconv forms plus yes/no and on/off.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "on":
		return true, nil
	case "no", "n", "off":
		return false, nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}
