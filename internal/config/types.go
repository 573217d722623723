package config

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource

	// Files lists the config files that were read, lowest priority first.
	Files []string
}

// Default values.
const (
	DefaultTasksFile   = "tasks.json"
	DefaultAtomicWrite = true
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = "text"
)

// Config holds the full configuration for tasktracker.
type Config struct {
	// Task file, relative to the project root unless absolute.
	TasksFile string `toml:"tasks_file"`

	// Write the task file through a temp file and rename.
	AtomicWrite bool `toml:"atomic_write"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`

	// Project root (computed)
	ProjectRoot string `toml:"-"`
}

// Fields returns the configurable keys in display order.
func Fields() []string {
	return []string{
		"tasks_file",
		"atomic_write",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// Value returns the string form of the named config key.
func (c *Config) Value(field string) string {
	switch field {
	case "tasks_file":
		return c.TasksFile
	case "atomic_write":
		return formatBool(c.AtomicWrite)
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return formatBool(c.LogTimestamps)
	case "log_caller":
		return formatBool(c.LogCaller)
	default:
		return ""
	}
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
