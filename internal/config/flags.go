package config

import (
	"flag"
)

// FlagError reports a command line the flag set could not parse. Invalid
// values found after all layers are merged are reported by finalizeConfig
// instead.
type FlagError struct {
	Err error
}

func (e *FlagError) Error() string {
	return e.Err.Error()
}

func (e *FlagError) Unwrap() error {
	return e.Err
}

// parseFlags defines the config flags on fs, parses args and applies every
// flag that was set explicitly. If sources is non-nil, it tracks the source
// of each applied value.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	}

	var (
		tasksFile     = cfg.TasksFile
		atomicWrite   = cfg.AtomicWrite
		logLevel      = cfg.LogLevel
		logFormat     = cfg.LogFormat
		logTimestamps = cfg.LogTimestamps
		logCaller     = cfg.LogCaller
	)

	fs.StringVar(&tasksFile, "file", tasksFile, "Path to the tasks file")
	fs.BoolVar(&atomicWrite, "atomic-write", atomicWrite, "Write the tasks file via temp file and rename")
	fs.StringVar(&logLevel, "log-level", logLevel, "Log level (debug, info, warn, error)")
	fs.StringVar(&logFormat, "log-format", logFormat, "Log format (text, json, logfmt)")
	fs.BoolVar(&logTimestamps, "log-timestamps", logTimestamps, "Show timestamps in logs")
	fs.BoolVar(&logCaller, "log-caller", logCaller, "Show caller location in logs")

	if err := fs.Parse(args); err != nil {
		return &FlagError{Err: err}
	}

	// Map flag names to source field names
	flagToSource := map[string]string{
		"file":           "tasks_file",
		"atomic-write":   "atomic_write",
		"log-level":      "log_level",
		"log-format":     "log_format",
		"log-timestamps": "log_timestamps",
		"log-caller":     "log_caller",
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "file":
			cfg.TasksFile = tasksFile
		case "atomic-write":
			cfg.AtomicWrite = atomicWrite
		case "log-level":
			cfg.LogLevel = logLevel
		case "log-format":
			cfg.LogFormat = logFormat
		case "log-timestamps":
			cfg.LogTimestamps = logTimestamps
		case "log-caller":
			cfg.LogCaller = logCaller
		}
		if sources == nil {
			return
		}
		if fieldName, ok := flagToSource[f.Name]; ok {
			sources[fieldName] = SourceFlag
		}
	})

	return nil
}
