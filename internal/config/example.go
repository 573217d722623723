package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktracker configuration file
# Values can be overridden by TASKTRACKER_* environment variables or CLI flags

# Tasks file (relative to the working directory; supports ~ and $VAR expansion)
tasks_file = "tasks.json"

# Write the tasks file through a temp file and an atomic rename
atomic_write = true

# Diagnostic logging (written to stderr)
# log_level: debug, info, warn, error
log_level = "warn"
# log_format: text, json, logfmt
log_format = "text"
log_timestamps = false
log_caller = false
`
}
