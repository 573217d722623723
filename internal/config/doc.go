// Package config resolves tasktracker settings.
//
// A setting takes the value of the last layer that defines it. The layers,
// lowest first, are the built-in defaults, the user file, the project file,
// TASKTRACKER_* environment variables and command-line flags.
//
// The user file is ~/.tasktracker/tasktracker.toml when present, otherwise
// tasktracker/tasktracker.toml under the OS config directory
// (XDG_CONFIG_HOME, ~/Library/Application Support or %APPDATA%).
// The project file is tasktracker.toml, or .tasktracker.toml, in the working
// directory. Unknown keys in either file are an error.
//
// LoadWithSources also records which layer supplied each value, which the
// config and doctor commands print.
package config
