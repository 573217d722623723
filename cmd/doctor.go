package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nibzard/tasktracker/internal/config"
	"github.com/nibzard/tasktracker/internal/store"
)

// errDoctorFailed is returned when at least one doctor check fails.
var errDoctorFailed = errors.New("doctor checks failed")

// doctor checks the configuration and the tasks file.
func (a *app) doctor(args []string) error {
	fs := flag.NewFlagSet("tasktracker doctor", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Msg: fmt.Sprintf("Usage: doctor [-v] (%v)", err)}
	}

	cfg := a.cws.Config
	w := a.stdout
	fmt.Fprintln(w, "tasktracker doctor")
	fmt.Fprintln(w, "==================")
	fmt.Fprintln(w)

	allOK := true

	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  ✅ Config file: %s\n", file)
	} else {
		fmt.Fprintln(w, "  ✅ Config file: none (using defaults)")
	}
	fmt.Fprintf(w, "  ✅ Log level: %s (%s)\n", cfg.LogLevel, a.cws.Sources["log_level"])
	fmt.Fprintf(w, "  ✅ Atomic write: %t (%s)\n", cfg.AtomicWrite, a.cws.Sources["atomic_write"])
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Tasks file: %s\n", cfg.TasksFile)
	dir := filepath.Dir(cfg.TasksFile)
	if info, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(w, "  ⚠️  Directory not found (will be created on first write)")
		} else {
			fmt.Fprintf(w, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  ❌ Error: %s is not a directory\n", dir)
		allOK = false
	}

	result, err := store.Validate(cfg.TasksFile)
	switch {
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		allOK = false
	case !result.Exists:
		fmt.Fprintln(w, "  ⚠️  Not found (will be created by the first add)")
	case result.Valid:
		fmt.Fprintf(w, "  ✅ Valid (%d tasks)\n", result.Tasks)
		if *verbose {
			tasks, err := a.svc.GetAllTasks()
			if err != nil {
				fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
				allOK = false
			}
			for _, t := range tasks {
				fmt.Fprintf(w, "    - %s\n", t)
			}
		}
	default:
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		allOK = false
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed. tasktracker may not function correctly.")
	return errDoctorFailed
}

// config prints the effective configuration with the source of each value.
func (a *app) config(args []string) error {
	fs := flag.NewFlagSet("tasktracker config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	example := fs.Bool("example", false, "Print an example config file")
	if err := fs.Parse(args); err != nil {
		return &UsageError{Msg: fmt.Sprintf("Usage: config [-example] (%v)", err)}
	}
	if *example {
		fmt.Fprint(a.stdout, config.ExampleConfig())
		return nil
	}

	for _, field := range config.Fields() {
		fmt.Fprintf(a.stdout, "%-15s = %-30s (%s)\n", field, a.cws.Config.Value(field), a.cws.Sources[field])
	}
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(a.stdout, "\nconfig file: %s\n", file)
	}
	return nil
}
