// Package cmd implements the CLI command structure for tasktracker.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktracker/internal/config"
	"github.com/nibzard/tasktracker/internal/logging"
	"github.com/nibzard/tasktracker/internal/service"
	"github.com/nibzard/tasktracker/internal/store"
	"github.com/nibzard/tasktracker/internal/task"
	"github.com/nibzard/tasktracker/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// ErrorPrefix starts every error line written to stderr.
const ErrorPrefix = "[ERROR] "

// UsageError reports a malformed command line. Its message is shown to the
// user as is.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// Run executes the tasktracker CLI against the process's standard streams.
func Run(ctx context.Context, args []string) error {
	return Execute(ctx, args, os.Stdout, os.Stderr)
}

// Execute runs one command. Command output goes to stdout; user errors are
// reported on stderr and do not produce an error return. Storage and
// configuration failures are returned to the caller.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasktracker", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		var flagErr *config.FlagError
		if errors.As(err, &flagErr) {
			fmt.Fprintf(stderr, "%s%s\n", ErrorPrefix, flagErr)
			fmt.Fprintf(stderr, "%sRun 'tasktracker help' for usage.\n", ErrorPrefix)
			return nil
		}
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		printUsage(fs, stdout)
		return nil
	}

	cfg := cws.Config
	logger := logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	a := &app{
		cws:    cws,
		logger: logger,
		stdout: stdout,
		stderr: stderr,
	}
	repo := store.NewFileRepository(cfg.TasksFile,
		store.WithAtomicWrite(cfg.AtomicWrite),
		store.WithLogger(logger),
	)
	a.svc = service.New(repo, service.WithLogger(logger))

	command, cmdArgs := remaining[0], remaining
	logger.Debug("dispatching command", "command", command, "tasks_file", cfg.TasksFile)

	switch command {
	case "add":
		err = a.add(cmdArgs)
	case "update":
		err = a.update(cmdArgs)
	case "delete":
		err = a.delete(cmdArgs)
	case "mark-in-progress":
		err = a.mark(cmdArgs, task.StatusInProgress)
	case "mark-done":
		err = a.mark(cmdArgs, task.StatusDone)
	case "list":
		err = a.list(cmdArgs)
	case "doctor":
		err = a.doctor(cmdArgs[1:])
	case "config":
		err = a.config(cmdArgs[1:])
	case "board":
		err = ui.RunBoard(ctx, a.svc, cfg.TasksFile, ui.WithOutput(stdout))
	case "version":
		err = versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
	default:
		fmt.Fprintf(stderr, "%sUnknown command: %s\n", ErrorPrefix, command)
		printUsage(fs, stderr)
	}
	return a.report(err)
}

// app carries the per-invocation dependencies of the command handlers.
type app struct {
	cws    *config.ConfigWithSources
	svc    *service.Service
	logger *log.Logger
	stdout io.Writer
	stderr io.Writer
}

// report prints user errors to stderr and swallows them. Any other error
// is returned for the caller to handle.
func (a *app) report(err error) error {
	if err == nil {
		return nil
	}
	var (
		usageErr  *UsageError
		notFound  *service.NotFoundError
		badStatus *task.InvalidStatusError
	)
	switch {
	case errors.As(err, &usageErr),
		errors.As(err, &notFound),
		errors.As(err, &badStatus):
		fmt.Fprintf(a.stderr, "%s%s\n", ErrorPrefix, err)
		return nil
	case errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrInvalidDescription):
		fmt.Fprintf(a.stderr, "%s%s\n", ErrorPrefix, sentence(err.Error()))
		return nil
	}
	a.logger.Debug("command failed", "err", err)
	return err
}

func (a *app) add(args []string) error {
	if len(args) < 2 {
		return &UsageError{Msg: "Missing description for add command."}
	}
	created, err := a.svc.AddTask(args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Created task with id %d\n", created.ID)
	return nil
}

func (a *app) update(args []string) error {
	if len(args) < 3 {
		return &UsageError{Msg: `Usage: update <id> "new description"`}
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	if _, err := a.svc.UpdateDescription(id, args[2]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated task %d\n", id)
	return nil
}

func (a *app) delete(args []string) error {
	if len(args) < 2 {
		return &UsageError{Msg: "Usage: delete <id>"}
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	if err := a.svc.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Deleted task %d\n", id)
	return nil
}

func (a *app) mark(args []string, status task.Status) error {
	if len(args) < 2 {
		return &UsageError{Msg: fmt.Sprintf("Usage: %s <id>", args[0])}
	}
	id, err := parseID(args[1])
	if err != nil {
		return err
	}
	var updated task.Task
	if status == task.StatusDone {
		updated, err = a.svc.MarkDone(id)
	} else {
		updated, err = a.svc.MarkInProgress(id)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Task %d is now %s\n", updated.ID, updated.Status)
	return nil
}

func (a *app) list(args []string) error {
	var (
		tasks []task.Task
		err   error
	)
	if len(args) >= 2 {
		status, parseErr := task.ParseStatus(args[1])
		if parseErr != nil {
			return parseErr
		}
		tasks, err = a.svc.ListByStatus(status)
	} else {
		tasks, err = a.svc.GetAllTasks()
	}
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Fprintln(a.stdout, "No tasks.")
		return nil
	}
	for _, t := range tasks {
		fmt.Fprintln(a.stdout, t.String())
	}
	return nil
}

// sentence capitalizes msg and ends it with a period.
func sentence(msg string) string {
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:] + "."
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, &UsageError{Msg: "Invalid task id: " + arg}
	}
	return id, nil
}

// versionCommand prints version information.
func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktracker version %s (%s, %s/%s)\n", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktracker - track personal tasks in a JSON file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktracker [options] <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, `  add "description"               Add a new task`)
	fmt.Fprintln(w, `  update <id> "new description"   Change a task's description`)
	fmt.Fprintln(w, "  delete <id>                     Delete a task")
	fmt.Fprintln(w, "  mark-in-progress <id>           Mark a task as in progress")
	fmt.Fprintln(w, "  mark-done <id>                  Mark a task as done")
	fmt.Fprintln(w, "  list [todo|in-progress|done]    List tasks, optionally by status")
	fmt.Fprintln(w, "  board                           Open the interactive task board")
	fmt.Fprintln(w, "  doctor                          Check config and tasks file validity")
	fmt.Fprintln(w, "  config [-example]               Show effective configuration")
	fmt.Fprintln(w, "  version                         Show version information")
	fmt.Fprintln(w, "  help                            Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
}
