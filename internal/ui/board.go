// Package ui provides the optional terminal task board.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasktracker/internal/task"
	"github.com/nibzard/tasktracker/internal/utils"
)

// DefaultRefreshInterval is how often the board re-reads the task file.
const DefaultRefreshInterval = time.Second

// TaskLister supplies the tasks shown on the board.
type TaskLister interface {
	GetAllTasks() ([]task.Task, error)
}

// BoardOption configures the board.
type BoardOption func(*boardModel)

// WithRefreshInterval sets how often the board reloads tasks.
func WithRefreshInterval(d time.Duration) BoardOption {
	return func(m *boardModel) {
		if d > 0 {
			m.tickInterval = d
		}
	}
}

// WithOutput sets the terminal the board draws on. Defaults to os.Stdout.
func WithOutput(w io.Writer) BoardOption {
	return func(m *boardModel) {
		if w != nil {
			m.output = w
		}
	}
}

// RunBoard starts the read-only task board. It never modifies tasks.
func RunBoard(ctx context.Context, lister TaskLister, tasksPath string, opts ...BoardOption) error {
	model := newBoardModel(lister, tasksPath, opts...)
	if !IsTTY(model.output) {
		return fmt.Errorf("board requires a TTY")
	}
	program := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithOutput(model.output),
	)
	_, err := program.Run()
	return err
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headingStyle = lipgloss.NewStyle().Bold(true)
	footerStyle  = lipgloss.NewStyle().Faint(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	statusStyles = map[task.Status]lipgloss.Style{
		task.StatusTodo:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		task.StatusInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		task.StatusDone:       lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

type boardModel struct {
	lister       TaskLister
	tasksPath    string
	tasks        []task.Task
	loadErr      error
	loaded       bool
	filter       task.Status
	showHelp     bool
	width        int
	tickInterval time.Duration
	output       io.Writer
}

type tickMsg time.Time

func newBoardModel(lister TaskLister, tasksPath string, opts ...BoardOption) *boardModel {
	m := &boardModel{
		lister:       lister,
		tasksPath:    tasksPath,
		tickInterval: DefaultRefreshInterval,
		output:       os.Stdout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *boardModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "r", "f5":
			m.refresh()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "1":
			m.filter = task.StatusTodo
		case "2":
			m.filter = task.StatusInProgress
		case "3":
			m.filter = task.StatusDone
		case "0":
			m.filter = ""
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *boardModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Task Board") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		m.writeFooter(&b)
		return b.String()
	}

	if m.loadErr != nil {
		b.WriteString(errorStyle.Render("Error loading tasks:") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}
	if !m.loaded {
		b.WriteString("Loading...\n\n")
		m.writeFooter(&b)
		return b.String()
	}

	m.writeOverview(&b)
	m.writeTasks(&b)
	m.writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh keeps the last good task list when a reload fails.
func (m *boardModel) refresh() {
	tasks, err := m.lister.GetAllTasks()
	if err != nil {
		m.loadErr = err
		return
	}
	m.loadErr = nil
	m.loaded = true
	m.tasks = tasks
}

// visible returns the tasks that pass the active filter, in ID order.
func (m *boardModel) visible() []task.Task {
	if m.filter == "" {
		return m.tasks
	}
	out := make([]task.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.Status == m.filter {
			out = append(out, t)
		}
	}
	return out
}

func (m *boardModel) writeOverview(b *strings.Builder) {
	counts := make(map[task.Status]int, 3)
	for _, t := range m.tasks {
		counts[t.Status]++
	}
	b.WriteString(headingStyle.Render("Overview") + "\n\n")
	fmt.Fprintf(b, "  Todo: %d  In progress: %d  Done: %d  Total: %d\n\n",
		counts[task.StatusTodo],
		counts[task.StatusInProgress],
		counts[task.StatusDone],
		len(m.tasks),
	)
}

func (m *boardModel) writeTasks(b *strings.Builder) {
	heading := "Tasks"
	if m.filter != "" {
		heading = fmt.Sprintf("Tasks (%s, 0 to clear)", m.filter)
	}
	b.WriteString(headingStyle.Render(heading) + "\n\n")

	tasks := m.visible()
	if len(tasks) == 0 {
		b.WriteString("  No tasks.\n\n")
		return
	}
	for _, t := range tasks {
		b.WriteString(m.formatTask(t) + "\n")
	}
	b.WriteString("\n")
}

func (m *boardModel) formatTask(t task.Task) string {
	status := fmt.Sprintf("%-11s", t.Status)
	if style, ok := statusStyles[t.Status]; ok {
		status = style.Render(status)
	}
	prefix := fmt.Sprintf("  %4d  ", t.ID)
	desc := t.Description
	if m.width > 0 {
		// prefix + padded status + separator
		desc = utils.Truncate(desc, m.width-len(prefix)-13)
	}
	return prefix + status + "  " + desc
}

func writeHelp(b *strings.Builder) {
	b.WriteString(headingStyle.Render("Keyboard Shortcuts") + "\n\n")
	b.WriteString("  q, esc, ctrl+c  Quit\n")
	b.WriteString("  r, F5           Refresh now\n")
	b.WriteString("  h, ?            Toggle this help screen\n")
	b.WriteString("  1               Show TODO tasks\n")
	b.WriteString("  2               Show IN_PROGRESS tasks\n")
	b.WriteString("  3               Show DONE tasks\n")
	b.WriteString("  0               Clear filter\n\n")
}

func (m *boardModel) writeFooter(b *strings.Builder) {
	footer := fmt.Sprintf("%s | h for help | q to quit | refreshing every %s", m.tasksPath, m.tickInterval)
	b.WriteString(footerStyle.Render(footer) + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
