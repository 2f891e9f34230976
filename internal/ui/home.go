// Package ui provides the terminal home screen.
package ui

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/nibzard/tasknest/internal/settings"
	"github.com/nibzard/tasknest/internal/todo"
)

const progressWidth = 24

// HomeOption configures the home screen.
type HomeOption func(*homeConfig)

type homeConfig struct {
	changes  <-chan struct{}
	logger   *log.Logger
	settings settings.Settings
}

// WithChanges reloads the task list whenever ch receives.
func WithChanges(ch <-chan struct{}) HomeOption {
	return func(c *homeConfig) {
		c.changes = ch
	}
}

// WithLogger sets the logger used for store errors.
func WithLogger(l *log.Logger) HomeOption {
	return func(c *homeConfig) {
		c.logger = l
	}
}

// WithSettings applies the user's theme.
func WithSettings(s settings.Settings) HomeOption {
	return func(c *homeConfig) {
		c.settings = s
	}
}

// RunHome shows the home screen until the user quits or ctx is done.
func RunHome(ctx context.Context, store *todo.Store, opts ...HomeOption) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newHomeModel(ctx, store, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type homeModel struct {
	ctx      context.Context
	store    *todo.Store
	changes  <-chan struct{}
	logger   *log.Logger
	styles   styles
	tabs     []todo.Category
	tab      int
	tasks    []todo.Task
	visible  []todo.Task
	cursor   int
	loaded   bool
	err      error
	showHelp bool
}

type tasksLoadedMsg struct {
	tasks []todo.Task
	err   error
}

type storeChangedMsg struct{}

func newHomeModel(ctx context.Context, store *todo.Store, opts ...HomeOption) *homeModel {
	c := &homeConfig{settings: settings.Defaults()}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return &homeModel{
		ctx:     ctx,
		store:   store,
		changes: c.changes,
		logger:  c.logger,
		styles:  newStyles(c.settings),
		tabs:    append([]todo.Category{todo.CategoryAll}, todo.Categories()...),
	}
}

func (m *homeModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCmd()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	return tea.Batch(cmds...)
}

func (m *homeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible)-1 {
				m.cursor++
			}
		case "tab", "right", "l":
			m.selectTab(m.tab + 1)
		case "shift+tab", "left", "h":
			m.selectTab(m.tab - 1)
		case " ", "space", "enter", "x":
			if task := m.selected(); task != nil {
				return m, m.toggleCmd(task.ID)
			}
		case "r", "f5":
			return m, m.loadCmd()
		case "?":
			m.showHelp = !m.showHelp
		}
	case tasksLoadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("load tasks", "err", msg.err)
			return m, nil
		}
		m.err = nil
		m.tasks = msg.tasks
		m.applyFilter()
	case storeChangedMsg:
		return m, tea.Batch(m.loadCmd(), waitForChange(m.changes))
	}
	return m, nil
}

func (m *homeModel) View() string {
	var b strings.Builder
	m.writeHeader(&b)

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}
	if m.err != nil {
		b.WriteString(m.styles.err.Render("Error: "+m.err.Error()) + "\n\n")
		m.writeFooter(&b)
		return b.String()
	}
	if !m.loaded {
		b.WriteString("Loading...\n\n")
		return b.String()
	}

	m.writeProgress(&b)
	m.writeTabs(&b)
	m.writeTasks(&b)
	m.writeFooter(&b)
	return b.String()
}

func (m *homeModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.store.LoadAll(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m *homeModel) toggleCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.store.ToggleComplete(m.ctx, id); err != nil {
			return tasksLoadedMsg{err: err}
		}
		tasks, err := m.store.LoadAll(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return storeChangedMsg{}
	}
}

func (m *homeModel) selectTab(i int) {
	n := len(m.tabs)
	m.tab = ((i % n) + n) % n
	m.cursor = 0
	m.applyFilter()
}

func (m *homeModel) applyFilter() {
	m.visible = todo.FilterByCategory(m.tasks, m.tabs[m.tab])
	if m.cursor >= len(m.visible) {
		m.cursor = max(len(m.visible)-1, 0)
	}
}

func (m *homeModel) selected() *todo.Task {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return nil
	}
	return &m.visible[m.cursor]
}

func (m *homeModel) writeHeader(b *strings.Builder) {
	b.WriteString(m.styles.faint.Render("Welcome back 👋") + "\n")
	b.WriteString(m.styles.title.Render("TaskNest") + "\n\n")
}

// writeProgress reports progress over the whole list regardless of the
// selected category.
func (m *homeModel) writeProgress(b *strings.Builder) {
	progress := todo.ComputeProgress(m.tasks)
	pct := int(math.Round(progress * 100))
	filled := int(math.Round(progress * progressWidth))

	b.WriteString(m.styles.faint.Render("DAILY TARGET") + "\n")
	b.WriteString(fmt.Sprintf("%d%% Done  (%d/%d)\n", pct, todo.CountCompleted(m.tasks), len(m.tasks)))
	b.WriteString(m.styles.barFill.Render(strings.Repeat("█", filled)))
	b.WriteString(m.styles.barEmpty.Render(strings.Repeat("░", progressWidth-filled)))
	b.WriteString("\n")
	b.WriteString(m.styles.faint.Render(`"Organize Today, Relax Tomorrow"`) + "\n\n")
}

func (m *homeModel) writeTabs(b *strings.Builder) {
	parts := make([]string, 0, len(m.tabs))
	for i, cat := range m.tabs {
		if i == m.tab {
			parts = append(parts, m.styles.tabActive.Render("["+string(cat)+"]"))
			continue
		}
		parts = append(parts, m.styles.tab.Render(" "+string(cat)+" "))
	}
	b.WriteString(strings.Join(parts, " ") + "\n\n")
}

func (m *homeModel) writeTasks(b *strings.Builder) {
	b.WriteString(m.styles.heading.Render("Your Tasks") + "\n\n")
	if len(m.visible) == 0 {
		b.WriteString("  🚀 Clear Skies!\n")
		b.WriteString(m.styles.faint.Render("  No pending tasks found here.") + "\n\n")
		return
	}
	for i, task := range m.visible {
		pointer := "  "
		if i == m.cursor {
			pointer = m.styles.cursor.Render("> ")
		}
		check := "[ ]"
		title := task.Title
		if task.Completed {
			check = "[x]"
			title = m.styles.done.Render(title)
		}
		mood := task.Mood
		if mood == "" {
			mood = "✨"
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s %s\n", pointer, check, m.styles.priority(task.Priority), mood, title))
		desc := task.Description
		if desc == "" {
			desc = "No description"
		}
		b.WriteString("        " + m.styles.faint.Render(truncate(desc, 60)) + "\n")
	}
	b.WriteString("\n")
}

func (m *homeModel) writeFooter(b *strings.Builder) {
	b.WriteString(m.styles.faint.Render("j/k move • space toggle • tab category • r reload • ? help • q quit") + "\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c          Quit\n")
	b.WriteString("  j/k, up/down       Move selection\n")
	b.WriteString("  space, enter, x    Toggle completed\n")
	b.WriteString("  tab, right, l      Next category\n")
	b.WriteString("  shift+tab, left, h Previous category\n")
	b.WriteString("  r, F5              Reload tasks\n")
	b.WriteString("  ?                  Toggle this help screen\n\n")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
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
