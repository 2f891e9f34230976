package ui

import (
	"bytes"
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasknest/internal/kv"
	"github.com/nibzard/tasknest/internal/settings"
	"github.com/nibzard/tasknest/internal/todo"
)

func seededModel(t *testing.T, opts ...HomeOption) (*homeModel, *todo.Store) {
	t.Helper()
	ctx := context.Background()
	store := todo.NewStore(kv.NewMemory())
	require.NoError(t, store.SaveAll(ctx, []todo.Task{
		{ID: "1", Title: "Write report", Priority: todo.PriorityHigh, Category: todo.CategoryWork, Mood: "😊"},
		{ID: "2", Title: "Dentist", Description: "Tuesday 10am", Priority: todo.PriorityMedium, Category: todo.CategoryPersonal, Completed: true},
		{ID: "3", Title: "Stretch", Priority: todo.PriorityLow, Category: todo.CategoryHealth},
		{ID: "4", Title: "Standup", Priority: todo.PriorityMedium, Category: todo.CategoryWork},
	}))

	m := newHomeModel(ctx, store, opts...)
	m.Update(m.loadCmd()())
	require.True(t, m.loaded)
	return m, store
}

func newTestLogger(w *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(w, log.Options{Level: log.DebugLevel})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// press sends a key and runs the command it returns, if any, feeding the
// resulting message back into the model.
func press(m *homeModel, s string) tea.Cmd {
	_, cmd := m.Update(key(s))
	if cmd == nil {
		return nil
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tasksLoadedMsg); ok {
			m.Update(msg)
			return nil
		}
	}
	return cmd
}

func TestViewShowsProgressAndTasks(t *testing.T) {
	m, _ := seededModel(t)
	view := m.View()

	require.Contains(t, view, "TaskNest")
	require.Contains(t, view, "25% Done")
	require.Contains(t, view, "(1/4)")
	require.Contains(t, view, "[All]")
	require.Contains(t, view, "Write report")
	require.Contains(t, view, "Tuesday 10am")
	require.Contains(t, view, "No description")
}

func TestCategoryTabsFilter(t *testing.T) {
	m, _ := seededModel(t)

	press(m, "tab")
	require.Equal(t, todo.CategoryWork, m.tabs[m.tab])
	require.Len(t, m.visible, 2)
	view := m.View()
	require.Contains(t, view, "[Work]")
	require.Contains(t, view, "Standup")
	require.NotContains(t, view, "Dentist")
	// Progress covers the whole list, not the selected tab.
	require.Contains(t, view, "25% Done")

	press(m, "shift+tab")
	press(m, "shift+tab")
	require.Equal(t, todo.CategoryIdeas, m.tabs[m.tab])
	require.Empty(t, m.visible)
	require.Contains(t, m.View(), "Clear Skies!")
}

func TestToggleFromHome(t *testing.T) {
	m, store := seededModel(t)

	press(m, "down")
	press(m, "down")
	require.Equal(t, "3", m.selected().ID)

	press(m, "enter")
	tasks, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.True(t, todo.Get(tasks, "3").Completed)
	require.Contains(t, m.View(), "50% Done")

	press(m, "x")
	tasks, err = store.LoadAll(context.Background())
	require.NoError(t, err)
	require.False(t, todo.Get(tasks, "3").Completed)
}

func TestCursorStaysInRange(t *testing.T) {
	m, _ := seededModel(t)

	press(m, "up")
	require.Equal(t, 0, m.cursor)
	for i := 0; i < 10; i++ {
		press(m, "j")
	}
	require.Equal(t, 3, m.cursor)

	// Switching to a shorter tab resets the cursor.
	press(m, "l")
	require.Equal(t, 0, m.cursor)
}

func TestReloadPicksUpExternalWrites(t *testing.T) {
	m, store := seededModel(t)
	_, err := store.Create(context.Background(), todo.Draft{Title: "Pay rent", Category: todo.CategoryFinance})
	require.NoError(t, err)

	require.NotContains(t, m.View(), "Pay rent")
	press(m, "r")
	require.Contains(t, m.View(), "Pay rent")
}

func TestStoreChangedReloadsAndKeepsWatching(t *testing.T) {
	changes := make(chan struct{}, 1)
	m, store := seededModel(t, WithChanges(changes))
	require.NoError(t, store.ClearAll(context.Background()))

	_, cmd := m.Update(storeChangedMsg{})
	require.NotNil(t, cmd)
	batch, ok := cmd().(tea.BatchMsg)
	require.True(t, ok)
	require.Len(t, batch, 2)

	m.Update(batch[0]())
	require.Empty(t, m.tasks)
	require.Contains(t, m.View(), "0% Done")

	changes <- struct{}{}
	require.Equal(t, storeChangedMsg{}, batch[1]())

	close(changes)
	require.Nil(t, waitForChange(changes)())
}

func TestLoadErrorIsShown(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemory()
	require.NoError(t, backend.Set(ctx, todo.TasksKey, "{broken"))

	var logs bytes.Buffer
	m := newHomeModel(ctx, todo.NewStore(backend), WithLogger(newTestLogger(&logs)))
	m.Update(m.loadCmd()())

	require.ErrorIs(t, m.err, todo.ErrCorruptData)
	require.Contains(t, m.View(), "Error:")
	require.Contains(t, logs.String(), "load tasks")
}

func TestHelpToggle(t *testing.T) {
	m, _ := seededModel(t)
	press(m, "?")
	require.Contains(t, m.View(), "Keyboard Shortcuts")
	press(m, "?")
	require.NotContains(t, m.View(), "Keyboard Shortcuts")
}

func TestQuit(t *testing.T) {
	m, _ := seededModel(t)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestThemes(t *testing.T) {
	for _, theme := range []settings.Theme{settings.ThemeDark, settings.ThemeLight, settings.ThemeBlue, settings.ThemeGreen} {
		s := settings.Defaults()
		s.Theme = theme
		m, _ := seededModel(t, WithSettings(s))
		require.Contains(t, m.View(), "Write report", theme)
	}
}

func TestIsTTY(t *testing.T) {
	require.False(t, IsTTY(&bytes.Buffer{}))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	long := strings.Repeat("é", 70)
	got := truncate(long, 60)
	require.Equal(t, 60, len([]rune(got)))
	require.True(t, strings.HasSuffix(got, "..."))
}
