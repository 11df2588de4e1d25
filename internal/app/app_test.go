package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
	"github.com/mkondo/cptrack/internal/store"
	"github.com/mkondo/cptrack/internal/ui/detail"
	"github.com/mkondo/cptrack/internal/ui/tasklist"
)

// newTestApp builds a sized root model over a fresh in-memory store.
func newTestApp(t *testing.T) (Model, *repo.Repository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := repo.New(context.Background(), store.NewMemoryStore(), logger)

	m := New(r, nil)
	mdl, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	next, ok := mdl.(Model)
	require.True(t, ok)
	return next, r
}

func apply(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	mdl, cmd := m.Update(msg)
	next, ok := mdl.(Model)
	require.True(t, ok)
	return next, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNotesEditShowsSavedTextImmediately(t *testing.T) {
	m, r := newTestApp(t)
	task, err := r.Add(context.Background(), model.Task{
		Title:         "ABC 300 D",
		SolutionNotes: "古いメモ",
	})
	require.NoError(t, err)

	m, _ = apply(t, m, tasklist.SelectedTaskMsg{TaskID: task.ID})
	require.Equal(t, ViewDetail, m.currentView)

	m, cmd := apply(t, m, detail.SolutionNotesMsg{
		TaskID: task.ID,
		Notes:  "尺取り法で解決",
	})

	// The detail view shows the edit before the async save lands.
	view := m.detailView.View()
	assert.Contains(t, view, "尺取り法で解決")
	assert.NotContains(t, view, "古いメモ")

	require.NotNil(t, cmd)
	_, ok := cmd().(tasksChangedMsg)
	require.True(t, ok)

	got, ok := r.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "尺取り法で解決", got.SolutionNotes)
}

func TestHelpOverlayClosesOnEsc(t *testing.T) {
	m, _ := newTestApp(t)

	m, _ = apply(t, m, keyRunes("?"))
	require.Equal(t, ViewHelp, m.currentView)

	m, cmd := apply(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	m, _ = apply(t, m, cmd())
	assert.Equal(t, ViewList, m.currentView)
}

func TestCommandPaletteDismissal(t *testing.T) {
	m, _ := newTestApp(t)

	open := func(m Model) Model {
		m, _ = apply(t, m, keyRunes(":"))
		require.Equal(t, ViewCommand, m.currentView)
		return m
	}
	dismiss := func(m Model, key tea.KeyMsg) Model {
		m, cmd := apply(t, m, key)
		require.NotNil(t, cmd)
		m, _ = apply(t, m, cmd())
		assert.Equal(t, ViewList, m.currentView)
		return m
	}

	m = dismiss(open(m), tea.KeyMsg{Type: tea.KeyEsc})

	// A second ":" on the empty prompt toggles the palette closed.
	m = dismiss(open(m), keyRunes(":"))

	// Enter with nothing typed closes it too.
	dismiss(open(m), tea.KeyMsg{Type: tea.KeyEnter})
}
