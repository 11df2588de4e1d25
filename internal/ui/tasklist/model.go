package tasklist

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// TasksLoadedMsg carries a fresh snapshot of the repository list.
type TasksLoadedMsg struct {
	Tasks []model.Task
}

// SelectedTaskMsg is sent when a user opens a task's detail view.
type SelectedTaskMsg struct {
	TaskID string
}

// EditTaskMsg is sent when a user wants the edit form for a task.
type EditTaskMsg struct {
	TaskID string
}

// CycleStatusMsg asks the parent to advance a task's workflow status.
type CycleStatusMsg struct {
	TaskID string
}

// DuplicateTaskMsg asks the parent to duplicate a task.
type DuplicateTaskMsg struct {
	TaskID string
}

// DeleteRequestMsg asks the parent to start the two-step delete flow.
type DeleteRequestMsg struct {
	TaskID string
	Title  string
}

// ReorderTaskMsg asks the parent to move a task to a new position.
type ReorderTaskMsg struct {
	TaskID      string
	TargetIndex int
}

// Model is the problem list view.
type Model struct {
	list        list.Model
	keys        *keys.KeyMap
	tasks       []model.Task
	searchMode  bool
	searchInput textinput.Model
	query       string
	width       int
	height      int
}

// New creates a new problem list model.
func New(k *keys.KeyMap, width, height int) Model {
	delegate := TaskDelegate{}
	l := list.New([]list.Item{}, delegate, width, height-2)
	l.Title = "Problems"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search problems..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		keys:        k,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the problem list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		m.tasks = msg.Tasks
		return m, m.applyFilter()

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		m.query = strings.TrimSpace(m.searchInput.Value())
		return m, m.applyFilter()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.query = ""
		return m, m.applyFilter()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		if t, ok := m.SelectedTask(); ok {
			return m, func() tea.Msg { return SelectedTaskMsg{TaskID: t.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.SelectedTask(); ok {
			return m, func() tea.Msg { return EditTaskMsg{TaskID: t.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Cycle):
		if t, ok := m.SelectedTask(); ok {
			return m, func() tea.Msg { return CycleStatusMsg{TaskID: t.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Duplicate):
		if t, ok := m.SelectedTask(); ok {
			return m, func() tea.Msg { return DuplicateTaskMsg{TaskID: t.ID} }
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.SelectedTask(); ok {
			return m, func() tea.Msg {
				return DeleteRequestMsg{TaskID: t.ID, Title: t.Title}
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.MoveDown):
		return m.moveSelected(1)

	case key.Matches(msg, m.keys.MoveUp):
		return m.moveSelected(-1)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// moveSelected emits a reorder request for the selected task. Reorder
// works on the unfiltered list, so moving rows is disabled while a
// search query is active.
func (m Model) moveSelected(delta int) (Model, tea.Cmd) {
	if m.query != "" {
		return m, nil
	}
	t, ok := m.SelectedTask()
	if !ok {
		return m, nil
	}
	target := m.list.Index() + delta
	if target < 0 || target >= len(m.tasks) {
		return m, nil
	}
	// Keep the cursor on the moved row.
	m.list.Select(target)
	return m, func() tea.Msg {
		return ReorderTaskMsg{TaskID: t.ID, TargetIndex: target}
	}
}

// applyFilter rebuilds list items from the current snapshot and query.
func (m *Model) applyFilter() tea.Cmd {
	query := strings.ToLower(m.query)

	var items []list.Item
	for _, t := range m.tasks {
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		items = append(items, TaskItem{Task: t})
	}
	return m.list.SetItems(items)
}

// matchesQuery checks the title, tags, and platform for a substring hit.
func matchesQuery(t model.Task, query string) bool {
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(string(t.Platform)), query) {
		return true
	}
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

// Searching reports whether the search input has focus.
func (m Model) Searching() bool {
	return m.searchMode
}

// SelectedTask returns the task under the cursor.
func (m Model) SelectedTask() (model.Task, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return model.Task{}, false
	}
	return item.Task, true
}

// View renders the problem list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no problems are listed.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.query != "" {
		return style.Render("No matching problems.\nPress / and enter to clear the search.")
	}

	return style.Render(
		"No problems yet.\n\n" +
			"Press n to add your first problem.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
