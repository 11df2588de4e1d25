package detail

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// BackMsg signals the parent to return to the list view.
type BackMsg struct{}

// SolutionNotesMsg carries edited solution notes for a task.
type SolutionNotesMsg struct {
	TaskID string
	Notes  string
}

// Model is the read view for a single problem, with inline editing of
// the solution notes.
type Model struct {
	keys      *keys.KeyMap
	task      model.Task
	hasTask   bool
	viewport  viewport.Model
	notes     textarea.Model
	editNotes bool
	width     int
	height    int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)

	ta := textarea.New()
	ta.Placeholder = "How did you solve it?"
	ta.SetWidth(width - 8)
	ta.SetHeight(8)

	return Model{
		keys:     k,
		viewport: vp,
		notes:    ta,
		width:    width,
		height:   height,
	}
}

// SetTask loads a task into the view.
func (m *Model) SetTask(task model.Task) {
	m.task = task
	m.hasTask = true
	m.editNotes = false
	m.viewport.SetContent(m.renderTask())
	m.viewport.GotoTop()
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.editNotes {
		return m.updateNotesEditor(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }

		case msg.String() == "s":
			if m.hasTask {
				m.editNotes = true
				m.notes.SetValue(m.task.SolutionNotes)
				return m, m.notes.Focus()
			}
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// updateNotesEditor routes input to the notes textarea. Esc saves;
// ctrl+c discards.
func (m Model) updateNotesEditor(msg tea.Msg) (Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc":
			m.editNotes = false
			m.notes.Blur()
			id := m.task.ID
			notes := m.notes.Value()
			m.task.SolutionNotes = notes
			m.viewport.SetContent(m.renderTask())
			return m, func() tea.Msg {
				return SolutionNotesMsg{TaskID: id, Notes: notes}
			}

		case "ctrl+c":
			m.editNotes = false
			m.notes.Blur()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	if !m.hasTask {
		return lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray).
			Render("No problem selected.")
	}

	if m.editNotes {
		title := lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.ColorWhite).
			MarginBottom(1).
			Render("Solution Notes | esc save, ctrl+c discard")
		return theme.DetailPanelStyle.
			Width(m.width - 4).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, m.notes.View()))
	}

	return m.viewport.View()
}

// renderTask builds the full text body for the viewport.
func (m Model) renderTask() string {
	t := m.task

	labelStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGray)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)

	var b strings.Builder
	b.WriteString(titleStyle.Render(t.Title))
	b.WriteString("\n\n")

	row := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label+": ") + value + "\n")
	}

	b.WriteString(labelStyle.Render("Status: ") +
		theme.StatusStyle(t.Status).Render(string(t.Status)) +
		theme.HelpStyle.Render(" ("+theme.StatusLabel(t.Status)+")") + "\n")
	b.WriteString(labelStyle.Render("Platform: ") +
		theme.PlatformStyle(t.Platform).Render(string(t.Platform)) + "\n")
	if t.Difficulty != "" {
		b.WriteString(labelStyle.Render("Difficulty: ") +
			theme.DifficultyStyle(t.Difficulty).Render(string(t.Difficulty)) + "\n")
	}
	if t.DueDate != nil {
		row("Due", t.DueDate.Local().Format("2006-01-02 15:04"))
	}
	if t.CompletionDate != nil {
		row("Completed", t.CompletionDate.Local().Format("2006-01-02 15:04"))
	}
	row("Estimated", t.EstimatedTime)
	row("Tags", strings.Join(t.Tags, ", "))
	row("URL", t.ProblemURL)

	if t.Description != "" {
		b.WriteString("\n" + labelStyle.Render("Description") + "\n")
		b.WriteString(t.Description + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Solution Notes") +
		theme.HelpStyle.Render("  (press s to edit)") + "\n")
	if t.SolutionNotes != "" {
		b.WriteString(t.SolutionNotes + "\n")
	} else {
		b.WriteString(theme.HelpStyle.Render("none yet") + "\n")
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(b.String())
}

// Editing reports whether the solution notes editor has focus.
func (m Model) Editing() bool {
	return m.editNotes
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.notes.SetWidth(width - 8)
	if m.hasTask {
		m.viewport.SetContent(m.renderTask())
	}
}
