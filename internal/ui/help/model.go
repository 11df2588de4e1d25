package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/theme"
)

// CloseMsg signals the parent to leave the help overlay.
type CloseMsg struct{}

// commandHelp lists the palette commands with their aliases.
var commandHelp = [][2]string{
	{"new, add", "新しい問題を追加"},
	{"list, tasks", "問題一覧へ"},
	{"progress, stats", "進捗状況へ"},
	{"calendar, schedule", "学習予定へ"},
	{"categories, cats", "タグ管理を開く"},
	{"clear", "ステータスメッセージを消去"},
	{"quit, q", "終了"},
}

// Model is the help overlay view.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates a new help view model.
func New(keys *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.Width = width
	return Model{
		keys:   keys,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "q":
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

// View renders the help overlay.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	title := titleStyle.Render("Keyboard Shortcuts")

	m.help.Width = m.width - 4
	m.help.ShowAll = true
	helpText := m.help.View(m.keys)

	content := lipgloss.JoinVertical(lipgloss.Left,
		title, helpText, "", m.renderCommands())

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// renderCommands lists the ":" palette commands in two columns.
func (m Model) renderCommands() string {
	nameStyle := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Width(22)

	lines := make([]string, 0, len(commandHelp)+1)
	lines = append(lines, lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		Render("Commands (:)"))
	for _, c := range commandHelp {
		lines = append(lines,
			nameStyle.Render(c[0])+theme.HelpStyle.Render(c[1]))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// SetSize updates the help view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
