package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// weekdayHeaders starting from Sunday.
var weekdayHeaders = []string{"日", "月", "火", "水", "木", "金", "土"}

// Model is the study-schedule view: a month grid of due dates with the
// month's problems listed beneath it.
type Model struct {
	keys        *keys.KeyMap
	tasks       []model.Task
	month       time.Time // first day of the displayed month
	now         func() time.Time
	mondayFirst bool
	width       int
	height      int
}

// New creates a calendar model showing the current month.
func New(k *keys.KeyMap, now func() time.Time, mondayFirst bool, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	local := now().Local()
	return Model{
		keys:        k,
		month:       time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location()),
		now:         now,
		mondayFirst: mondayFirst,
		width:       width,
		height:      height,
	}
}

// SetTasks replaces the task snapshot.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the calendar view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(kmsg, m.keys.NextMonth):
			m.month = m.month.AddDate(0, 1, 0)
		case key.Matches(kmsg, m.keys.PrevMonth):
			m.month = m.month.AddDate(0, -1, 0)
		case kmsg.String() == "g":
			local := m.now().Local()
			m.month = time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, local.Location())
		}
	}
	return m, nil
}

// View renders the month grid and the due list.
func (m Model) View() string {
	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		Render(m.month.Format("2006年1月"))

	grid := m.renderGrid()
	due := m.renderDueList()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, "", grid, "", due))
}

// renderGrid draws the weekday header and day cells. Days with due
// problems carry a count badge; today is highlighted.
func (m Model) renderGrid() string {
	const cellWidth = 7

	dueCounts := m.dueCountsByDay()
	today := m.now().Local()

	headers := weekdayHeaders
	if m.mondayFirst {
		headers = append(headers[1:], headers[0])
	}

	var header strings.Builder
	for _, h := range headers {
		header.WriteString(lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(theme.ColorGray).
			Render(h))
	}

	offset := int(m.month.Weekday())
	if m.mondayFirst {
		offset = (offset + 6) % 7
	}
	daysInMonth := m.month.AddDate(0, 1, -1).Day()

	var rows []string
	var row strings.Builder
	for i := 0; i < offset; i++ {
		row.WriteString(strings.Repeat(" ", cellWidth))
	}
	for day := 1; day <= daysInMonth; day++ {
		cell := fmt.Sprintf("%2d", day)
		if n := dueCounts[day]; n > 0 {
			cell += fmt.Sprintf("•%d", n)
		}

		style := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
		switch {
		case m.month.Year() == today.Year() && m.month.Month() == today.Month() && day == today.Day():
			style = style.Bold(true).Foreground(theme.ColorWhite).Background(theme.ColorBlue)
		case dueCounts[day] > 0:
			style = style.Bold(true).Foreground(theme.ColorYellow)
		default:
			style = style.Foreground(theme.ColorWhite)
		}
		row.WriteString(style.Render(cell))

		if (offset+day)%7 == 0 {
			rows = append(rows, row.String())
			row.Reset()
		}
	}
	if row.Len() > 0 {
		rows = append(rows, row.String())
	}

	body := header.String() + "\n" + strings.Join(rows, "\n")
	return theme.BorderStyle.Padding(0, 1).Render(body)
}

// renderDueList shows the month's problems in due-date order.
func (m Model) renderDueList() string {
	type entry struct {
		due  time.Time
		task model.Task
	}

	var entries []entry
	for _, t := range m.tasks {
		if t.DueDate == nil {
			continue
		}
		d := t.DueDate.Local()
		if d.Year() == m.month.Year() && d.Month() == m.month.Month() {
			entries = append(entries, entry{due: d, task: t})
		}
	}

	if len(entries) == 0 {
		return theme.HelpStyle.Render("この月の学習予定はありません")
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].due.Before(entries[j].due)
	})

	var rows []string
	for _, e := range entries {
		rows = append(rows, fmt.Sprintf("%s  %s %s",
			theme.DueDateStyle.Render(e.due.Format("1/2 15:04")),
			theme.StatusStyle(e.task.Status).Render(string(e.task.Status)),
			e.task.Title,
		))
	}
	return strings.Join(rows, "\n")
}

// dueCountsByDay counts due problems per day of the displayed month.
func (m Model) dueCountsByDay() map[int]int {
	counts := make(map[int]int)
	for _, t := range m.tasks {
		if t.DueDate == nil {
			continue
		}
		d := t.DueDate.Local()
		if d.Year() == m.month.Year() && d.Month() == m.month.Month() {
			counts[d.Day()]++
		}
	}
	return counts
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
