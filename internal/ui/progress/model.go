package progress

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/metrics"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// sparks are the bar glyphs for the daily chart, shortest to tallest.
var sparks = []rune("▁▂▃▄▅▆▇█")

// Model is the progress view: daily completions over the trailing 30
// days, headline stats, and the 6-month series. Series are re-derived
// from the task snapshot on every render, never cached.
type Model struct {
	tasks  []model.Task
	now    func() time.Time
	width  int
	height int
}

// New creates a new progress view model.
func New(now func() time.Time, width, height int) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		now:    now,
		width:  width,
		height: height,
	}
}

// SetTasks replaces the task snapshot the charts derive from.
func (m *Model) SetTasks(tasks []model.Task) {
	m.tasks = tasks
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the progress view.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the charts and stat cards.
func (m Model) View() string {
	now := m.now()
	daily := metrics.Daily(m.tasks, now)
	summary := metrics.Summarize(daily)
	monthly := metrics.Monthly(m.tasks, now)

	sections := []string{
		m.renderStats(summary),
		m.renderDaily(daily),
		m.renderMonthly(monthly),
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderStats draws the headline numbers above the charts.
func (m Model) renderStats(summary metrics.Summary) string {
	counts := make(map[model.Status]int)
	for _, t := range m.tasks {
		counts[t.Status]++
	}

	card := func(value, label string, color lipgloss.AdaptiveColor) string {
		v := lipgloss.NewStyle().Bold(true).Foreground(color).Render(value)
		l := theme.HelpStyle.Render(label)
		return theme.BorderStyle.Padding(0, 2).Render(v + " " + l)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		card(fmt.Sprintf("%d", summary.TotalCompleted), "完了 (30日)", theme.ColorGreen),
		card(summary.AveragePerActiveDay, "1日平均", theme.ColorBlue),
		card(fmt.Sprintf("%d", counts[model.StatusInProgress]), "挑戦中", theme.ColorYellow),
		card(fmt.Sprintf("%d", counts[model.StatusNotStarted]), "未着手", theme.ColorGray),
	)
}

// renderDaily draws the 30-day completion sparkline.
func (m Model) renderDaily(daily []metrics.DailyPoint) string {
	max := 0
	for _, p := range daily {
		if p.Completed > max {
			max = p.Completed
		}
	}

	var bar strings.Builder
	for _, p := range daily {
		if p.Completed == 0 {
			bar.WriteRune(' ')
			continue
		}
		idx := (p.Completed*len(sparks) - 1) / max
		if idx >= len(sparks) {
			idx = len(sparks) - 1
		}
		bar.WriteRune(sparks[idx])
	}

	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		Render("日別進捗 - 過去30日間")

	axis := daily[0].Label +
		strings.Repeat(" ", maxInt(0, len(daily)-len(daily[0].Label)-len(daily[len(daily)-1].Label))) +
		daily[len(daily)-1].Label

	chart := lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(bar.String())

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		title,
		theme.BorderStyle.Padding(0, 1).Render(chart+"\n"+theme.HelpStyle.Render(axis)),
	)
}

// renderMonthly draws horizontal bars for the 6-month series. The
// in-progress figure only ever appears on the current month; that is
// the snapshot semantics of the tracker, not a rendering shortcut.
func (m Model) renderMonthly(monthly []metrics.MonthlyPoint) string {
	max := 1
	for _, p := range monthly {
		if p.Completed > max {
			max = p.Completed
		}
	}

	barWidth := m.width - 30
	if barWidth < 10 {
		barWidth = 10
	}

	var rows []string
	for _, p := range monthly {
		bar := strings.Repeat("█", p.Completed*barWidth/max)
		row := fmt.Sprintf("%4s %s %d", p.Month,
			lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(bar),
			p.Completed)
		if p.InProgress > 0 {
			row += theme.HelpStyle.Render(fmt.Sprintf("  (挑戦中 %d)", p.InProgress))
		}
		rows = append(rows, row)
	}

	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		Render("月別進捗 - 過去6ヶ月")

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		title,
		theme.BorderStyle.Padding(0, 1).Render(strings.Join(rows, "\n")),
	)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
