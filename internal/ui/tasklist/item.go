package tasklist

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string {
	return i.Task.Title + " " + strings.Join(i.Task.Tags, " ")
}

// Title returns the task title for the list.
func (i TaskItem) Title() string { return i.Task.Title }

// Description returns a short summary line for the list.
func (i TaskItem) Description() string {
	parts := []string{
		string(i.Task.Platform),
		string(i.Task.Status),
	}
	return strings.Join(parts, " | ")
}

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct{}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ti, ok := item.(TaskItem)
	if !ok {
		return
	}

	t := ti.Task
	isSelected := index == m.Index()

	prefix := "○"
	if t.Completed() {
		prefix = "✓"
	}

	statusBadge := theme.StatusStyle(t.Status).Render(string(t.Status))
	platformBadge := theme.PlatformStyle(t.Platform).Render(string(t.Platform))

	diffBadge := ""
	if t.Difficulty != "" {
		diffBadge = " " + theme.DifficultyStyle(t.Difficulty).Render(string(t.Difficulty))
	}

	dueStr := ""
	if t.DueDate != nil {
		dueStr = theme.DueDateStyle.Render(" " + t.DueDate.Local().Format("1/2 15:04"))
	}

	tagStr := ""
	if len(t.Tags) > 0 {
		display := t.Tags
		if len(display) > 2 {
			display = append(append([]string{}, display[:2]...), "…")
		}
		tagStr = lipgloss.NewStyle().
			Foreground(theme.ColorMagenta).
			Render(" #" + strings.Join(display, " #"))
	}

	line := fmt.Sprintf(
		"%s %s %s%s %s%s%s",
		prefix, statusBadge, platformBadge, diffBadge, t.Title, tagStr, dueStr,
	)

	if t.Completed() {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
