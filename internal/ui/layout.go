package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/theme"
)

// Layout manages the terminal frame: a header row with the app title
// and view tabs, the content area, and a bottom status bar.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the height available for the main content area,
// accounting for the header and status bar.
func (l Layout) ContentHeight() int {
	return l.Height - l.HeaderHeight - l.StatusBarHeight
}

// RenderHeader renders the top bar: title on the left, the tab strip
// on the right, with the active tab highlighted.
func (l Layout) RenderHeader(title string, tabs []string, activeTab int) string {
	titleRendered := theme.HeaderStyle.Render(title)

	var tabViews []string
	for i, tab := range tabs {
		if i == activeTab {
			tabViews = append(tabViews, theme.ActiveTabStyle.Render(tab))
		} else {
			tabViews = append(tabViews, theme.TabStyle.Render(tab))
		}
	}
	tabStrip := lipgloss.JoinHorizontal(lipgloss.Top, tabViews...)

	gap := l.Width -
		lipgloss.Width(titleRendered) -
		lipgloss.Width(tabStrip)
	if gap < 0 {
		gap = 0
	}

	filler := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleRendered,
		filler,
		tabStrip,
	)
}

// RenderStatusBar renders the bottom status bar with keyboard hints or
// a transient status message.
func (l Layout) RenderStatusBar(hints string) string {
	rendered := theme.StatusBarStyle.Render(hints)

	gap := l.Width - lipgloss.Width(rendered)
	if gap < 0 {
		gap = 0
	}

	filler := theme.StatusBarStyle.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(theme.StatusBarStyle.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered, filler)
}

// RenderWithFrame composes a full terminal view by vertically joining
// the header, content area, and status bar.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}
