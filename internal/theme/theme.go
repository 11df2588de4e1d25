package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for top-level section headers and the application title.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// DetailPanelStyle wraps the detail view content area.
var DetailPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in a list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// DimmedStyle de-emphasizes solved problems in the list.
var DimmedStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// DueDateStyle renders a task's target date in list rows.
var DueDateStyle = lipgloss.NewStyle().
	Foreground(ColorYellow)

// TabStyle renders an inactive header tab.
var TabStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Padding(0, 1)

// ActiveTabStyle highlights the current header tab.
var ActiveTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusStyle returns a color-coded style for the given workflow status.
func StatusStyle(status model.Status) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch status {
	case model.StatusNotStarted:
		return base.Foreground(ColorGray)
	case model.StatusInProgress:
		return base.Foreground(ColorBlue)
	case model.StatusUnderReview:
		return base.Foreground(ColorMagenta)
	case model.StatusAccepted:
		return base.Foreground(ColorGreen)
	case model.StatusWrongAnswer:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// DifficultyStyle returns a color-coded style for the given difficulty
// label. Stars escalate from green to red; the word labels map onto
// the same scale.
func DifficultyStyle(d model.Difficulty) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch d {
	case model.DifficultyStar1, model.DifficultyEasy:
		return base.Foreground(ColorGreen)
	case model.DifficultyStar2:
		return base.Foreground(ColorBlue)
	case model.DifficultyStar3, model.DifficultyMedium:
		return base.Foreground(ColorYellow)
	case model.DifficultyStar4:
		return base.Foreground(ColorOrange)
	case model.DifficultyStar5, model.DifficultyHard:
		return base.Foreground(ColorRed)
	default:
		return base.Foreground(ColorGray)
	}
}

// PlatformStyle returns a color-coded style for the given judge platform.
func PlatformStyle(p model.Platform) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch p {
	case model.PlatformAtCoder:
		return base.Foreground(ColorBlue)
	case model.PlatformCodeforces:
		return base.Foreground(ColorRed)
	case model.PlatformLeetCode:
		return base.Foreground(ColorOrange)
	case model.PlatformYukicoder:
		return base.Foreground(ColorGreen)
	case model.PlatformAOJ:
		return base.Foreground(ColorMagenta)
	default:
		return base.Foreground(ColorGray)
	}
}

// StatusLabel returns the English gloss shown next to the stored
// status string in wide layouts.
func StatusLabel(status model.Status) string {
	switch status {
	case model.StatusNotStarted:
		return "Not Started"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusUnderReview:
		return "Under Review"
	case model.StatusAccepted:
		return "Accepted"
	case model.StatusWrongAnswer:
		return "Wrong Answer"
	default:
		return string(status)
	}
}
