package catmgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
	"github.com/mkondo/cptrack/internal/theme"
)

// CategoryListCloseMsg signals the parent to close the category view.
type CategoryListCloseMsg struct{}

type catMode int

const (
	modeList catMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	title   string
	confirm bool
}

type categoriesLoadedMsg struct {
	categories []model.Category
}

type categorySavedMsg struct{ err error }
type categoryDeletedMsg struct{}

// Model is the Bubble Tea model for sidebar category management.
type Model struct {
	mode        catMode
	repo        *repo.Repository
	keys        *keys.KeyMap
	categories  []model.Category
	selectedIdx int
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new category manager model.
func New(r *repo.Repository, k *keys.KeyMap, width, height int) Model {
	return Model{
		mode:  modeList,
		repo:  r,
		keys:  k,
		fb:    &formBindings{},
		width: width, height: height,
	}
}

// Init loads categories from the repository.
func (m Model) Init() tea.Cmd {
	return m.loadCategories()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case categoriesLoadedMsg:
		m.categories = msg.categories
		if m.selectedIdx >= len(m.categories) && m.selectedIdx > 0 {
			m.selectedIdx = len(m.categories) - 1
		}
		return m, nil

	case categorySavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.statusMsg = "Category added"
		}
		m.mode = modeList
		return m, m.loadCategories()

	case categoryDeletedMsg:
		m.statusMsg = "Category deleted"
		m.mode = modeList
		return m, m.loadCategories()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CategoryListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.categories) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.categories)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.categories) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.categories) - 1
			}
		}
		return m, nil

	case msg.String() == "n":
		m.fb.title = ""
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case msg.String() == "d":
		if len(m.categories) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("カテゴリー名を入力...").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title is required")
					}
					return nil
				}),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	title := ""
	if m.selectedIdx < len(m.categories) {
		title = m.categories[m.selectedIdx].Title
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete category %q?", title)).
				Description("Tasks keep their tags; only the sidebar entry goes away.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveCategory()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			return m, m.deleteSelected()
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the category manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		if m.form != nil {
			return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
		}
	case modeConfirmDelete:
		if m.confirmForm != nil {
			return lipgloss.NewStyle().Padding(1, 2).Render(m.confirmForm.View())
		}
	}
	return m.renderList()
}

func (m Model) renderList() string {
	title := lipgloss.NewStyle().Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("Categories")

	var rows []string
	if len(m.categories) == 0 {
		rows = append(rows, theme.HelpStyle.Render("No categories. Press n to add one."))
	}
	for i, c := range m.categories {
		row := c.Title
		if i == m.selectedIdx {
			row = theme.SelectedItemStyle.Render(row)
		} else {
			row = theme.ListItemStyle.Render(row)
		}
		rows = append(rows, row)
	}

	body := lipgloss.JoinVertical(lipgloss.Left, rows...)
	if m.statusMsg != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, "",
			theme.HelpStyle.Render(m.statusMsg))
	}

	return theme.DetailPanelStyle.
		Width(m.width - 4).
		Render(lipgloss.JoinVertical(lipgloss.Left, title, body))
}

func (m Model) loadCategories() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		return categoriesLoadedMsg{categories: r.Categories()}
	}
}

func (m Model) saveCategory() tea.Cmd {
	r := m.repo
	title := m.fb.title
	return func() tea.Msg {
		_, err := r.AddCategory(context.Background(), title)
		return categorySavedMsg{err: err}
	}
}

func (m Model) deleteSelected() tea.Cmd {
	if m.selectedIdx >= len(m.categories) {
		return nil
	}
	r := m.repo
	id := m.categories[m.selectedIdx].ID
	return func() tea.Msg {
		r.RemoveCategory(context.Background(), id)
		return categoryDeletedMsg{}
	}
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 8 {
		h = 8
	}
	return h
}
