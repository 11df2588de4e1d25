package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/theme"
)

// TaskCreatedMsg is dispatched when a new problem is submitted.
type TaskCreatedMsg struct {
	Task model.Task
}

// TaskUpdatedMsg is dispatched when an edited problem is submitted.
// Task carries the full set of form values; the repository merges them.
type TaskUpdatedMsg struct {
	ID   string
	Task model.Task
}

// TaskFormCancelMsg is dispatched when the user cancels the form.
type TaskFormCancelMsg struct{}

// dueDateLayout is the input format for the optional target instant.
const dueDateLayout = "2006-01-02 15:04"

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title         string
	description   string
	status        model.Status
	difficulty    model.Difficulty
	platform      model.Platform
	dueDate       string
	estimatedTime string
	tags          string
	problemURL    string
}

// Model is the Bubble Tea model for the problem create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	editMode bool
	editID   string
	width    int
	height   int
}

// New creates a new problem form model.
func New(width, height int) Model {
	return Model{
		fb: &formBindings{
			status:     model.StatusNotStarted,
			difficulty: model.DifficultyStar1,
			platform:   model.PlatformAtCoder,
		},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for adding a new problem.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		status:     model.StatusNotStarted,
		difficulty: model.DifficultyStar1,
		platform:   model.PlatformAtCoder,
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing problem.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	m.fb.title = task.Title
	m.fb.description = task.Description
	m.fb.status = task.Status
	m.fb.difficulty = task.Difficulty
	m.fb.platform = task.Platform
	m.fb.estimatedTime = task.EstimatedTime
	m.fb.tags = strings.Join(task.Tags, ", ")
	m.fb.problemURL = task.ProblemURL
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Local().Format(dueDateLayout)
	} else {
		m.fb.dueDate = ""
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the problem form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return TaskFormCancelMsg{} }
	}

	return m, cmd
}

// View renders the problem form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Problem"
	if m.editMode {
		titleText = "Edit Problem"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	statusOpts := make([]huh.Option[model.Status], 0, len(model.Statuses()))
	for _, s := range model.Statuses() {
		statusOpts = append(statusOpts, huh.NewOption(string(s), s))
	}

	diffOpts := make([]huh.Option[model.Difficulty], 0, len(model.Difficulties()))
	for _, d := range model.Difficulties() {
		diffOpts = append(diffOpts, huh.NewOption(string(d), d))
	}

	platformOpts := make([]huh.Option[model.Platform], 0, len(model.Platforms()))
	for _, p := range model.Platforms() {
		platformOpts = append(platformOpts, huh.NewOption(string(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("ABC123 A - Problem Name").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewSelect[model.Status]().
				Title("Status").
				Options(statusOpts...).
				Value(&m.fb.status),
			huh.NewSelect[model.Platform]().
				Title("Platform").
				Options(platformOpts...).
				Value(&m.fb.platform),
			huh.NewSelect[model.Difficulty]().
				Title("Difficulty").
				Options(diffOpts...).
				Value(&m.fb.difficulty),
			huh.NewInput().
				Title("Due Date").
				Placeholder("YYYY-MM-DD HH:MM (optional)").
				Value(&m.fb.dueDate).
				Validate(validateOptionalDateTime),
			huh.NewInput().
				Title("Estimated Time").
				Placeholder("30m, 2h, ... (optional)").
				Value(&m.fb.estimatedTime),
			huh.NewInput().
				Title("Tags").
				Placeholder("dp, graph (comma separated)").
				Value(&m.fb.tags),
			huh.NewInput().
				Title("Problem URL").
				Placeholder("https://atcoder.jp/contests/abc123/tasks/abc123_a").
				Value(&m.fb.problemURL),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	task := model.Task{
		Title:         m.fb.title,
		Description:   m.fb.description,
		Status:        m.fb.status,
		Difficulty:    m.fb.difficulty,
		Platform:      m.fb.platform,
		EstimatedTime: m.fb.estimatedTime,
		Tags:          splitTags(m.fb.tags),
		ProblemURL:    m.fb.problemURL,
	}

	if due := strings.TrimSpace(m.fb.dueDate); due != "" {
		if t, err := time.ParseInLocation(dueDateLayout, due, time.Local); err == nil {
			task.DueDate = &t
		}
	}

	if m.editMode {
		id := m.editID
		return func() tea.Msg { return TaskUpdatedMsg{ID: id, Task: task} }
	}
	return func() tea.Msg { return TaskCreatedMsg{Task: task} }
}

// splitTags parses the comma separated tag field.
func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDateTime(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.ParseInLocation(dueDateLayout, s, time.Local); err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD HH:MM")
	}
	return nil
}
