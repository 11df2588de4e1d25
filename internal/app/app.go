package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mkondo/cptrack/internal/keys"
	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
	"github.com/mkondo/cptrack/internal/ui"
	"github.com/mkondo/cptrack/internal/ui/calendar"
	"github.com/mkondo/cptrack/internal/ui/catmgr"
	"github.com/mkondo/cptrack/internal/ui/command"
	"github.com/mkondo/cptrack/internal/ui/detail"
	helpview "github.com/mkondo/cptrack/internal/ui/help"
	"github.com/mkondo/cptrack/internal/ui/progress"
	"github.com/mkondo/cptrack/internal/ui/taskform"
	"github.com/mkondo/cptrack/internal/ui/tasklist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewProgress
	ViewCalendar
	ViewTaskCreate
	ViewTaskEdit
	ViewCategories
	ViewHelp
	ViewCommand
	ViewConfirmDelete
)

var tabTitles = []string{"問題一覧", "進捗状況", "学習予定"}

// confirmBindings holds the huh confirm value on the heap so the form
// can write into it across Update copies of the model.
type confirmBindings struct {
	accepted bool
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the task repository.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	repo         *repo.Repository
	keys         *keys.KeyMap

	taskList     tasklist.Model
	detailView   detail.Model
	progressView progress.Model
	calendarView calendar.Model
	formView     taskform.Model
	catView      catmgr.Model
	helpView     helpview.Model
	commandView  command.Model

	confirmForm  *huh.Form
	confirmTitle string
	cb           *confirmBindings

	ready     bool
	statusMsg string
}

// New creates a new root application model with the given repository.
func New(r *repo.Repository, cfg *model.AppConfig) Model {
	k := keys.DefaultKeyMap()
	mondayFirst := cfg != nil && cfg.Display.WeekStart == "monday"

	return Model{
		currentView:  ViewList,
		repo:         r,
		keys:         k,
		taskList:     tasklist.New(k, 80, 24),
		detailView:   detail.New(k, 80, 24),
		progressView: progress.New(time.Now, 80, 24),
		calendarView: calendar.New(k, time.Now, mondayFirst, 80, 24),
		formView:     taskform.New(80, 24),
		catView:      catmgr.New(r, k, 80, 24),
		helpView:     helpview.New(k, 80, 24),
		commandView:  command.New(80, 24),
		cb:           &confirmBindings{},
	}
}

// Init returns the initial command that loads tasks from the repository.
func (m Model) Init() tea.Cmd {
	return m.loadTasks()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.taskList.SetSize(contentWidth, contentHeight)
		m.detailView.SetSize(contentWidth, contentHeight)
		m.progressView.SetSize(contentWidth, contentHeight)
		m.calendarView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.commandView.SetSize(contentWidth, contentHeight)
		// Forward to the active view so huh forms can size themselves.
		return m.updateActiveView(msg)

	case tasksChangedMsg:
		m.progressView.SetTasks(msg.tasks)
		m.calendarView.SetTasks(msg.tasks)
		if msg.status != "" {
			m.statusMsg = msg.status
		}
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(tasklist.TasksLoadedMsg{Tasks: msg.tasks})
		return m, cmd

	case tasklist.SelectedTaskMsg:
		task, ok := m.repo.Task(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetTask(task)
		return m, nil

	case tasklist.EditTaskMsg:
		task, ok := m.repo.Task(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewTaskEdit
		return m, m.formView.StartEdit(task)

	case tasklist.CycleStatusMsg:
		return m, m.cycleStatus(msg.TaskID)

	case tasklist.DuplicateTaskMsg:
		return m, m.duplicateTask(msg.TaskID)

	case tasklist.ReorderTaskMsg:
		return m, m.reorderTask(msg.TaskID, msg.TargetIndex)

	case tasklist.DeleteRequestMsg:
		m.repo.RequestDelete(msg.TaskID)
		m.confirmTitle = msg.Title
		m.cb.accepted = false
		m.confirmForm = m.buildConfirmForm()
		m.previousView = m.currentView
		m.currentView = ViewConfirmDelete
		return m, m.confirmForm.Init()

	case taskform.TaskCreatedMsg:
		m.currentView = ViewList
		return m, m.createTask(msg.Task)

	case taskform.TaskUpdatedMsg:
		m.currentView = ViewList
		return m, m.updateTask(msg.ID, msg.Task)

	case taskform.TaskFormCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case detail.SolutionNotesMsg:
		// The save runs async; refresh the view with the edited notes
		// applied so it never flashes the stale text.
		if task, ok := m.repo.Task(msg.TaskID); ok {
			task.SolutionNotes = msg.Notes
			m.detailView.SetTask(task)
		}
		return m, m.saveSolutionNotes(msg.TaskID, msg.Notes)

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case catmgr.CategoryListCloseMsg:
		m.currentView = ViewList
		return m, nil

	case command.CommandMsg:
		m.currentView = m.previousView
		return m, m.executeCommand(string(msg))

	case command.CommandCancelMsg:
		m.currentView = m.previousView
		return m, nil

	case helpview.CloseMsg:
		m.currentView = m.previousView
		return m, nil

	case tea.KeyMsg:
		if newModel, cmd, handled := m.handleGlobalKey(msg); handled {
			return newModel, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work regardless of the focused
// view. Text-entry views keep their own key handling.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		// The notes editor uses ctrl+c to discard its buffer.
		if m.currentView == ViewDetail && m.detailView.Editing() {
			return m, nil, false
		}
		return m, tea.Quit, true
	}

	// Views with text input own the keyboard.
	switch m.currentView {
	case ViewCommand, ViewTaskCreate, ViewTaskEdit, ViewConfirmDelete, ViewCategories:
		return m, nil, false
	}
	if m.currentView == ViewDetail || m.currentView == ViewList {
		// Search and notes editing consume plain keys; delegate.
		if m.currentView == ViewList && m.taskList.Searching() {
			return m, nil, false
		}
		if m.currentView == ViewDetail && m.detailView.Editing() {
			return m, nil, false
		}
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewList || m.currentView == ViewProgress ||
			m.currentView == ViewCalendar {
			return m, tea.Quit, true
		}

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case ":":
		m.previousView = m.currentView
		m.currentView = ViewCommand
		return m, m.commandView.Focus(), true

	case "1":
		m.currentView = ViewList
		return m, nil, true

	case "2":
		m.currentView = ViewProgress
		return m, nil, true

	case "3":
		m.currentView = ViewCalendar
		return m, nil, true

	case "n":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewTaskCreate
			return m, m.formView.StartCreate(), true
		}

	case "t":
		if m.currentView == ViewList {
			m.previousView = m.currentView
			m.currentView = ViewCategories
			return m, m.catView.Init(), true
		}
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewProgress:
		m.progressView, cmd = m.progressView.Update(msg)
	case ViewCalendar:
		m.calendarView, cmd = m.calendarView.Update(msg)
	case ViewTaskCreate, ViewTaskEdit:
		m.formView, cmd = m.formView.Update(msg)
	case ViewCategories:
		m.catView, cmd = m.catView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, cmd
}

// updateConfirmDelete drives the two-step delete dialog. The pending
// id lives in the repository; the dialog only resolves it.
func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = ViewList
		return m, nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	switch m.confirmForm.State {
	case huh.StateCompleted:
		m.currentView = ViewList
		m.confirmForm = nil
		if m.cb.accepted {
			return m, m.confirmDelete()
		}
		return m, m.cancelDelete()
	case huh.StateAborted:
		m.currentView = ViewList
		m.confirmForm = nil
		return m, m.cancelDelete()
	}

	return m, cmd
}

func (m Model) buildConfirmForm() *huh.Form {
	w := m.layout.ContentWidth()
	if w < 40 {
		w = 40
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("「%s」を削除しますか？", m.confirmTitle)).
				Description("This cannot be undone.").
				Affirmative("削除").
				Negative("キャンセル").
				Value(&m.cb.accepted),
		),
	).WithWidth(w)
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("cptrack", tabTitles, m.activeTab())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// activeTab maps the current view onto the header tab strip.
func (m Model) activeTab() int {
	switch m.currentView {
	case ViewProgress:
		return 1
	case ViewCalendar:
		return 2
	case ViewHelp, ViewCommand:
		switch m.previousView {
		case ViewProgress:
			return 1
		case ViewCalendar:
			return 2
		}
	}
	return 0
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.taskList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewProgress:
		return m.progressView.View()
	case ViewCalendar:
		return m.calendarView.View()
	case ViewTaskCreate, ViewTaskEdit:
		return m.formView.View()
	case ViewCategories:
		return m.catView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewConfirmDelete:
		if m.confirmForm != nil {
			return m.confirmForm.View()
		}
		return m.taskList.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.statusMsg != "" && m.currentView == ViewList {
		return m.statusMsg
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | esc back"
	case ViewDetail:
		return "esc back | s notes | j/k scroll"
	case ViewTaskCreate, ViewTaskEdit:
		return "enter submit | esc cancel"
	case ViewCategories:
		return "n new | d delete | esc back"
	case ViewConfirmDelete:
		return "enter confirm | esc cancel"
	case ViewProgress:
		return "1 問題一覧 | 3 学習予定 | q quit"
	case ViewCalendar:
		return "h/l month | g today | 1 問題一覧 | q quit"
	default:
		return "q quit | ? help | n new | / search | x status | c copy | d delete"
	}
}
