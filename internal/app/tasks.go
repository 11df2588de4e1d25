package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
)

// tasksChangedMsg carries the refreshed task slice after any mutation,
// plus an optional status bar message.
type tasksChangedMsg struct {
	tasks  []model.Task
	status string
}

// loadTasks reads the current task list from the repository.
func (m *Model) loadTasks() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		return tasksChangedMsg{tasks: r.Tasks()}
	}
}

// createTask persists a new problem entry.
func (m *Model) createTask(task model.Task) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		ctx := context.Background()
		added, err := r.Add(ctx, task)
		if err != nil {
			if errors.Is(err, repo.ErrEmptyTitle) {
				return tasksChangedMsg{tasks: r.Tasks(), status: "タイトルは必須です"}
			}
			return tasksChangedMsg{tasks: r.Tasks(), status: fmt.Sprintf("Error: %v", err)}
		}
		return tasksChangedMsg{
			tasks:  r.Tasks(),
			status: fmt.Sprintf("「%s」を追加しました", added.Title),
		}
	}
}

// updateTask merges the whole edited form back into the stored task.
// Every field is patched because the form round-trips all of them.
func (m *Model) updateTask(id string, task model.Task) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		p := repo.Patch{
			Title:         &task.Title,
			Description:   &task.Description,
			Status:        &task.Status,
			Difficulty:    &task.Difficulty,
			Platform:      &task.Platform,
			DueDate:       &task.DueDate,
			EstimatedTime: &task.EstimatedTime,
			Tags:          &task.Tags,
			ProblemURL:    &task.ProblemURL,
		}
		r.UpdateFields(context.Background(), id, p)
		return tasksChangedMsg{tasks: r.Tasks(), status: "保存しました"}
	}
}

// saveSolutionNotes updates only the notes field of a task.
func (m *Model) saveSolutionNotes(id, notes string) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.UpdateFields(context.Background(), id, repo.Patch{SolutionNotes: &notes})
		return tasksChangedMsg{tasks: r.Tasks(), status: "メモを保存しました"}
	}
}

// cycleStatus advances a task to its next workflow status.
func (m *Model) cycleStatus(id string) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.CycleStatus(context.Background(), id)
		return tasksChangedMsg{tasks: r.Tasks()}
	}
}

// duplicateTask clones the task as a fresh, not-started copy.
func (m *Model) duplicateTask(id string) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.Duplicate(context.Background(), id)
		return tasksChangedMsg{tasks: r.Tasks(), status: "コピーを作成しました"}
	}
}

// reorderTask moves a task to the target position in the list.
func (m *Model) reorderTask(id string, targetIndex int) tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.Reorder(context.Background(), id, targetIndex)
		return tasksChangedMsg{tasks: r.Tasks()}
	}
}

// confirmDelete resolves the pending delete affirmatively.
func (m *Model) confirmDelete() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.ConfirmDelete(context.Background())
		return tasksChangedMsg{tasks: r.Tasks(), status: "削除しました"}
	}
}

// cancelDelete abandons the pending delete.
func (m *Model) cancelDelete() tea.Cmd {
	r := m.repo
	return func() tea.Msg {
		r.CancelDelete()
		return tasksChangedMsg{tasks: r.Tasks()}
	}
}

// executeCommand handles a command string from the command palette.
func (m *Model) executeCommand(cmd string) tea.Cmd {
	switch cmd {
	case "quit", "q":
		return tea.Quit
	case "new", "add":
		m.previousView = m.currentView
		m.currentView = ViewTaskCreate
		return m.formView.StartCreate()
	case "list", "tasks":
		m.currentView = ViewList
		return nil
	case "progress", "stats":
		m.currentView = ViewProgress
		return nil
	case "calendar", "schedule":
		m.currentView = ViewCalendar
		return nil
	case "categories", "cats":
		m.previousView = m.currentView
		m.currentView = ViewCategories
		return m.catView.Init()
	case "clear":
		m.statusMsg = ""
		return nil
	case "help":
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return nil
	default:
		m.statusMsg = fmt.Sprintf("unknown command: %s", cmd)
		return nil
	}
}
