// Package repo owns the authoritative in-memory task list and the
// category list, and writes both through to the persistent store after
// every mutation. A Repository is safe for concurrent use; the UI runs
// each mutation in its own command goroutine, so a single mutex
// serializes every operation.
package repo

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/store"
)

// Repository holds the current task and category lists. Mutations
// always build a fresh task slice; callers never observe in-place
// edits of a list they were previously handed.
type Repository struct {
	mu     sync.Mutex
	store  store.Store
	logger *slog.Logger

	now   func() time.Time
	newID func() string

	tasks      []model.Task
	categories []model.Category

	// pendingDelete is the id awaiting confirmation, or "" when no
	// delete intent is active.
	pendingDelete string
}

// Option customizes a Repository. Tests use these to pin the clock and
// id source.
type Option func(*Repository)

// WithClock replaces the time source used for completion timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

// WithIDSource replaces the id generator used for new tasks and
// categories.
func WithIDSource(newID func() string) Option {
	return func(r *Repository) { r.newID = newID }
}

// New builds a Repository backed by s, loading any previously
// persisted task and category lists. Missing or unreadable documents
// fall back to empty lists; the repository never fails to start over
// storage contents.
func New(ctx context.Context, s store.Store, logger *slog.Logger, opts ...Option) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Repository{
		store:  s,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.tasks = store.LoadOr(ctx, s, store.KeyTasks, []model.Task{}, logger)
	r.categories = store.LoadOr(ctx, s, store.KeyCategories, []model.Category{}, logger)

	return r
}

// Tasks returns a copy of the current ordered task list.
func (r *Repository) Tasks() []model.Task {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Task, len(r.tasks))
	copy(out, r.tasks)
	return out
}

// Task returns the task with the given id.
func (r *Repository) Task(id string) (model.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.findTask(id)
}

// findTask looks up a task by id. Callers hold r.mu.
func (r *Repository) findTask(id string) (model.Task, bool) {
	for _, t := range r.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Add validates and appends a new task. A fresh id is assigned when
// the task has none, the status defaults to 未着手, and the
// completion-date invariant is normalized before the list is
// persisted.
func (r *Repository) Add(ctx context.Context, task model.Task) (model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(task.Title) == "" {
		return model.Task{}, ErrEmptyTitle
	}
	if task.ID == "" {
		task.ID = r.newID()
	}
	if task.Status == "" {
		task.Status = model.StatusNotStarted
	}
	task = r.normalizeCompletion(task)

	next := make([]model.Task, 0, len(r.tasks)+1)
	next = append(next, r.tasks...)
	next = append(next, task)
	r.commit(ctx, next)

	return task, nil
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	Title         *string
	Description   *string
	SolutionNotes *string
	Status        *model.Status
	Difficulty    *model.Difficulty
	Platform      *model.Platform
	DueDate       **time.Time
	EstimatedTime *string
	Tags          *[]string
	ProblemURL    *string
}

// UpdateFields merges non-nil patch fields into the task with the
// given id. A status transition into AC stamps the completion date; a
// transition to any other status clears it. Unknown ids are a silent
// no-op, though a fresh list is still produced and persisted.
func (r *Repository) UpdateFields(ctx context.Context, id string, p Patch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateFields(ctx, id, p)
}

// updateFields is the merge-and-commit core. Callers hold r.mu.
func (r *Repository) updateFields(ctx context.Context, id string, p Patch) {
	next := make([]model.Task, len(r.tasks))
	copy(next, r.tasks)

	for i := range next {
		if next[i].ID != id {
			continue
		}
		next[i] = r.applyPatch(next[i], p)
		break
	}

	r.commit(ctx, next)
}

// CycleStatus advances the task's status one step through the fixed
// workflow cycle (未着手 → 挑戦中 → 解答確認中 → AC → WA → 未着手),
// maintaining the completion-date invariant. Unknown ids no-op.
func (r *Repository) CycleStatus(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.findTask(id)
	if !ok {
		return
	}
	next := t.Status.Next()
	r.updateFields(ctx, id, Patch{Status: &next})
}

// Duplicate appends a copy of the task with a new id, a "(コピー)"
// title suffix, status reset to 未着手, and no completion date.
// Unknown ids are a silent no-op.
func (r *Repository) Duplicate(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	original, ok := r.findTask(id)
	if !ok {
		return
	}

	clone := original
	clone.ID = r.newID()
	clone.Title = original.Title + " (コピー)"
	clone.Status = model.StatusNotStarted
	clone.CompletionDate = nil
	clone.Tags = append([]string(nil), original.Tags...)

	next := make([]model.Task, 0, len(r.tasks)+1)
	next = append(next, r.tasks...)
	next = append(next, clone)
	r.commit(ctx, next)
}

// RequestDelete marks id as the pending delete target. Deletion only
// happens once ConfirmDelete is called, so an accidental keypress can
// still be cancelled.
func (r *Repository) RequestDelete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = id
}

// PendingDelete returns the id awaiting delete confirmation, if any.
func (r *Repository) PendingDelete() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingDelete, r.pendingDelete != ""
}

// CancelDelete abandons the pending delete intent.
func (r *Repository) CancelDelete() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pendingDelete = ""
}

// ConfirmDelete removes the pending target from the list. Removing an
// id that no longer exists leaves the list unchanged as a value. The
// intent is cleared either way.
func (r *Repository) ConfirmDelete(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.pendingDelete
	r.pendingDelete = ""
	if id == "" {
		return
	}

	next := make([]model.Task, 0, len(r.tasks))
	for _, t := range r.tasks {
		if t.ID != id {
			next = append(next, t)
		}
	}
	r.commit(ctx, next)
}

// Reorder moves the task with the given id to targetIndex, shifting
// the tasks in between. The index is clamped to the list bounds; the
// resulting order is canonical and persisted. Unknown ids no-op.
func (r *Repository) Reorder(ctx context.Context, id string, targetIndex int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	oldIndex := -1
	for i, t := range r.tasks {
		if t.ID == id {
			oldIndex = i
			break
		}
	}
	if oldIndex < 0 {
		return
	}

	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(r.tasks)-1 {
		targetIndex = len(r.tasks) - 1
	}

	next := make([]model.Task, 0, len(r.tasks))
	next = append(next, r.tasks[:oldIndex]...)
	next = append(next, r.tasks[oldIndex+1:]...)

	tail := make([]model.Task, 0, len(next)-targetIndex)
	tail = append(tail, next[targetIndex:]...)
	next = append(next[:targetIndex], r.tasks[oldIndex])
	next = append(next, tail...)

	r.commit(ctx, next)
}

// Categories returns a copy of the current category list.
func (r *Repository) Categories() []model.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// AddCategory validates and appends a new sidebar category.
func (r *Repository) AddCategory(ctx context.Context, title string) (model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	title = strings.TrimSpace(title)
	if title == "" {
		return model.Category{}, ErrEmptyCategoryTitle
	}

	cat := model.Category{ID: r.newID(), Title: title}
	next := make([]model.Category, 0, len(r.categories)+1)
	next = append(next, r.categories...)
	next = append(next, cat)
	r.categories = next

	r.persist(ctx, store.KeyCategories, r.categories)
	return cat, nil
}

// RemoveCategory deletes a category by id. Unknown ids no-op.
func (r *Repository) RemoveCategory(ctx context.Context, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	next := make([]model.Category, 0, len(r.categories))
	for _, c := range r.categories {
		if c.ID != id {
			next = append(next, c)
		}
	}
	r.categories = next
	r.persist(ctx, store.KeyCategories, r.categories)
}

// applyPatch merges p into t and restores the completion-date
// invariant for any status change.
func (r *Repository) applyPatch(t model.Task, p Patch) model.Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.SolutionNotes != nil {
		t.SolutionNotes = *p.SolutionNotes
	}
	if p.Difficulty != nil {
		t.Difficulty = *p.Difficulty
	}
	if p.Platform != nil {
		t.Platform = *p.Platform
	}
	if p.DueDate != nil {
		t.DueDate = *p.DueDate
	}
	if p.EstimatedTime != nil {
		t.EstimatedTime = *p.EstimatedTime
	}
	if p.Tags != nil {
		t.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.ProblemURL != nil {
		t.ProblemURL = *p.ProblemURL
	}

	if p.Status != nil {
		wasAccepted := t.Status == model.StatusAccepted
		t.Status = *p.Status
		if t.Status == model.StatusAccepted {
			if !wasAccepted {
				now := r.now()
				t.CompletionDate = &now
			}
		} else {
			t.CompletionDate = nil
		}
	}

	return t
}

// normalizeCompletion enforces the invariant on a task entering the
// list from outside the patch path (Add).
func (r *Repository) normalizeCompletion(t model.Task) model.Task {
	if t.Status == model.StatusAccepted {
		if t.CompletionDate == nil {
			now := r.now()
			t.CompletionDate = &now
		}
		return t
	}
	t.CompletionDate = nil
	return t
}

// commit adopts the new task list and writes it through. Callers hold
// r.mu, so write-through stays ordered with the in-memory state.
func (r *Repository) commit(ctx context.Context, next []model.Task) {
	r.tasks = next
	r.persist(ctx, store.KeyTasks, r.tasks)
}

// persist writes a document, logging failures instead of returning
// them. Durability is best-effort: the in-memory list stays
// authoritative for the session even when the write fails.
func (r *Repository) persist(ctx context.Context, key string, value any) {
	if err := r.store.Save(ctx, key, value); err != nil {
		r.logger.Error("persisting document failed",
			"key", key, "error", err)
	}
}
