package repo_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/repo"
	"github.com/mkondo/cptrack/internal/store"
)

var fixedNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestRepo builds a repository over a fresh MemoryStore with a
// pinned clock and sequential ids t1, t2, ...
func newTestRepo(t *testing.T) (*repo.Repository, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	seq := 0
	r := repo.New(context.Background(), s, discardLogger(),
		repo.WithClock(func() time.Time { return fixedNow }),
		repo.WithIDSource(func() string {
			seq++
			return fmt.Sprintf("t%d", seq)
		}),
	)
	return r, s
}

func addTask(t *testing.T, r *repo.Repository, title string) model.Task {
	t.Helper()
	task, err := r.Add(context.Background(), model.Task{Title: title})
	require.NoError(t, err)
	return task
}

// requireInvariant checks that completionDate is present exactly on AC
// tasks, for every task in the repository.
func requireInvariant(t *testing.T, r *repo.Repository) {
	t.Helper()
	for _, task := range r.Tasks() {
		if task.Status == model.StatusAccepted {
			require.NotNil(t, task.CompletionDate,
				"AC task %q must carry a completion date", task.ID)
		} else {
			require.Nil(t, task.CompletionDate,
				"non-AC task %q must not carry a completion date", task.ID)
		}
	}
}

func TestAddAssignsIDAndDefaults(t *testing.T) {
	r, _ := newTestRepo(t)

	task := addTask(t, r, "ABC 100 A")
	assert.Equal(t, "t1", task.ID)
	assert.Equal(t, model.StatusNotStarted, task.Status)
	assert.Nil(t, task.CompletionDate)
	assert.Len(t, r.Tasks(), 1)
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	r, _ := newTestRepo(t)

	_, err := r.Add(context.Background(), model.Task{Title: "   "})
	assert.ErrorIs(t, err, repo.ErrEmptyTitle)
	assert.Empty(t, r.Tasks())
}

func TestAddNormalizesCompletionDate(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	stale := fixedNow.AddDate(0, -1, 0)
	notStarted, err := r.Add(ctx, model.Task{
		Title:          "carried a bogus completion",
		CompletionDate: &stale,
	})
	require.NoError(t, err)
	assert.Nil(t, notStarted.CompletionDate)

	accepted, err := r.Add(ctx, model.Task{
		Title:  "already solved elsewhere",
		Status: model.StatusAccepted,
	})
	require.NoError(t, err)
	require.NotNil(t, accepted.CompletionDate)
	assert.Equal(t, fixedNow, *accepted.CompletionDate)
	requireInvariant(t, r)
}

func TestUpdateFieldsMergesOnlyGivenFields(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "original")

	desc := "editorial link here"
	r.UpdateFields(ctx, task.ID, repo.Patch{Description: &desc})

	got, ok := r.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, "original", got.Title)
	assert.Equal(t, desc, got.Description)
	assert.Equal(t, model.StatusNotStarted, got.Status)
}

func TestUpdateFieldsStatusTransitions(t *testing.T) {
	now := fixedNow
	r := repo.New(context.Background(), store.NewMemoryStore(), discardLogger(),
		repo.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	task := addTask(t, r, "ABC 123 C")

	ac := model.StatusAccepted
	r.UpdateFields(ctx, task.ID, repo.Patch{Status: &ac})
	got, _ := r.Task(task.ID)
	require.NotNil(t, got.CompletionDate)
	assert.Equal(t, fixedNow, *got.CompletionDate)

	// AC -> AC keeps the original stamp rather than restamping.
	now = now.Add(3 * time.Hour)
	r.UpdateFields(ctx, task.ID, repo.Patch{Status: &ac})
	again, _ := r.Task(task.ID)
	assert.Equal(t, fixedNow, *again.CompletionDate)

	// Any transition out of AC clears the date.
	wa := model.StatusWrongAnswer
	r.UpdateFields(ctx, task.ID, repo.Patch{Status: &wa})
	cleared, _ := r.Task(task.ID)
	assert.Nil(t, cleared.CompletionDate)
	requireInvariant(t, r)
}

func TestUpdateFieldsUnknownIDLeavesListIntact(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()
	addTask(t, r, "only one")

	title := "nope"
	r.UpdateFields(ctx, "ghost", repo.Patch{Title: &title})

	tasks := r.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "only one", tasks[0].Title)

	// The fresh list is still written through.
	var persisted []model.Task
	require.NoError(t, s.Load(ctx, store.KeyTasks, &persisted))
	assert.Equal(t, tasks, persisted)
}

func TestCycleStatusWalksFullWorkflow(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "cycle me")

	want := []model.Status{
		model.StatusInProgress,
		model.StatusUnderReview,
		model.StatusAccepted,
		model.StatusWrongAnswer,
		model.StatusNotStarted,
	}
	for _, expected := range want {
		r.CycleStatus(ctx, task.ID)
		got, _ := r.Task(task.ID)
		assert.Equal(t, expected, got.Status)
		requireInvariant(t, r)
	}
}

func TestDuplicateResetsProgress(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	task := addTask(t, r, "DP問題")
	tags := []string{"dp", "atcoder"}
	ac := model.StatusAccepted
	notes := "bitmask over subsets"
	r.UpdateFields(ctx, task.ID, repo.Patch{Status: &ac, Tags: &tags, SolutionNotes: &notes})

	r.Duplicate(ctx, task.ID)

	tasks := r.Tasks()
	require.Len(t, tasks, 2)
	clone := tasks[1]
	assert.NotEqual(t, task.ID, clone.ID)
	assert.Equal(t, "DP問題 (コピー)", clone.Title)
	assert.Equal(t, model.StatusNotStarted, clone.Status)
	assert.Nil(t, clone.CompletionDate)
	assert.Equal(t, tags, clone.Tags)
	assert.Equal(t, notes, clone.SolutionNotes)
	requireInvariant(t, r)
}

func TestDuplicateUnknownIDNoOp(t *testing.T) {
	r, _ := newTestRepo(t)
	addTask(t, r, "lonely")

	r.Duplicate(context.Background(), "ghost")
	assert.Len(t, r.Tasks(), 1)
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "to delete")

	r.RequestDelete(task.ID)
	id, pending := r.PendingDelete()
	assert.True(t, pending)
	assert.Equal(t, task.ID, id)

	// The task survives until confirmation.
	assert.Len(t, r.Tasks(), 1)

	r.ConfirmDelete(ctx)
	assert.Empty(t, r.Tasks())
	_, pending = r.PendingDelete()
	assert.False(t, pending)
}

func TestCancelDeleteKeepsTask(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "spared")

	r.RequestDelete(task.ID)
	r.CancelDelete()

	// A confirm after cancel must not delete anything.
	r.ConfirmDelete(ctx)
	assert.Len(t, r.Tasks(), 1)
}

func TestConfirmDeleteIsIdempotent(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "once")
	addTask(t, r, "stays")

	r.RequestDelete(task.ID)
	r.ConfirmDelete(ctx)
	r.ConfirmDelete(ctx)

	tasks := r.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, "stays", tasks[0].Title)
}

func TestReorderMovesAndShifts(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	a := addTask(t, r, "a")
	b := addTask(t, r, "b")
	c := addTask(t, r, "c")
	d := addTask(t, r, "d")

	r.Reorder(ctx, a.ID, 2)

	order := func() []string {
		var ids []string
		for _, task := range r.Tasks() {
			ids = append(ids, task.ID)
		}
		return ids
	}
	assert.Equal(t, []string{b.ID, c.ID, a.ID, d.ID}, order())

	r.Reorder(ctx, d.ID, 0)
	assert.Equal(t, []string{d.ID, b.ID, c.ID, a.ID}, order())
}

func TestReorderClampsOutOfRangeIndex(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	a := addTask(t, r, "a")
	b := addTask(t, r, "b")
	c := addTask(t, r, "c")

	r.Reorder(ctx, a.ID, 99)
	tasks := r.Tasks()
	assert.Equal(t, a.ID, tasks[2].ID)

	r.Reorder(ctx, c.ID, -5)
	tasks = r.Tasks()
	assert.Equal(t, c.ID, tasks[0].ID)
	assert.Equal(t, b.ID, tasks[1].ID)
	assert.Len(t, tasks, 3)
}

func TestReorderPreservesTaskSet(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		addTask(t, r, fmt.Sprintf("task %d", i))
	}
	before := r.Tasks()

	r.Reorder(ctx, before[4].ID, 1)
	r.Reorder(ctx, before[0].ID, 3)

	after := r.Tasks()
	require.Len(t, after, len(before))
	seen := make(map[string]bool)
	for _, task := range after {
		seen[task.ID] = true
	}
	for _, task := range before {
		assert.True(t, seen[task.ID], "task %s lost in reorder", task.ID)
	}
}

func TestMutationsWriteThrough(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()
	task := addTask(t, r, "persisted")

	ac := model.StatusAccepted
	r.UpdateFields(ctx, task.ID, repo.Patch{Status: &ac})

	var persisted []model.Task
	require.NoError(t, s.Load(ctx, store.KeyTasks, &persisted))
	require.Len(t, persisted, 1)
	assert.Equal(t, model.StatusAccepted, persisted[0].Status)
	require.NotNil(t, persisted[0].CompletionDate)
}

func TestRepositoryLoadsExistingDocuments(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, store.KeyTasks, []model.Task{
		{ID: "old", Title: "carried over", Status: model.StatusInProgress},
	}))
	require.NoError(t, s.Save(ctx, store.KeyCategories, []model.Category{
		{ID: "c1", Title: "グラフ"},
	}))

	r := repo.New(ctx, s, discardLogger())
	require.Len(t, r.Tasks(), 1)
	assert.Equal(t, "carried over", r.Tasks()[0].Title)
	require.Len(t, r.Categories(), 1)
}

func TestRepositoryStartsEmptyOnCorruptDocument(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetRaw(store.KeyTasks, []byte(`not json at all`))

	r := repo.New(context.Background(), s, discardLogger())
	assert.Empty(t, r.Tasks())
}

// failingStore accepts loads but rejects every save.
type failingStore struct{}

func (failingStore) Load(_ context.Context, key string, _ any) error {
	return fmt.Errorf("loading %q: %w", key, store.ErrNotFound)
}

func (failingStore) Save(context.Context, string, any) error {
	return errors.New("disk full")
}

func (failingStore) Close() error { return nil }

func TestSaveFailureKeepsSessionState(t *testing.T) {
	r := repo.New(context.Background(), failingStore{}, discardLogger(),
		repo.WithIDSource(func() string { return "t1" }))

	task, err := r.Add(context.Background(), model.Task{Title: "still here"})
	require.NoError(t, err)

	got, ok := r.Task(task.ID)
	assert.True(t, ok)
	assert.Equal(t, "still here", got.Title)
}

// The UI runs each mutation in its own goroutine, so cycling and
// snapshotting must be safe to interleave. Run with -race.
func TestConcurrentCyclesAndSnapshots(t *testing.T) {
	r, _ := newTestRepo(t)
	ctx := context.Background()

	task := addTask(t, r, "ABC 400 F")

	const workers = 5
	const cyclesPerWorker = 5

	var wg sync.WaitGroup
	for range workers {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range cyclesPerWorker {
				r.CycleStatus(ctx, task.ID)
			}
		}()
		go func() {
			defer wg.Done()
			for range cyclesPerWorker {
				_ = r.Tasks()
				_, _ = r.Task(task.ID)
			}
		}()
	}
	wg.Wait()

	// 25 advances through a 5-state cycle land back at the start.
	got, ok := r.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, model.StatusNotStarted, got.Status)
	assert.Len(t, r.Tasks(), 1)
	requireInvariant(t, r)
}

func TestCategoryLifecycle(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	_, err := r.AddCategory(ctx, "  ")
	assert.ErrorIs(t, err, repo.ErrEmptyCategoryTitle)

	cat, err := r.AddCategory(ctx, "動的計画法")
	require.NoError(t, err)
	assert.Equal(t, "動的計画法", cat.Title)
	require.Len(t, r.Categories(), 1)

	var persisted []model.Category
	require.NoError(t, s.Load(ctx, store.KeyCategories, &persisted))
	assert.Len(t, persisted, 1)

	r.RemoveCategory(ctx, cat.ID)
	assert.Empty(t, r.Categories())
}
