package store_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkondo/cptrack/internal/model"
	"github.com/mkondo/cptrack/internal/store"
	"github.com/mkondo/cptrack/tests/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSQLiteRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	due := time.Date(2026, 9, 10, 20, 0, 0, 0, time.UTC)
	done := time.Date(2026, 9, 1, 9, 30, 0, 0, time.UTC)
	tasks := []model.Task{
		{
			ID:       "a",
			Title:    "ABC 371 D",
			Status:   model.StatusInProgress,
			Platform: model.PlatformAtCoder,
			DueDate:  &due,
			Tags:     []string{"binary-search", "graph"},
		},
		{
			ID:             "b",
			Title:          "Two Sum",
			Status:         model.StatusAccepted,
			Platform:       model.PlatformLeetCode,
			Difficulty:     model.DifficultyEasy,
			CompletionDate: &done,
		},
	}

	require.NoError(t, s.Save(ctx, store.KeyTasks, tasks))

	var loaded []model.Task
	require.NoError(t, s.Load(ctx, store.KeyTasks, &loaded))
	require.Len(t, loaded, 2)
	assert.Equal(t, tasks[0].ID, loaded[0].ID)
	assert.Equal(t, tasks[0].Tags, loaded[0].Tags)
	assert.True(t, loaded[0].DueDate.Equal(due))
	assert.True(t, loaded[1].CompletionDate.Equal(done))
	assert.Nil(t, loaded[0].CompletionDate)
}

func TestSQLiteLoadMissingKey(t *testing.T) {
	s := testutil.NewTestStore(t)

	var tasks []model.Task
	err := s.Load(context.Background(), store.KeyTasks, &tasks)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSQLiteSaveReplacesDocument(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, store.KeyCategories, []model.Category{{ID: "1", Title: "DP"}}))
	require.NoError(t, s.Save(ctx, store.KeyCategories, []model.Category{
		{ID: "1", Title: "DP"},
		{ID: "2", Title: "グラフ"},
	}))

	var cats []model.Category
	require.NoError(t, s.Load(ctx, store.KeyCategories, &cats))
	assert.Len(t, cats, 2)
	assert.Equal(t, "グラフ", cats[1].Title)
}

func TestLoadOrFallsBackOnMissingKey(t *testing.T) {
	s := store.NewMemoryStore()

	def := []model.Task{{ID: "seed", Title: "seed"}}
	got := store.LoadOr(context.Background(), s, store.KeyTasks, def, discardLogger())
	assert.Equal(t, def, got)
}

func TestLoadOrFallsBackOnCorruptPayload(t *testing.T) {
	s := store.NewMemoryStore()
	s.SetRaw(store.KeyTasks, []byte(`{"this is": "not a task list"`))

	got := store.LoadOr(context.Background(), s, store.KeyTasks, []model.Task{}, discardLogger())
	assert.Empty(t, got)
}

func TestLoadOrReturnsStoredDocument(t *testing.T) {
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, store.KeyTasks, []model.Task{{ID: "x", Title: "X"}}))

	got := store.LoadOr(ctx, s, store.KeyTasks, []model.Task{}, discardLogger())
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].ID)
}
