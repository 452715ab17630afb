package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/task"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "tasks.json"))
}

func TestLoadMissingFileYieldsEmptyDocument(t *testing.T) {
	s := setupStore(t)

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, doc.Goals)
	assert.Empty(t, doc.Tasks)
	assert.False(t, s.Exists())
}

func TestSaveLoadRoundtrip(t *testing.T) {
	s := setupStore(t)
	now := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

	doc := task.NewDocument()
	doc.Goals["goal_1"] = &task.Goal{
		ID: "goal_1", Title: "Ship", Priority: task.PriorityHigh,
		CreatedAt: now, UpdatedAt: now,
	}
	estimate := 90
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", GoalID: "goal_1", Title: "Write docs",
		Priority: task.PriorityMedium, Status: task.StatusInProgress,
		Progress: 40, EstimateMinutes: &estimate,
		CreatedAt: now, UpdatedAt: now,
	}

	require.NoError(t, s.Save(doc))
	require.True(t, s.Exists())

	loaded, err := s.Load()
	require.NoError(t, err)
	require.Len(t, loaded.Tasks, 1)
	got := loaded.Tasks["task_1"]
	assert.Equal(t, "Write docs", got.Title)
	assert.Equal(t, task.StatusInProgress, got.Status)
	require.NotNil(t, got.EstimateMinutes)
	assert.Equal(t, 90, *got.EstimateMinutes)
	assert.Equal(t, "Ship", loaded.Goals["goal_1"].Title)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	s := setupStore(t)

	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{ID: "task_1", Title: "v1", Priority: task.PriorityLow}
	require.NoError(t, s.Save(doc))

	doc.Tasks["task_1"].Title = "v2"
	require.NoError(t, s.Save(doc))

	loaded, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "v2", loaded.Tasks["task_1"].Title)

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadCorruptedDocumentBacksUpAndFails(t *testing.T) {
	s := setupStore(t)
	corrupt := []byte(`{"goals": {`)
	require.NoError(t, os.WriteFile(s.Path(), corrupt, 0o600))

	_, err := s.Load()
	require.Error(t, err)

	var cliErr *clierr.Error
	require.True(t, errors.As(err, &cliErr))
	assert.Equal(t, clierr.PersistenceError, cliErr.Code)

	backup, readErr := os.ReadFile(s.Path() + ".bak")
	require.NoError(t, readErr, "corrupt document must be preserved as .bak")
	assert.Equal(t, corrupt, backup)
}

func TestLoadNullMapsInitialized(t *testing.T) {
	s := setupStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte(`{"goals": null, "tasks": null}`), 0o600))

	doc, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, doc.Goals)
	require.NotNil(t, doc.Tasks)

	// Maps must be usable immediately.
	doc.Tasks["task_1"] = &task.Task{ID: "task_1", Title: "ok", Priority: task.PriorityLow}
	require.NoError(t, s.Save(doc))
}
