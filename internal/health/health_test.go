package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/task"
)

var checkNow = time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)

func findKind(r Report, kind string) *Finding {
	for i := range r.Findings {
		if r.Findings[i].Kind == kind {
			return &r.Findings[i]
		}
	}
	return nil
}

func TestCheckCleanDocument(t *testing.T) {
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "fine", Priority: task.PriorityMedium,
		Status: task.StatusPending, CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	assert.Empty(t, report.Findings)
	assert.Zero(t, report.Repaired)
}

func TestCheckOrphanedGoalRefDetaches(t *testing.T) {
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", GoalID: "goal_gone", Title: "orphan", Priority: task.PriorityMedium,
		Status: task.StatusPending, CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	f := findKind(report, KindOrphanedGoalRef)
	require.NotNil(t, f)
	assert.Equal(t, ActionDetachedGoal, f.Action)
	assert.Empty(t, doc.Tasks["task_1"].GoalID, "task survives with the reference cleared")
	assert.Equal(t, 1, report.Repaired)
}

func TestCheckIncompleteStatusFixed(t *testing.T) {
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "stuck at done", Priority: task.PriorityMedium,
		Status: task.StatusInProgress, Progress: 100,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	f := findKind(report, KindIncompleteStatus)
	require.NotNil(t, f)
	assert.Equal(t, ActionSetCompleted, f.Action)

	fixed := doc.Tasks["task_1"]
	assert.Equal(t, task.StatusCompleted, fixed.Status)
	require.NotNil(t, fixed.CompletedAt)
	assert.Equal(t, checkNow, *fixed.CompletedAt)
}

func TestCheckCompletedProgressFixed(t *testing.T) {
	completedAt := checkNow.Add(-time.Hour)
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "done at 80", Priority: task.PriorityMedium,
		Status: task.StatusCompleted, Progress: 80, CompletedAt: &completedAt,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	f := findKind(report, KindCompletedProgress)
	require.NotNil(t, f)
	assert.Equal(t, ActionSetProgress100, f.Action)
	assert.Equal(t, 100, doc.Tasks["task_1"].Progress)
}

func TestCheckMissingAndFutureCompletedAt(t *testing.T) {
	future := checkNow.Add(48 * time.Hour)
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "no timestamp", Priority: task.PriorityMedium,
		Status: task.StatusCompleted, Progress: 100,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}
	doc.Tasks["task_2"] = &task.Task{
		ID: "task_2", Title: "from the future", Priority: task.PriorityMedium,
		Status: task.StatusCompleted, Progress: 100, CompletedAt: &future,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	require.NotNil(t, findKind(report, KindMissingCompletedAt))
	require.NotNil(t, findKind(report, KindFutureCompletedAt))
	assert.Equal(t, checkNow, *doc.Tasks["task_1"].CompletedAt)
	assert.Equal(t, checkNow, *doc.Tasks["task_2"].CompletedAt)
}

func TestCheckStaleRecurrenceCleared(t *testing.T) {
	due := checkNow.Add(24 * time.Hour)
	completedAt := checkNow.Add(-time.Hour)
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "finished but scheduled", Priority: task.PriorityMedium,
		Status: task.StatusCompleted, Progress: 100, CompletedAt: &completedAt,
		Recurring: task.RecurWeekly, NextDueAt: &due,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	f := findKind(report, KindStaleRecurrence)
	require.NotNil(t, f)
	assert.Equal(t, ActionClearedNextDue, f.Action)
	assert.Nil(t, doc.Tasks["task_1"].NextDueAt)
}

func TestCheckAdvisoryFindingsDoNotRepair(t *testing.T) {
	estimate := 10
	due := checkNow
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", Title: "recurring without goal", Priority: task.PriorityMedium,
		Status: task.StatusPending, Recurring: task.RecurDaily, NextDueAt: &due,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}
	doc.Tasks["task_2"] = &task.Task{
		ID: "task_2", Title: "time sink", Priority: task.PriorityMedium,
		Status: task.StatusInProgress, Progress: 10,
		EstimateMinutes: &estimate, ActualMinutes: 150,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, ActionNone, report.Findings[0].Action)
	assert.Equal(t, ActionNone, report.Findings[1].Action)
	assert.Zero(t, report.Repaired)
}

func TestCheckRepairsAreIdempotent(t *testing.T) {
	future := checkNow.Add(time.Hour)
	doc := task.NewDocument()
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", GoalID: "goal_gone", Title: "multi-broken", Priority: task.PriorityMedium,
		Status: task.StatusInProgress, Progress: 100,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}
	doc.Tasks["task_2"] = &task.Task{
		ID: "task_2", Title: "future done", Priority: task.PriorityMedium,
		Status: task.StatusCompleted, Progress: 50, CompletedAt: &future,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}
	due := checkNow.Add(24 * time.Hour)
	doc.Tasks["task_3"] = &task.Task{
		ID: "task_3", GoalID: "goal_1", Title: "done but still scheduled",
		Priority: task.PriorityMedium, Status: task.StatusInProgress, Progress: 100,
		Recurring: task.RecurWeekly, NextDueAt: &due,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}
	doc.Goals["goal_1"] = &task.Goal{ID: "goal_1", Title: "g", Priority: task.PriorityMedium,
		CreatedAt: checkNow, UpdatedAt: checkNow}

	first := Check(doc, checkNow)
	assert.Positive(t, first.Repaired)

	second := Check(doc, checkNow)
	assert.Empty(t, second.Findings, "second pass over a repaired document finds nothing")
	assert.Zero(t, second.Repaired)
}

func TestCheckCompletionRepairSweepsLiveRecurrence(t *testing.T) {
	due := checkNow.Add(24 * time.Hour)
	doc := task.NewDocument()
	doc.Goals["goal_1"] = &task.Goal{ID: "goal_1", Title: "g", Priority: task.PriorityMedium,
		CreatedAt: checkNow, UpdatedAt: checkNow}
	doc.Tasks["task_1"] = &task.Task{
		ID: "task_1", GoalID: "goal_1", Title: "at 100 with a future due",
		Priority: task.PriorityMedium, Status: task.StatusInProgress, Progress: 100,
		Recurring: task.RecurWeekly, NextDueAt: &due,
		CreatedAt: checkNow, UpdatedAt: checkNow,
	}

	report := Check(doc, checkNow)
	require.NotNil(t, findKind(report, KindIncompleteStatus))
	require.NotNil(t, findKind(report, KindStaleRecurrence),
		"the recurrence pointer is cleared in the same pass that completes the task")
	assert.Equal(t, 2, report.Repaired)

	fixed := doc.Tasks["task_1"]
	assert.Equal(t, task.StatusCompleted, fixed.Status)
	assert.Nil(t, fixed.NextDueAt)

	second := Check(doc, checkNow)
	assert.Empty(t, second.Findings)
}

func TestCheckDeterministicOrder(t *testing.T) {
	doc := task.NewDocument()
	doc.Tasks["task_b"] = &task.Task{ID: "task_b", GoalID: "goal_gone", Title: "b",
		Priority: task.PriorityMedium, Status: task.StatusPending,
		CreatedAt: checkNow, UpdatedAt: checkNow}
	doc.Tasks["task_a"] = &task.Task{ID: "task_a", GoalID: "goal_gone", Title: "a",
		Priority: task.PriorityMedium, Status: task.StatusPending,
		CreatedAt: checkNow, UpdatedAt: checkNow}

	report := Check(doc, checkNow)
	require.Len(t, report.Findings, 2)
	assert.Equal(t, "task_a", report.Findings[0].TaskID)
	assert.Equal(t, "task_b", report.Findings[1].TaskID)
}
