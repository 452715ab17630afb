package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/task"
)

func buildListDoc() *task.Document {
	doc := task.NewDocument()
	t1 := addTask(doc, "task_1", task.PriorityLow, task.StatusPending, statsNow.Add(-3*time.Hour))
	t1.GoalID = "goal_1"
	t2 := addTask(doc, "task_2", task.PriorityHigh, task.StatusInProgress, statsNow.Add(-2*time.Hour))
	t2.Progress = 50
	addTask(doc, "task_3", task.PriorityMedium, task.StatusCompleted, statsNow.Add(-time.Hour))
	t4 := addTask(doc, "task_4", task.PriorityHigh, task.StatusBlocked, statsNow)
	t4.Recurring = task.RecurWeekly
	return doc
}

func TestListDefaultSortIsCreated(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{})
	require.Len(t, tasks, 4)
	assert.Equal(t, "task_1", tasks[0].ID)
	assert.Equal(t, "task_4", tasks[3].ID)
}

func TestListFilterByStatus(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{Filter: FilterOptions{Status: "in_progress"}})
	require.Len(t, tasks, 1)
	assert.Equal(t, "task_2", tasks[0].ID)
}

func TestListFilterByGoalAndPriority(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{Filter: FilterOptions{GoalID: "goal_1"}})
	require.Len(t, tasks, 1)
	assert.Equal(t, "task_1", tasks[0].ID)

	tasks = List(doc, ListOptions{Filter: FilterOptions{Priority: task.PriorityHigh}})
	assert.Len(t, tasks, 2)
}

func TestListFilterRecurring(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{Filter: FilterOptions{Recurring: true}})
	require.Len(t, tasks, 1)
	assert.Equal(t, "task_4", tasks[0].ID)
}

func TestListSortByPriorityRank(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{SortBy: "priority"})
	require.Len(t, tasks, 4)
	// high < medium < low; ties (task_2, task_4) break by id.
	assert.Equal(t, "task_2", tasks[0].ID)
	assert.Equal(t, "task_4", tasks[1].ID)
	assert.Equal(t, "task_3", tasks[2].ID)
	assert.Equal(t, "task_1", tasks[3].ID)
}

func TestListReverseAndLimit(t *testing.T) {
	doc := buildListDoc()

	tasks := List(doc, ListOptions{Reverse: true, Limit: 2})
	require.Len(t, tasks, 2)
	assert.Equal(t, "task_4", tasks[0].ID)
}

func TestSortByDueNilSortsLast(t *testing.T) {
	doc := task.NewDocument()
	due := statsNow.AddDate(0, 0, 2)
	withDue := addTask(doc, "task_due", task.PriorityMedium, task.StatusPending, statsNow)
	withDue.NextDueAt = &due
	addTask(doc, "task_nodue", task.PriorityMedium, task.StatusPending, statsNow)

	tasks := List(doc, ListOptions{SortBy: "due"})
	require.Len(t, tasks, 2)
	assert.Equal(t, "task_due", tasks[0].ID)
}

func TestSummaryCountsAndOverdue(t *testing.T) {
	doc := buildListDoc()
	overdueAt := statsNow.Add(-time.Hour)
	doc.Tasks["task_4"].NextDueAt = &overdueAt
	doc.Goals["goal_1"] = &task.Goal{ID: "goal_1", Title: "g", Priority: task.PriorityLow,
		CreatedAt: statsNow, UpdatedAt: statsNow}

	s := Summary(doc, statsNow)
	assert.Equal(t, 1, s.TotalGoals)
	assert.Equal(t, 4, s.TotalTasks)

	byStatus := make(map[task.Status]StatusCount)
	for _, sc := range s.Statuses {
		byStatus[sc.Status] = sc
	}
	assert.Equal(t, 1, byStatus[task.StatusPending].Count)
	assert.Equal(t, 1, byStatus[task.StatusBlocked].Count)
	assert.Equal(t, 1, byStatus[task.StatusBlocked].Overdue)
	assert.Equal(t, 0, byStatus[task.StatusCompleted].Overdue)

	byPriority := make(map[string]int)
	for _, pc := range s.Priorities {
		byPriority[pc.Priority] = pc.Count
	}
	assert.Equal(t, 2, byPriority[task.PriorityHigh])
}
