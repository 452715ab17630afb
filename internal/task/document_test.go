package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/clierr"
)

func TestFindTaskNotFound(t *testing.T) {
	doc := NewDocument()

	_, err := doc.FindTask("task_nope")
	assert.Equal(t, clierr.TaskNotFound, errCode(t, err))
}

func TestFindGoalNotFound(t *testing.T) {
	doc := NewDocument()

	_, err := doc.FindGoal("goal_nope")
	assert.Equal(t, clierr.GoalNotFound, errCode(t, err))
}

func TestTasksForGoalSorted(t *testing.T) {
	eng, doc := setupEngine(t)
	g, err := eng.CreateGoal(doc, "Ship", "high")
	require.NoError(t, err)

	mustCreateTask(t, eng, doc, CreateParams{Title: "one", GoalID: g.ID})
	mustCreateTask(t, eng, doc, CreateParams{Title: "two", GoalID: g.ID})
	mustCreateTask(t, eng, doc, CreateParams{Title: "elsewhere"})

	tasks := doc.TasksForGoal(g.ID)
	require.Len(t, tasks, 2)
	assert.LessOrEqual(t, tasks[0].ID, tasks[1].ID)
}

func TestInitGuardsNilMaps(t *testing.T) {
	var doc Document
	doc.Init()
	require.NotNil(t, doc.Goals)
	require.NotNil(t, doc.Tasks)
}
