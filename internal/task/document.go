package task

import (
	"sort"

	"github.com/taskpulse/taskpulse/internal/clierr"
)

// Document is the full persisted state: goal id → Goal, task id → Task.
// It is an explicit passed value; persistence is the store's concern.
type Document struct {
	Goals map[string]*Goal `json:"goals"`
	Tasks map[string]*Task `json:"tasks"`
}

// NewDocument returns an empty document with initialized maps.
func NewDocument() *Document {
	return &Document{
		Goals: make(map[string]*Goal),
		Tasks: make(map[string]*Task),
	}
}

// Init ensures both maps are non-nil after unmarshaling a sparse document.
func (d *Document) Init() {
	if d.Goals == nil {
		d.Goals = make(map[string]*Goal)
	}
	if d.Tasks == nil {
		d.Tasks = make(map[string]*Task)
	}
}

// FindTask returns the task with the given id.
func (d *Document) FindTask(id string) (*Task, error) {
	t, ok := d.Tasks[id]
	if !ok {
		return nil, clierr.Newf(clierr.TaskNotFound, "task not found: %s", id).
			WithDetails(map[string]any{"id": id})
	}
	return t, nil
}

// FindGoal returns the goal with the given id.
func (d *Document) FindGoal(id string) (*Goal, error) {
	g, ok := d.Goals[id]
	if !ok {
		return nil, clierr.Newf(clierr.GoalNotFound, "goal not found: %s", id).
			WithDetails(map[string]any{"id": id})
	}
	return g, nil
}

// TasksForGoal returns all tasks referencing the given goal, ordered by id
// so iteration over the underlying map never leaks into output.
func (d *Document) TasksForGoal(goalID string) []*Task {
	var tasks []*Task
	for _, t := range d.Tasks {
		if t.GoalID == goalID {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks
}
