package stats

import (
	"github.com/taskpulse/taskpulse/internal/task"
)

// NextTask selects the task to work on next: among pending and in-progress
// tasks, highest priority first, ties broken by earliest creation time and
// then by id so the ordering is total. goalID narrows the candidates to one
// goal; empty means all tasks. Returns nil when nothing is actionable.
func NextTask(doc *task.Document, goalID string) *task.Task {
	var best *task.Task
	for _, t := range doc.Tasks {
		if t.Status != task.StatusPending && t.Status != task.StatusInProgress {
			continue
		}
		if goalID != "" && t.GoalID != goalID {
			continue
		}
		if best == nil || before(t, best) {
			best = t
		}
	}
	return best
}

// before reports whether a should be picked over b.
func before(a, b *task.Task) bool {
	ra, rb := task.PriorityRank(a.Priority), task.PriorityRank(b.Priority)
	if ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
