package stats

import (
	"time"

	"github.com/taskpulse/taskpulse/internal/task"
)

// StatusCount holds the task count for one status.
type StatusCount struct {
	Status  task.Status `json:"status"`
	Count   int         `json:"count"`
	Overdue int         `json:"overdue,omitempty"`
}

// PriorityCount holds the task count for one priority level.
type PriorityCount struct {
	Priority string `json:"priority"`
	Count    int    `json:"count"`
}

// Overview is the aggregate document summary.
type Overview struct {
	TotalGoals int             `json:"total_goals"`
	TotalTasks int             `json:"total_tasks"`
	Statuses   []StatusCount   `json:"statuses"`
	Priorities []PriorityCount `json:"priorities"`
}

// Summary computes the document overview. A non-completed recurring task
// whose next_due_at lies at or before now counts as overdue.
func Summary(doc *task.Document, now time.Time) Overview {
	statusMap := make(map[task.Status]*StatusCount, len(StatusOrder))
	for _, s := range StatusOrder {
		statusMap[s] = &StatusCount{Status: s}
	}
	prioMap := make(map[string]int, len(task.Priorities))

	for _, t := range doc.Tasks {
		if sc, ok := statusMap[t.Status]; ok {
			sc.Count++
			if t.Status != task.StatusCompleted && t.NextDueAt != nil && !t.NextDueAt.After(now) {
				sc.Overdue++
			}
		}
		prioMap[t.Priority]++
	}

	statuses := make([]StatusCount, 0, len(StatusOrder))
	for _, s := range StatusOrder {
		statuses = append(statuses, *statusMap[s])
	}

	priorities := make([]PriorityCount, 0, len(task.Priorities))
	for _, p := range task.Priorities {
		priorities = append(priorities, PriorityCount{Priority: p, Count: prioMap[p]})
	}

	return Overview{
		TotalGoals: len(doc.Goals),
		TotalTasks: len(doc.Tasks),
		Statuses:   statuses,
		Priorities: priorities,
	}
}
