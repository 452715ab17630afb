package stats

import (
	"sort"

	"github.com/taskpulse/taskpulse/internal/task"
)

// FilterOptions narrows a task listing.
type FilterOptions struct {
	Status    string
	GoalID    string
	Priority  string
	Recurring bool // only recurring tasks
}

// ListOptions controls how tasks are listed.
type ListOptions struct {
	Filter  FilterOptions
	SortBy  string
	Reverse bool
	Limit   int
}

// List returns the document's tasks filtered and sorted. The underlying map
// has no order, so the result is always explicitly sorted (default: created).
func List(doc *task.Document, opts ListOptions) []*task.Task {
	tasks := make([]*task.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if !matches(t, opts.Filter) {
			continue
		}
		tasks = append(tasks, t)
	}

	sortField := opts.SortBy
	if sortField == "" {
		sortField = "created"
	}
	Sort(tasks, sortField, opts.Reverse)

	if opts.Limit > 0 && len(tasks) > opts.Limit {
		tasks = tasks[:opts.Limit]
	}
	return tasks
}

func matches(t *task.Task, f FilterOptions) bool {
	if f.Status != "" && string(t.Status) != f.Status {
		return false
	}
	if f.GoalID != "" && t.GoalID != f.GoalID {
		return false
	}
	if f.Priority != "" && t.Priority != f.Priority {
		return false
	}
	if f.Recurring && t.Recurring == task.RecurNone {
		return false
	}
	return true
}

// Sort orders tasks by the given field. Priority uses rank order
// (high > medium > low), not alphabetical. Ties fall back to id so the
// ordering is deterministic.
func Sort(tasks []*task.Task, field string, reverse bool) {
	sort.SliceStable(tasks, func(i, j int) bool {
		less := compareTasks(tasks[i], tasks[j], field)
		if reverse {
			return !less
		}
		return less
	})
}

func compareTasks(a, b *task.Task, field string) bool {
	switch field {
	case "priority":
		if ra, rb := task.PriorityRank(a.Priority), task.PriorityRank(b.Priority); ra != rb {
			return ra < rb
		}
	case "status":
		if sa, sb := statusRank(a.Status), statusRank(b.Status); sa != sb {
			return sa < sb
		}
	case "progress":
		if a.Progress != b.Progress {
			return a.Progress < b.Progress
		}
	case "updated":
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.Before(b.UpdatedAt)
		}
	case "due":
		return compareDue(a, b)
	default: // created
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	return a.ID < b.ID
}

func compareDue(a, b *task.Task) bool {
	if a.NextDueAt == nil && b.NextDueAt == nil {
		return a.ID < b.ID
	}
	if a.NextDueAt == nil {
		return false // nil sorts last
	}
	if b.NextDueAt == nil {
		return true
	}
	return a.NextDueAt.Before(*b.NextDueAt)
}

// StatusOrder is the display order of the four lifecycle states.
var StatusOrder = []task.Status{
	task.StatusPending,
	task.StatusInProgress,
	task.StatusBlocked,
	task.StatusCompleted,
}

func statusRank(s task.Status) int {
	for i, known := range StatusOrder {
		if known == s {
			return i
		}
	}
	return len(StatusOrder)
}
