package task

import (
	"math"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/clock"
)

// Engine applies field-level mutations and enforces status transitions.
// All validation happens before any field is touched, so a failed operation
// leaves the document unchanged.
type Engine struct {
	clock clock.Clock
}

// NewEngine creates an Engine with the given time source.
func NewEngine(c clock.Clock) *Engine {
	return &Engine{clock: c}
}

// CreateGoal adds a new goal to the document.
func (e *Engine) CreateGoal(doc *Document, title, priority string) (*Goal, error) {
	if err := ValidateTitle(title); err != nil {
		return nil, err
	}
	if priority == "" {
		priority = PriorityMedium
	}
	if err := ValidatePriority(priority); err != nil {
		return nil, err
	}

	now := e.clock.Now()
	g := &Goal{
		ID:        NewGoalID(),
		Title:     title,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	doc.Goals[g.ID] = g
	return g, nil
}

// CreateParams holds the fields for a new task.
type CreateParams struct {
	GoalID          string
	Title           string
	Priority        string
	EstimateMinutes *int
	Recurring       Recurrence
	Notes           string
}

// CreateTask adds a new task in status pending with progress 0. Recurring
// tasks start with next_due_at set to the creation time (due immediately).
func (e *Engine) CreateTask(doc *Document, p CreateParams) (*Task, error) {
	if err := ValidateTitle(p.Title); err != nil {
		return nil, err
	}
	if p.GoalID != "" {
		if _, err := doc.FindGoal(p.GoalID); err != nil {
			return nil, err
		}
	}
	if p.Priority == "" {
		p.Priority = PriorityMedium
	}
	if err := ValidatePriority(p.Priority); err != nil {
		return nil, err
	}
	if err := ValidateEstimate(p.EstimateMinutes); err != nil {
		return nil, err
	}
	if p.Recurring != RecurNone {
		if err := ValidateRecurrence(p.Recurring); err != nil {
			return nil, err
		}
	}

	now := e.clock.Now()
	t := &Task{
		ID:              NewTaskID(),
		GoalID:          p.GoalID,
		Title:           p.Title,
		Priority:        p.Priority,
		Status:          StatusPending,
		Progress:        0,
		EstimateMinutes: copyInt(p.EstimateMinutes),
		Recurring:       p.Recurring,
		Notes:           p.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if t.Recurring != RecurNone {
		due := now
		t.NextDueAt = &due
	}
	doc.Tasks[t.ID] = t
	return t, nil
}

// SetProgress updates a task's progress and derives its status. Reaching 100
// completes the task; completing a recurring task also generates its
// successor, returned as the second value.
func (e *Engine) SetProgress(doc *Document, id string, progress int, notes string) (*Task, *Task, error) {
	t, err := doc.FindTask(id)
	if err != nil {
		return nil, nil, err
	}
	if err := ValidateProgress(progress); err != nil {
		return nil, nil, err
	}
	if t.Completed() {
		return nil, nil, alreadyCompleted(t)
	}

	now := e.clock.Now()
	t.Progress = progress
	t.BlockedReason = ""
	t.Status = StatusFor(progress, false)
	t.UpdatedAt = now
	t.AppendNotes(notes)

	var successor *Task
	if t.Status == StatusCompleted {
		t.CompletedAt = &now
		if t.Recurring != RecurNone {
			successor = e.regenerate(doc, t)
		}
	}
	return t, successor, nil
}

// Complete marks a task completed from any non-terminal state.
func (e *Engine) Complete(doc *Document, id string) (*Task, *Task, error) {
	return e.SetProgress(doc, id, 100, "")
}

// LogTime adds minutes to a task's actual time and recomputes the variance.
// Logging on a completed task is permitted (corrective logging) and does not
// reopen it.
func (e *Engine) LogTime(doc *Document, id string, minutes int, notes string) (*Task, error) {
	t, err := doc.FindTask(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateMinutes(minutes); err != nil {
		return nil, err
	}

	t.ActualMinutes += minutes
	recomputeVariance(t)
	t.UpdatedAt = e.clock.Now()
	t.AppendNotes(notes)
	return t, nil
}

// MarkBlocked moves a non-completed task to blocked. Progress is untouched.
func (e *Engine) MarkBlocked(doc *Document, id, reason string) (*Task, error) {
	t, err := doc.FindTask(id)
	if err != nil {
		return nil, err
	}
	if err := ValidateBlockReason(reason); err != nil {
		return nil, err
	}
	if t.Completed() {
		return nil, alreadyCompleted(t)
	}

	t.Status = StatusFor(t.Progress, true)
	t.BlockedReason = reason
	t.UpdatedAt = e.clock.Now()
	return t, nil
}

// Unblock clears the block and recomputes status from progress.
func (e *Engine) Unblock(doc *Document, id string) (*Task, error) {
	t, err := doc.FindTask(id)
	if err != nil {
		return nil, err
	}
	if t.Status != StatusBlocked {
		return nil, clierr.Newf(clierr.NotBlocked, "task %s is not blocked", id).
			WithDetails(map[string]any{"id": id, "status": t.Status})
	}

	t.BlockedReason = ""
	t.Status = StatusFor(t.Progress, false)
	t.UpdatedAt = e.clock.Now()
	return t, nil
}

func alreadyCompleted(t *Task) error {
	return clierr.Newf(clierr.AlreadyCompleted, "task %s is already completed", t.ID).
		WithDetails(map[string]any{"id": t.ID})
}

// recomputeVariance refreshes time_variance_percent from the current
// estimate/actual pair. Undefined (nil) when the estimate is zero or unset.
func recomputeVariance(t *Task) {
	if t.EstimateMinutes == nil || *t.EstimateMinutes <= 0 {
		t.TimeVariancePercent = nil
		return
	}
	estimate := float64(*t.EstimateMinutes)
	v := round1((float64(t.ActualMinutes) - estimate) / estimate * 100)
	t.TimeVariancePercent = &v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
