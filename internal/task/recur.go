package task

import (
	"time"

	"github.com/taskpulse/taskpulse/internal/clierr"
)

// Advance completes a recurring task and generates its successor atomically.
// Unlike SetProgress it does not require the task to have reached any
// particular progress first.
func (e *Engine) Advance(doc *Document, id string) (*Task, *Task, error) {
	t, err := doc.FindTask(id)
	if err != nil {
		return nil, nil, err
	}
	if t.Recurring == RecurNone {
		return nil, nil, clierr.Newf(clierr.NotRecurring, "task %s is not recurring", id).
			WithDetails(map[string]any{"id": id})
	}
	if t.Completed() {
		return nil, nil, alreadyCompleted(t)
	}

	now := e.clock.Now()
	t.Progress = 100
	t.Status = StatusCompleted
	t.BlockedReason = ""
	t.CompletedAt = &now
	t.UpdatedAt = now

	successor := e.regenerate(doc, t)
	return t, successor, nil
}

// regenerate creates the successor of a just-completed recurring task and
// clears the predecessor's next_due_at so only one live instance exists.
// The caller must have set CompletedAt already.
func (e *Engine) regenerate(doc *Document, src *Task) *Task {
	now := e.clock.Now()

	base := now
	if src.NextDueAt != nil {
		base = *src.NextDueAt
	}
	completedAt := now
	if src.CompletedAt != nil {
		completedAt = *src.CompletedAt
	}
	due := NextDue(src.Recurring, base, completedAt)

	successor := &Task{
		ID:              NewTaskID(),
		GoalID:          src.GoalID,
		Title:           src.Title,
		Priority:        src.Priority,
		Status:          StatusPending,
		Progress:        0,
		EstimateMinutes: copyInt(src.EstimateMinutes),
		Recurring:       src.Recurring,
		NextDueAt:       &due,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	src.NextDueAt = nil
	doc.Tasks[successor.ID] = successor
	return successor
}

// NextDue computes the successor due date from the recurrence kind, the
// predecessor's due date, and the completion timestamp.
func NextDue(kind Recurrence, base, completedAt time.Time) time.Time {
	switch kind {
	case RecurDaily:
		return base.AddDate(0, 0, 1)
	case RecurWeekly:
		return base.AddDate(0, 0, 7)
	case RecurMonthly:
		return addMonthClamped(base)
	default:
		// after_completion: due immediately.
		return completedAt
	}
}

// addMonthClamped advances one calendar month, clamping to the last valid
// day when the origin day-of-month does not exist in the target month
// (Jan 31 → Feb 28/29).
func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	firstOfNext := time.Date(year, month+1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysInMonth(firstOfNext.Year(), firstOfNext.Month()); day > last {
		day = last
	}
	return time.Date(firstOfNext.Year(), firstOfNext.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// daysInMonth returns the number of days in the given month.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
