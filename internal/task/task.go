// Package task implements the task lifecycle engine: the goal/task records,
// the status state machine, time logging, and recurrence generation.
package task

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status is the derived lifecycle state of a task.
type Status string

// Task statuses. Completed is terminal.
const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusBlocked    Status = "blocked"
	StatusCompleted  Status = "completed"
)

// Priority levels, highest first.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Priorities is the allowed priority list in rank order.
var Priorities = []string{PriorityHigh, PriorityMedium, PriorityLow}

// Recurrence is the cadence governing automatic regeneration after completion.
type Recurrence string

// Recurrence kinds. The zero value means not recurring.
const (
	RecurNone            Recurrence = ""
	RecurDaily           Recurrence = "daily"
	RecurWeekly          Recurrence = "weekly"
	RecurMonthly         Recurrence = "monthly"
	RecurAfterCompletion Recurrence = "after_completion"
)

// Recurrences is the allowed recurrence kind list.
var Recurrences = []Recurrence{RecurDaily, RecurWeekly, RecurMonthly, RecurAfterCompletion}

// Goal groups related tasks toward an outcome. Goals are never deleted
// while tasks reference them.
type Goal struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Priority  string    `json:"priority"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Task is the central record. Status, completed_at and time_variance_percent
// are derived fields maintained by the engine; they are never set directly.
type Task struct {
	ID                  string     `json:"id"`
	GoalID              string     `json:"goal_id,omitempty"`
	Title               string     `json:"title"`
	Priority            string     `json:"priority"`
	Status              Status     `json:"status"`
	Progress            int        `json:"progress"`
	EstimateMinutes     *int       `json:"estimate_minutes,omitempty"`
	ActualMinutes       int        `json:"actual_minutes"`
	TimeVariancePercent *float64   `json:"time_variance_percent,omitempty"`
	BlockedReason       string     `json:"blocked_reason,omitempty"`
	Recurring           Recurrence `json:"recurring,omitempty"`
	NextDueAt           *time.Time `json:"next_due_at,omitempty"`
	Notes               string     `json:"notes,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
}

// Completed reports whether the task is in its terminal state.
func (t *Task) Completed() bool { return t.Status == StatusCompleted }

// AppendNotes adds a note line, joining with a newline if notes exist.
func (t *Task) AppendNotes(notes string) {
	if notes == "" {
		return
	}
	if t.Notes != "" {
		t.Notes += "\n" + notes
		return
	}
	t.Notes = notes
}

// StatusFor derives the status implied by progress and the blocked flag.
// It is the single place status is computed, so invariant enforcement
// stays centralized.
func StatusFor(progress int, blocked bool) Status {
	switch {
	case blocked:
		return StatusBlocked
	case progress >= 100:
		return StatusCompleted
	case progress > 0:
		return StatusInProgress
	default:
		return StatusPending
	}
}

// PriorityRank returns the sort rank of a priority (lower is more urgent).
// Unknown priorities sort last.
func PriorityRank(p string) int {
	for i, known := range Priorities {
		if known == p {
			return i
		}
	}
	return len(Priorities)
}

// NewTaskID returns a fresh task identifier.
func NewTaskID() string { return newID("task") }

// NewGoalID returns a fresh goal identifier.
func NewGoalID() string { return newID("goal") }

func newID(prefix string) string {
	u := uuid.New()
	return fmt.Sprintf("%s_%x", prefix, u[:4])
}
