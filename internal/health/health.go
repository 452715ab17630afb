// Package health scans the document for invariant violations and repairs
// the ones with a single safe deterministic fix. The pass is idempotent:
// every repair removes the condition it fires on, so a second run applies
// no further changes. Advisory findings (action "none") recur until a human
// resolves them.
package health

import (
	"sort"
	"time"

	"github.com/taskpulse/taskpulse/internal/task"
)

// Violation kinds.
const (
	KindOrphanedGoalRef      = "orphaned_goal_ref"
	KindRecurringWithoutGoal = "recurring_without_goal"
	KindStaleRecurrence      = "stale_recurrence"
	KindReviewRequired       = "review_required"
	KindIncompleteStatus     = "incomplete_status_fixed"
	KindCompletedProgress    = "completed_progress_fixed"
	KindMissingCompletedAt   = "missing_completed_at"
	KindFutureCompletedAt    = "future_completed_at"
)

// Actions taken by the checker.
const (
	ActionNone           = "none"
	ActionDetachedGoal   = "detached_goal"
	ActionClearedNextDue = "cleared_next_due"
	ActionSetCompleted   = "set_completed"
	ActionSetProgress100 = "set_progress_100"
	ActionSetCompletedAt = "set_completed_at"
	ActionResetCompleted = "reset_completed_at"
)

// timeAnomalyFactor flags tasks whose actual time exceeds the estimate by
// this factor; no auto-fix, human judgment needed.
const timeAnomalyFactor = 10

// Finding reports one detected violation and what, if anything, was changed.
type Finding struct {
	TaskID string `json:"task_id"`
	Kind   string `json:"kind"`
	Action string `json:"action"`
}

// Report is the result of one health-check pass.
type Report struct {
	Findings []Finding `json:"findings"`
	Repaired int       `json:"repaired"`
}

// Check runs the repair pass over every task, mutating the document in
// place. The caller persists the document iff Repaired > 0.
func Check(doc *task.Document, now time.Time) Report {
	var report Report

	for _, id := range sortedTaskIDs(doc) {
		t := doc.Tasks[id]

		// Dangling goal reference: detach rather than delete, preserving
		// the task as history.
		if t.GoalID != "" {
			if _, ok := doc.Goals[t.GoalID]; !ok {
				t.GoalID = ""
				t.UpdatedAt = now
				report.add(t.ID, KindOrphanedGoalRef, ActionDetachedGoal)
			}
		}

		// Recurring without a goal is ambiguous in the source material:
		// report only, never guess a repair.
		if t.Recurring != task.RecurNone && t.GoalID == "" {
			report.add(t.ID, KindRecurringWithoutGoal, ActionNone)
		}

		// Time anomaly: flagged for review, no mutation.
		if t.EstimateMinutes != nil && *t.EstimateMinutes > 0 &&
			t.ActualMinutes > *t.EstimateMinutes*timeAnomalyFactor {
			report.add(t.ID, KindReviewRequired, ActionNone)
		}

		// progress = 100 implies completed.
		if t.Progress == 100 && t.Status != task.StatusCompleted {
			t.Status = task.StatusCompleted
			t.BlockedReason = ""
			completedAt := now
			t.CompletedAt = &completedAt
			t.UpdatedAt = now
			report.add(t.ID, KindIncompleteStatus, ActionSetCompleted)
		}

		// completed implies progress = 100.
		if t.Status == task.StatusCompleted && t.Progress < 100 {
			t.Progress = 100
			t.UpdatedAt = now
			report.add(t.ID, KindCompletedProgress, ActionSetProgress100)
		}

		// Completed tasks must not keep a live recurrence pointer. Runs
		// after the status repairs so a completion applied above is swept
		// in the same pass.
		if t.Status == task.StatusCompleted && t.NextDueAt != nil && t.NextDueAt.After(now) {
			t.NextDueAt = nil
			t.UpdatedAt = now
			report.add(t.ID, KindStaleRecurrence, ActionClearedNextDue)
		}

		// completed implies completed_at is set and not in the future.
		if t.Status == task.StatusCompleted {
			switch {
			case t.CompletedAt == nil:
				completedAt := now
				t.CompletedAt = &completedAt
				t.UpdatedAt = now
				report.add(t.ID, KindMissingCompletedAt, ActionSetCompletedAt)
			case t.CompletedAt.After(now):
				completedAt := now
				t.CompletedAt = &completedAt
				t.UpdatedAt = now
				report.add(t.ID, KindFutureCompletedAt, ActionResetCompleted)
			}
		}
	}

	return report
}

func (r *Report) add(taskID, kind, action string) {
	r.Findings = append(r.Findings, Finding{TaskID: taskID, Kind: kind, Action: action})
	if action != ActionNone {
		r.Repaired++
	}
}

// sortedTaskIDs gives the pass a deterministic scan order.
func sortedTaskIDs(doc *task.Document) []string {
	ids := make([]string, 0, len(doc.Tasks))
	for id := range doc.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
