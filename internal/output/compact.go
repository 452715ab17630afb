package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/taskpulse/taskpulse/internal/health"
	"github.com/taskpulse/taskpulse/internal/stats"
	"github.com/taskpulse/taskpulse/internal/task"
)

// TaskCompact renders a list of tasks in one-line-per-record compact format.
func TaskCompact(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, t := range tasks {
		fmt.Fprintln(w, formatTaskLine(t))
	}
}

// TaskDetailCompact renders a single task with detail in compact format.
func TaskDetailCompact(w io.Writer, t *task.Task) {
	line := formatTaskLine(t)
	if t.EstimateMinutes != nil {
		line += " est:" + FormatMinutes(*t.EstimateMinutes)
	}
	if t.ActualMinutes > 0 {
		line += " logged:" + FormatMinutes(t.ActualMinutes)
	}
	if t.TimeVariancePercent != nil {
		line += fmt.Sprintf(" var:%+.1f%%", *t.TimeVariancePercent)
	}
	fmt.Fprintln(w, line)

	// Timestamps line.
	ts := "  created:" + t.CreatedAt.Format("2006-01-02") +
		" updated:" + t.UpdatedAt.Format("2006-01-02")
	if t.CompletedAt != nil {
		ts += " completed:" + t.CompletedAt.Format("2006-01-02")
	}
	fmt.Fprintln(w, ts)

	if t.Notes != "" {
		for _, noteLine := range strings.Split(t.Notes, "\n") {
			fmt.Fprintln(w, "  "+noteLine)
		}
	}
}

// GoalCompact renders goals one per line with their task tallies.
func GoalCompact(w io.Writer, goals []*task.Goal, doc *task.Document) {
	if len(goals) == 0 {
		fmt.Fprintln(os.Stderr, "No goals found.")
		return
	}

	for _, g := range goals {
		total, done := 0, 0
		for _, t := range doc.TasksForGoal(g.ID) {
			total++
			if t.Completed() {
				done++
			}
		}
		fmt.Fprintf(w, "%s [%s] %s (%d/%d done)\n", g.ID, g.Priority, g.Title, done, total)
	}
}

// VelocityCompact renders a velocity report on two lines.
func VelocityCompact(w io.Writer, r *stats.Report) {
	eta := "unknown"
	if r.EstimatedDays != nil {
		eta = fmt.Sprintf("%.1fd", *r.EstimatedDays)
	}
	fmt.Fprintf(w, "%s window:%.1fd completed:%d remaining:%d velocity:%.2f/d eta:%s\n",
		r.GoalID, r.WindowDays, r.CompletedCount, r.Remaining, r.VelocityPerDay, eta)
}

// HealthCompact renders a health report one finding per line.
func HealthCompact(w io.Writer, r health.Report) {
	for _, f := range r.Findings {
		fmt.Fprintf(w, "%s %s %s\n", f.TaskID, f.Kind, f.Action)
	}
	fmt.Fprintf(w, "%d finding(s), %d repaired\n", len(r.Findings), r.Repaired)
}

// OverviewCompact renders a document summary in compact format.
func OverviewCompact(w io.Writer, s stats.Overview) {
	fmt.Fprintf(w, "%d goals, %d tasks\n", s.TotalGoals, s.TotalTasks)

	for _, ss := range s.Statuses {
		line := "  " + string(ss.Status) + ": " + strconv.Itoa(ss.Count)
		if ss.Overdue > 0 {
			line += " (" + strconv.Itoa(ss.Overdue) + " overdue)"
		}
		fmt.Fprintln(w, line)
	}

	if len(s.Priorities) > 0 {
		parts := make([]string, 0, len(s.Priorities))
		for _, pc := range s.Priorities {
			parts = append(parts, pc.Priority+"="+strconv.Itoa(pc.Count))
		}
		fmt.Fprintln(w, "Priority: "+strings.Join(parts, " "))
	}
}

// formatTaskLine builds the one-line representation of a task.
func formatTaskLine(t *task.Task) string {
	line := t.ID + " [" + string(t.Status) + "/" + t.Priority + "] " +
		strconv.Itoa(t.Progress) + "% " + t.Title

	if t.GoalID != "" {
		line += " goal:" + t.GoalID
	}
	if t.Recurring != task.RecurNone {
		line += " recurs:" + string(t.Recurring)
	}
	if t.NextDueAt != nil {
		line += " due:" + t.NextDueAt.Format("2006-01-02")
	}
	if t.BlockedReason != "" {
		line += " blocked:" + t.BlockedReason
	}

	return line
}
