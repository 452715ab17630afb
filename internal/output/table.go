package output

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/taskpulse/taskpulse/internal/health"
	"github.com/taskpulse/taskpulse/internal/stats"
	"github.com/taskpulse/taskpulse/internal/task"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	titleStyle  = lipgloss.NewStyle().Bold(true)

	// Status colors aligned with the TUI column-header palette.
	statusStyles = map[string]lipgloss.Style{
		"pending":     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		"in_progress": lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		"blocked":     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		"completed":   lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
	}

	// Priority colors matching the TUI priority palette.
	priorityStyles = map[string]lipgloss.Style{
		"high":   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		"medium": lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
		"low":    lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
	}

	recurStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("110"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	titleStyle = lipgloss.NewStyle()
	statusStyles = map[string]lipgloss.Style{}
	priorityStyles = map[string]lipgloss.Style{}
	recurStyle = lipgloss.NewStyle()
	warnStyle = lipgloss.NewStyle()
}

// TaskTable renders a list of tasks as a formatted table.
func TaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	// Calculate column widths.
	const pad = 2
	idW, statusW, prioW, progW, titleW, goalW, recurW := 4, 8, 10, 6, 5, 6, 7
	for _, t := range tasks {
		idW = max(idW, len(t.ID)+pad)
		statusW = max(statusW, len(t.Status)+pad)
		prioW = max(prioW, len(t.Priority)+pad)
		titleW = max(titleW, min(len(t.Title)+pad, 50)) //nolint:mnd // max title column width
		goalW = max(goalW, len(t.GoalID)+pad)
		recurW = max(recurW, len(t.Recurring)+pad)
	}

	// Print header.
	header := fmt.Sprintf("%-*s %-*s %-*s %*s %-*s %-*s %-*s %s",
		idW, "ID", statusW, "STATUS", prioW, "PRIORITY", progW, "PROG",
		titleW, "TITLE", goalW, "GOAL", recurW, "RECURS", "DUE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	// Print rows.
	for _, t := range tasks {
		title := t.Title
		const maxTitle = 48
		if len(title) > maxTitle {
			title = title[:maxTitle-3] + "..."
		}
		goal := t.GoalID
		if goal == "" {
			goal = dimStyle.Render("--")
		}
		recur := string(t.Recurring)
		if recur == "" {
			recur = dimStyle.Render("--")
		} else {
			recur = recurStyle.Render(recur)
		}
		due := dimStyle.Render("--")
		if t.NextDueAt != nil {
			due = t.NextDueAt.Format("2006-01-02")
		}

		row := fmt.Sprintf("%-*s %s %s %*s %s %s %s %s",
			idW, t.ID,
			padRight(styledValue(string(t.Status), statusStyles), statusW),
			padRight(styledValue(t.Priority, priorityStyles), prioW),
			progW, strconv.Itoa(t.Progress)+"%",
			padRight(title, titleW),
			padRight(goal, goalW),
			padRight(recur, recurW),
			due)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// TaskDetail renders a single task with full detail. Notes are rendered
// separately (see NotesMarkdown) so callers can choose plain or markdown.
func TaskDetail(w io.Writer, t *task.Task) {
	titleLine := fmt.Sprintf("Task %s: %s", t.ID, t.Title)
	fmt.Fprintln(w, titleStyle.Render(titleLine))
	fmt.Fprintln(w, strings.Repeat("─", len(titleLine)))

	printField(w, "Status", styledValue(string(t.Status), statusStyles))
	printField(w, "Priority", styledValue(t.Priority, priorityStyles))
	printField(w, "Progress", strconv.Itoa(t.Progress)+"%")
	printField(w, "Goal", stringOrDash(t.GoalID))
	if t.BlockedReason != "" {
		printField(w, "Blocked", warnStyle.Render(t.BlockedReason))
	}
	if t.EstimateMinutes != nil {
		printField(w, "Estimate", FormatMinutes(*t.EstimateMinutes))
	} else {
		printField(w, "Estimate", dimStyle.Render("--"))
	}
	printField(w, "Logged", FormatMinutes(t.ActualMinutes))
	if t.TimeVariancePercent != nil {
		printField(w, "Variance", fmt.Sprintf("%+.1f%%", *t.TimeVariancePercent))
	}
	if t.Recurring != task.RecurNone {
		printField(w, "Recurs", recurStyle.Render(string(t.Recurring)))
		if t.NextDueAt != nil {
			printField(w, "Next due", t.NextDueAt.Format("2006-01-02 15:04"))
		}
	}
	printField(w, "Created", t.CreatedAt.Format("2006-01-02 15:04"))
	printField(w, "Updated", t.UpdatedAt.Format("2006-01-02 15:04"))
	if t.CompletedAt != nil {
		printField(w, "Completed", t.CompletedAt.Format("2006-01-02 15:04"))
	}
}

// GoalTable renders a list of goals with their task tallies.
func GoalTable(w io.Writer, goals []*task.Goal, doc *task.Document) {
	if len(goals) == 0 {
		fmt.Fprintln(os.Stderr, "No goals found.")
		return
	}

	const pad = 2
	idW, prioW, titleW := 4, 10, 5
	for _, g := range goals {
		idW = max(idW, len(g.ID)+pad)
		prioW = max(prioW, len(g.Priority)+pad)
		titleW = max(titleW, min(len(g.Title)+pad, 50)) //nolint:mnd // max title column width
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %5s %5s",
		idW, "ID", prioW, "PRIORITY", titleW, "TITLE", "TASKS", "DONE")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))

	for _, g := range goals {
		total, done := 0, 0
		for _, t := range doc.TasksForGoal(g.ID) {
			total++
			if t.Completed() {
				done++
			}
		}
		row := fmt.Sprintf("%-*s %s %-*s %5d %5d",
			idW, g.ID,
			padRight(styledValue(g.Priority, priorityStyles), prioW),
			titleW, g.Title, total, done)
		fmt.Fprintln(w, strings.TrimRight(row, " "))
	}
}

// VelocityTable renders a velocity report for one goal.
func VelocityTable(w io.Writer, r *stats.Report) {
	fmt.Fprintln(w, titleStyle.Render("Velocity: "+r.GoalID))
	printField(w, "Window", fmt.Sprintf("%.1fd", r.WindowDays))
	printField(w, "Completed", strconv.Itoa(r.CompletedCount))
	printField(w, "Remaining", strconv.Itoa(r.Remaining))
	printField(w, "Velocity", fmt.Sprintf("%.2f tasks/day", r.VelocityPerDay))
	if r.EstimatedDays != nil {
		printField(w, "ETA", fmt.Sprintf("%.1f days", *r.EstimatedDays))
	} else {
		printField(w, "ETA", dimStyle.Render("unknown (no completions in window)"))
	}

	if len(r.CompletionsByDay) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render("COMPLETIONS"))
		days := make([]string, 0, len(r.CompletionsByDay))
		for d := range r.CompletionsByDay {
			days = append(days, d)
		}
		sort.Strings(days)
		for _, d := range days {
			fmt.Fprintf(w, "  %s  %d\n", d, r.CompletionsByDay[d])
		}
	}
}

// HealthTable renders a health-check report.
func HealthTable(w io.Writer, r health.Report) {
	if len(r.Findings) == 0 {
		fmt.Fprintln(w, "All checks passed.")
		return
	}

	const pad = 2
	idW, kindW := 4, 6
	for _, f := range r.Findings {
		idW = max(idW, len(f.TaskID)+pad)
		kindW = max(kindW, len(f.Kind)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %s", idW, "TASK", kindW, "KIND", "ACTION")
	fmt.Fprintln(w, headerStyle.Render(strings.TrimRight(header, " ")))
	for _, f := range r.Findings {
		action := f.Action
		if action == health.ActionNone {
			action = warnStyle.Render("needs review")
		}
		fmt.Fprintf(w, "%-*s %-*s %s\n", idW, f.TaskID, kindW, f.Kind, action)
	}
	fmt.Fprintf(w, "\n%d finding(s), %d repaired\n", len(r.Findings), r.Repaired)
}

// OverviewTable renders a document summary as a formatted dashboard.
func OverviewTable(w io.Writer, s stats.Overview) {
	fmt.Fprintf(w, "%d goals, %d tasks\n\n", s.TotalGoals, s.TotalTasks)

	header := fmt.Sprintf("%-16s %6s %8s", "STATUS", "COUNT", "OVERDUE")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, ss := range s.Statuses {
		const statusColW = 16
		fmt.Fprintf(w, "%s %6d %8d\n",
			padRight(styledValue(string(ss.Status), statusStyles), statusColW),
			ss.Count, ss.Overdue)
	}

	fmt.Fprintln(w)
	prioHeader := fmt.Sprintf("%-16s %6s", "PRIORITY", "COUNT")
	fmt.Fprintln(w, headerStyle.Render(prioHeader))

	for _, pc := range s.Priorities {
		const prioColW = 16
		fmt.Fprintf(w, "%s %6d\n",
			padRight(styledValue(pc.Priority, priorityStyles), prioColW), pc.Count)
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %-12s %s\n", label+":", value)
}

// FormatMinutes renders a minute count as "Xh Ym" or "Xm".
func FormatMinutes(minutes int) string {
	if minutes >= 60 { //nolint:mnd // 60 minutes per hour
		return strconv.Itoa(minutes/60) + "h " + strconv.Itoa(minutes%60) + "m"
	}
	return strconv.Itoa(minutes) + "m"
}

// padRight pads s with spaces to the given visible width, accounting for ANSI
// escape codes that are invisible but consume bytes.
func padRight(s string, width int) string {
	visible := lipgloss.Width(s)
	if visible >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visible)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

// styledValue renders s using a matching style from the map, or returns s unchanged.
func styledValue(s string, styles map[string]lipgloss.Style) string {
	if st, ok := styles[s]; ok {
		return st.Render(s)
	}
	return s
}
