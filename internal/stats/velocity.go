// Package stats computes read-only aggregates over the document: velocity
// projections, next-task selection, list filtering, and board overviews.
package stats

import (
	"math"
	"time"

	"github.com/taskpulse/taskpulse/internal/task"
)

const hoursPerDay = 24

// Report is the velocity projection for a single goal. It is a pure
// function of the document snapshot; nothing is cached or persisted.
type Report struct {
	GoalID           string         `json:"goal_id"`
	CompletedCount   int            `json:"completed_count"`
	Remaining        int            `json:"remaining"`
	WindowDays       float64        `json:"window_days"`
	VelocityPerDay   float64        `json:"velocity_tasks_per_day"`
	EstimatedDays    *float64       `json:"estimated_days_to_completion"`
	CompletionsByDay map[string]int `json:"completions_by_day,omitempty"`
}

// Velocity computes the throughput report for a goal. lookbackDays
// restricts the window to the last N days; 0 means all history since the
// goal was created. A goal younger than one day is treated as one day old
// to avoid division by zero.
func Velocity(doc *task.Document, goalID string, now time.Time, lookbackDays int) (*Report, error) {
	goal, err := doc.FindGoal(goalID)
	if err != nil {
		return nil, err
	}

	var windowDays float64
	var cutoff time.Time
	if lookbackDays > 0 {
		windowDays = float64(lookbackDays)
		cutoff = now.AddDate(0, 0, -lookbackDays)
	} else {
		windowDays = now.Sub(goal.CreatedAt).Hours() / hoursPerDay
		if windowDays < 1 {
			windowDays = 1
		}
	}

	report := &Report{
		GoalID:           goalID,
		WindowDays:       round1(windowDays),
		CompletionsByDay: make(map[string]int),
	}

	for _, t := range doc.TasksForGoal(goalID) {
		switch t.Status {
		case task.StatusCompleted:
			if t.CompletedAt == nil {
				continue
			}
			if lookbackDays > 0 && t.CompletedAt.Before(cutoff) {
				continue
			}
			report.CompletedCount++
			report.CompletionsByDay[t.CompletedAt.UTC().Format("2006-01-02")]++
		default:
			report.Remaining++
		}
	}

	report.VelocityPerDay = round2(float64(report.CompletedCount) / windowDays)
	switch {
	case report.Remaining == 0:
		zero := 0.0
		report.EstimatedDays = &zero
	case report.VelocityPerDay > 0:
		days := round1(float64(report.Remaining) / report.VelocityPerDay)
		report.EstimatedDays = &days
	default:
		// No throughput yet: projection is undefined (JSON null).
		report.EstimatedDays = nil
	}

	return report, nil
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
