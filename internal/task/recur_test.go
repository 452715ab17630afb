package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/clock"
)

func TestAdvanceWeekly(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Weekly review", Recurring: RecurWeekly})

	completed, successor, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, completed.Status)
	assert.Equal(t, 100, completed.Progress)
	require.NotNil(t, completed.CompletedAt)
	assert.Nil(t, completed.NextDueAt, "predecessor must release its due date")

	require.NotNil(t, successor)
	assert.NotEqual(t, completed.ID, successor.ID)
	assert.Equal(t, completed.Title, successor.Title)
	assert.Equal(t, StatusPending, successor.Status)
	assert.Equal(t, 0, successor.Progress)
	require.NotNil(t, successor.NextDueAt)
	// Created due 2026-02-12, weekly advances to 2026-02-19.
	assert.Equal(t, time.Date(2026, 2, 19, 10, 0, 0, 0, time.UTC), *successor.NextDueAt)
}

func TestAdvanceDaily(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Standup notes", Recurring: RecurDaily})

	_, successor, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 13, 10, 0, 0, 0, time.UTC), *successor.NextDueAt)
}

func TestAdvanceAfterCompletion(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Inbox zero", Recurring: RecurAfterCompletion})

	completed, successor, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)
	assert.Equal(t, *completed.CompletedAt, *successor.NextDueAt)
}

func TestAdvanceNonRecurringFails(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "One-off"})

	_, _, err := eng.Advance(doc, task.ID)
	assert.Equal(t, clierr.NotRecurring, errCode(t, err))
}

func TestAdvanceCompletedFails(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Weekly", Recurring: RecurWeekly})

	_, _, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)
	_, _, err = eng.Advance(doc, task.ID)
	assert.Equal(t, clierr.AlreadyCompleted, errCode(t, err))
}

func TestAdvanceCopiesEstimateNotActuals(t *testing.T) {
	eng, doc := setupEngine(t)
	estimate := 30
	task := mustCreateTask(t, eng, doc, CreateParams{
		Title: "Weekly report", Recurring: RecurWeekly, EstimateMinutes: &estimate,
	})
	_, err := eng.LogTime(doc, task.ID, 45, "")
	require.NoError(t, err)

	_, successor, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)

	require.NotNil(t, successor.EstimateMinutes)
	assert.Equal(t, 30, *successor.EstimateMinutes)
	assert.Equal(t, 0, successor.ActualMinutes)
	assert.Nil(t, successor.TimeVariancePercent)
}

func TestCompletionViaProgressAlsoRegenerates(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Water plants", Recurring: RecurDaily})

	_, successor, err := eng.SetProgress(doc, task.ID, 100, "")
	require.NoError(t, err)
	require.NotNil(t, successor)
	assert.Len(t, doc.Tasks, 2)
}

func TestNextDueMonthlyClampsToShortMonth(t *testing.T) {
	base := time.Date(2026, 1, 31, 9, 0, 0, 0, time.UTC)
	due := NextDue(RecurMonthly, base, base)
	assert.Equal(t, time.Date(2026, 2, 28, 9, 0, 0, 0, time.UTC), due)

	// Leap year February keeps the 29th.
	base = time.Date(2028, 1, 31, 9, 0, 0, 0, time.UTC)
	due = NextDue(RecurMonthly, base, base)
	assert.Equal(t, time.Date(2028, 2, 29, 9, 0, 0, 0, time.UTC), due)
}

func TestNextDueMonthlyPlainAdvance(t *testing.T) {
	base := time.Date(2026, 3, 15, 9, 0, 0, 0, time.UTC)
	due := NextDue(RecurMonthly, base, base)
	assert.Equal(t, time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC), due)
}

func TestNextDueYearBoundary(t *testing.T) {
	base := time.Date(2026, 12, 31, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2027, 1, 1, 9, 0, 0, 0, time.UTC), NextDue(RecurDaily, base, base))
	assert.Equal(t, time.Date(2027, 1, 7, 9, 0, 0, 0, time.UTC), NextDue(RecurWeekly, base, base))
	assert.Equal(t, time.Date(2027, 1, 31, 9, 0, 0, 0, time.UTC), NextDue(RecurMonthly, base, base))
}

func TestOnlyOneLiveInstance(t *testing.T) {
	eng, doc := setupEngine(t)
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Weekly", Recurring: RecurWeekly})

	_, s1, err := eng.Advance(doc, task.ID)
	require.NoError(t, err)
	_, s2, err := eng.Advance(doc, s1.ID)
	require.NoError(t, err)

	live := 0
	for _, tk := range doc.Tasks {
		if tk.NextDueAt != nil {
			live++
		}
	}
	assert.Equal(t, 1, live)
	assert.NotNil(t, s2.NextDueAt)
}

func TestAdvanceUsesSystemClock(t *testing.T) {
	// Successor due dates chain from the predecessor's due date, not from
	// the completion time, so a late completion does not drift the schedule.
	now := time.Date(2026, 2, 12, 10, 0, 0, 0, time.UTC)
	eng := NewEngine(clock.Fixed(now))
	doc := NewDocument()
	task := mustCreateTask(t, eng, doc, CreateParams{Title: "Weekly", Recurring: RecurWeekly})

	// Complete three days late.
	late := NewEngine(clock.Fixed(now.AddDate(0, 0, 3)))
	_, successor, err := late.Advance(doc, task.ID)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 7), *successor.NextDueAt)
}
