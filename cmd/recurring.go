package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/task"
	"github.com/taskpulse/taskpulse/internal/wal"
)

var nextRecurringCmd = &cobra.Command{
	Use:     "next-recurring ID",
	Aliases: []string{"advance"},
	Short:   "Complete a recurring task and schedule its successor",
	Long: `Completes the given recurring task regardless of its current progress and
creates the next occurrence. The successor's due date is computed from the
recurrence interval: daily/weekly/monthly advance from the current due date,
after_completion is due immediately.`,
	Args: cobra.ExactArgs(1),
	RunE: runNextRecurring,
}

func init() {
	rootCmd.AddCommand(nextRecurringCmd)
}

func runNextRecurring(_ *cobra.Command, args []string) error {
	var completed, successor *task.Task
	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, next, err := eng.Advance(doc, args[0])
		if err != nil {
			return false, err
		}
		completed, successor = t, next

		wal.LogEvent(cfg.WALPath(), wal.EventRecurrenceAdvanced, time.Now().UTC(), map[string]any{
			"id": t.ID, "successor_id": next.ID, "next_due_at": next.NextDueAt,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]*task.Task{
			"task":      completed,
			"successor": successor,
		})
	}
	output.Messagef(os.Stdout, "Completed %s: %s", completed.ID, completed.Title)
	output.Messagef(os.Stdout, "Next occurrence %s due %s",
		successor.ID, successor.NextDueAt.Format("2006-01-02"))
	return nil
}
