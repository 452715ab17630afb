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

var createRecurringCmd = &cobra.Command{
	Use:   "create-recurring GOAL_ID TITLE",
	Short: "Create a recurring task",
	Long: `Creates a recurring task attached to a goal. The task regenerates a fresh
instance each time it is completed; it is due immediately, and completing it
schedules the successor per --recurring: daily, weekly, monthly, or
after_completion.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // goal id + title
	RunE: runCreateRecurring,
}

func init() {
	createRecurringCmd.Flags().String("recurring", "", "recurrence kind (daily, weekly, monthly, after_completion)")
	createRecurringCmd.Flags().String("priority", "", "task priority (high, medium, low; default from config)")
	createRecurringCmd.Flags().Int("estimate", 0, "estimated minutes")
	createRecurringCmd.Flags().String("notes", "", "initial notes (markdown)")
	_ = createRecurringCmd.MarkFlagRequired("recurring")
	rootCmd.AddCommand(createRecurringCmd)
}

func runCreateRecurring(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("recurring")
	recurring := task.Recurrence(kind)
	if err := task.ValidateRecurrence(recurring); err != nil {
		return err
	}

	var created *task.Task
	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		params := task.CreateParams{
			GoalID:    args[0],
			Title:     args[1],
			Recurring: recurring,
		}
		params.Priority, _ = cmd.Flags().GetString("priority")
		if params.Priority == "" {
			params.Priority = cfg.Defaults.Priority
		}
		if cmd.Flags().Changed("estimate") {
			v, _ := cmd.Flags().GetInt("estimate")
			params.EstimateMinutes = &v
		}
		params.Notes, _ = cmd.Flags().GetString("notes")

		t, err := eng.CreateTask(doc, params)
		if err != nil {
			return false, err
		}
		created = t

		wal.LogEvent(cfg.WALPath(), wal.EventTaskCreated, time.Now().UTC(), map[string]any{
			"id": t.ID, "title": t.Title, "goal_id": t.GoalID, "recurring": t.Recurring,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created recurring task %s: %s", created.ID, created.Title)
	output.Messagef(os.Stdout, "  Recurs: %s (due %s)", created.Recurring,
		created.NextDueAt.Format("2006-01-02"))
	return nil
}
