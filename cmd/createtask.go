package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/task"
	"github.com/taskpulse/taskpulse/internal/wal"
)

var createTaskCmd = &cobra.Command{
	Use:     "create-task TITLE",
	Aliases: []string{"add"},
	Short:   "Create a new task",
	Long: `Creates a new task in status pending with progress 0.

Attach the task to a goal with --goal. An estimate enables time variance
tracking once minutes are logged against the task.`,
	Args: cobra.ExactArgs(1),
	RunE: runCreateTask,
}

func init() {
	createTaskCmd.Flags().String("goal", "", "goal ID to attach the task to")
	createTaskCmd.Flags().String("priority", "", "task priority (high, medium, low; default from config)")
	createTaskCmd.Flags().Int("estimate", 0, "estimated minutes")
	createTaskCmd.Flags().String("notes", "", "initial notes (markdown)")
	createTaskCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		switch name {
		case "goal-id":
			name = "goal"
		case "note":
			name = "notes"
		case "estimate-minutes":
			name = "estimate"
		}
		return pflag.NormalizedName(name)
	})
	rootCmd.AddCommand(createTaskCmd)
}

func runCreateTask(cmd *cobra.Command, args []string) error {
	var created *task.Task

	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		params := task.CreateParams{Title: args[0]}
		params.GoalID, _ = cmd.Flags().GetString("goal")
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
			"id": t.ID, "title": t.Title, "goal_id": t.GoalID,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created task %s: %s", created.ID, created.Title)
	output.Messagef(os.Stdout, "  Status: %s | Priority: %s", created.Status, created.Priority)
	if created.GoalID != "" {
		output.Messagef(os.Stdout, "  Goal: %s", created.GoalID)
	}
	return nil
}
