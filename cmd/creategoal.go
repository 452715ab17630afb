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

var createGoalCmd = &cobra.Command{
	Use:     "create-goal TITLE",
	Aliases: []string{"goal"},
	Short:   "Create a new goal",
	Args:    cobra.ExactArgs(1),
	RunE:    runCreateGoal,
}

func init() {
	createGoalCmd.Flags().String("priority", "", "goal priority (high, medium, low; default from config)")
	rootCmd.AddCommand(createGoalCmd)
}

func runCreateGoal(cmd *cobra.Command, args []string) error {
	var created *task.Goal

	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		priority, _ := cmd.Flags().GetString("priority")
		if priority == "" {
			priority = cfg.Defaults.Priority
		}

		g, err := eng.CreateGoal(doc, args[0], priority)
		if err != nil {
			return false, err
		}
		created = g

		wal.LogEvent(cfg.WALPath(), wal.EventGoalCreated, time.Now().UTC(), map[string]any{
			"id": g.ID, "title": g.Title, "priority": g.Priority,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, created)
	}
	output.Messagef(os.Stdout, "Created goal %s: %s", created.ID, created.Title)
	output.Messagef(os.Stdout, "  Priority: %s", created.Priority)
	return nil
}
