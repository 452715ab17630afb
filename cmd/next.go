package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/stats"
	"github.com/taskpulse/taskpulse/internal/task"
)

var nextTaskCmd = &cobra.Command{
	Use:     "next-task",
	Aliases: []string{"next"},
	Short:   "Pick the next task to work on",
	Long: `Selects the most urgent actionable task: pending or in-progress, highest
priority first, oldest first on ties. Blocked and completed tasks are never
picked.`,
	Args: cobra.NoArgs,
	RunE: runNextTask,
}

func init() {
	nextTaskCmd.Flags().String("goal", "", "restrict selection to one goal")
	rootCmd.AddCommand(nextTaskCmd)
}

func runNextTask(cmd *cobra.Command, _ []string) error {
	_, doc, err := loadDocument()
	if err != nil {
		return err
	}

	goalID, _ := cmd.Flags().GetString("goal")
	if goalID != "" {
		if _, err := doc.FindGoal(goalID); err != nil {
			return err
		}
	}

	t := stats.NextTask(doc, goalID)
	if t == nil {
		// Nothing actionable is a valid answer, not a failure: JSON callers
		// get null and exit 0 so they can tell it apart from an error.
		if outputFormat() == output.FormatJSON {
			return output.JSON(os.Stdout, nil)
		}
		return clierr.New(clierr.NothingToPick, "no actionable tasks (everything is blocked or completed)")
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, []*task.Task{t})
	default:
		output.TaskDetail(os.Stdout, t)
	}
	return nil
}
