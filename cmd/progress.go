package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/clierr"
	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/task"
	"github.com/taskpulse/taskpulse/internal/wal"
)

var markProgressCmd = &cobra.Command{
	Use:     "mark-progress ID PROGRESS",
	Aliases: []string{"progress"},
	Short:   "Set a task's progress percentage",
	Long: `Sets progress (0-100) and derives the status from it: 0 pending, 1-99
in_progress, 100 completed. Setting any progress clears a block. Completing a
recurring task generates its successor.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id + progress
	RunE: runMarkProgress,
}

var completeCmd = &cobra.Command{
	Use:     "complete ID",
	Aliases: []string{"done"},
	Short:   "Mark a task completed",
	Args:    cobra.ExactArgs(1),
	RunE:    runComplete,
}

func init() {
	markProgressCmd.Flags().String("notes", "", "notes to append")
	completeCmd.Flags().String("notes", "", "notes to append")
	rootCmd.AddCommand(markProgressCmd)
	rootCmd.AddCommand(completeCmd)
}

func runMarkProgress(cmd *cobra.Command, args []string) error {
	progress, err := strconv.Atoi(args[1])
	if err != nil {
		return clierr.Newf(clierr.InvalidArgument, "progress must be an integer, got %q", args[1]).
			WithDetails(map[string]any{"progress": args[1]})
	}
	notes, _ := cmd.Flags().GetString("notes")

	var updated, successor *task.Task
	err = mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, next, err := eng.SetProgress(doc, args[0], progress, notes)
		if err != nil {
			return false, err
		}
		updated, successor = t, next

		now := time.Now().UTC()
		wal.LogEvent(cfg.WALPath(), wal.EventProgressChange, now, map[string]any{
			"id": t.ID, "progress": t.Progress, "status": t.Status,
		})
		if successor != nil {
			wal.LogEvent(cfg.WALPath(), wal.EventRecurrenceAdvanced, now, map[string]any{
				"id": t.ID, "successor_id": successor.ID, "next_due_at": successor.NextDueAt,
			})
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	return outputProgressResult(updated, successor)
}

func runComplete(cmd *cobra.Command, args []string) error {
	notes, _ := cmd.Flags().GetString("notes")

	var updated, successor *task.Task
	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, next, err := eng.SetProgress(doc, args[0], 100, notes)
		if err != nil {
			return false, err
		}
		updated, successor = t, next

		now := time.Now().UTC()
		wal.LogEvent(cfg.WALPath(), wal.EventStatusChange, now, map[string]any{
			"id": t.ID, "status": t.Status,
		})
		if successor != nil {
			wal.LogEvent(cfg.WALPath(), wal.EventRecurrenceAdvanced, now, map[string]any{
				"id": t.ID, "successor_id": successor.ID, "next_due_at": successor.NextDueAt,
			})
		}
		return true, nil
	})
	if err != nil {
		return err
	}

	return outputProgressResult(updated, successor)
}

// outputProgressResult reports the mutated task and, for recurring
// completions, the generated successor.
func outputProgressResult(t, successor *task.Task) error {
	if outputFormat() == output.FormatJSON {
		if successor != nil {
			return output.JSON(os.Stdout, map[string]*task.Task{
				"task":      t,
				"successor": successor,
			})
		}
		return output.JSON(os.Stdout, t)
	}

	output.Messagef(os.Stdout, "Task %s: %d%% (%s)", t.ID, t.Progress, t.Status)
	if successor != nil {
		output.Messagef(os.Stdout, "Next occurrence %s due %s",
			successor.ID, successor.NextDueAt.Format("2006-01-02"))
	}
	return nil
}
