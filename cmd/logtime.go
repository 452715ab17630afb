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

var logTimeCmd = &cobra.Command{
	Use:   "log-time ID MINUTES",
	Short: "Log minutes spent on a task",
	Long: `Adds minutes to the task's actual time. When the task has an estimate the
time variance is recomputed: positive means over estimate, negative under.
Logging against a completed task is allowed and does not reopen it.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id + minutes
	RunE: runLogTime,
}

func init() {
	logTimeCmd.Flags().String("notes", "", "notes to append")
	rootCmd.AddCommand(logTimeCmd)
}

func runLogTime(cmd *cobra.Command, args []string) error {
	minutes, err := strconv.Atoi(args[1])
	if err != nil {
		return clierr.Newf(clierr.InvalidArgument, "minutes must be an integer, got %q", args[1]).
			WithDetails(map[string]any{"minutes": args[1]})
	}
	notes, _ := cmd.Flags().GetString("notes")

	var updated *task.Task
	err = mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, err := eng.LogTime(doc, args[0], minutes, notes)
		if err != nil {
			return false, err
		}
		updated = t

		wal.LogEvent(cfg.WALPath(), wal.EventTimeLog, time.Now().UTC(), map[string]any{
			"id": t.ID, "minutes": minutes, "actual_minutes": t.ActualMinutes,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, updated)
	}
	output.Messagef(os.Stdout, "Task %s: logged %s (total %s)",
		updated.ID, output.FormatMinutes(minutes), output.FormatMinutes(updated.ActualMinutes))
	if updated.TimeVariancePercent != nil {
		output.Messagef(os.Stdout, "  Variance: %+.1f%%", *updated.TimeVariancePercent)
	}
	return nil
}
