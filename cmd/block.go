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

var markBlockedCmd = &cobra.Command{
	Use:     "mark-blocked ID REASON",
	Aliases: []string{"block"},
	Short:   "Mark a task as blocked",
	Long: `Marks a task blocked with a reason. Progress is preserved; unblocking or
setting new progress restores the progress-derived status.`,
	Args: cobra.ExactArgs(2), //nolint:mnd // id + reason
	RunE: runMarkBlocked,
}

var unblockCmd = &cobra.Command{
	Use:     "unblock-task ID",
	Aliases: []string{"unblock"},
	Short:   "Clear a task's block",
	Args:    cobra.ExactArgs(1),
	RunE:    runUnblock,
}

func init() {
	rootCmd.AddCommand(markBlockedCmd)
	rootCmd.AddCommand(unblockCmd)
}

func runMarkBlocked(_ *cobra.Command, args []string) error {
	var updated *task.Task
	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, err := eng.MarkBlocked(doc, args[0], args[1])
		if err != nil {
			return false, err
		}
		updated = t

		wal.LogEvent(cfg.WALPath(), wal.EventStatusChange, time.Now().UTC(), map[string]any{
			"id": t.ID, "status": t.Status, "blocked_reason": t.BlockedReason,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, updated)
	}
	output.Messagef(os.Stdout, "Task %s blocked: %s", updated.ID, updated.BlockedReason)
	return nil
}

func runUnblock(_ *cobra.Command, args []string) error {
	var updated *task.Task
	err := mutate(func(cfg *config.Config, doc *task.Document, eng *task.Engine) (bool, error) {
		t, err := eng.Unblock(doc, args[0])
		if err != nil {
			return false, err
		}
		updated = t

		wal.LogEvent(cfg.WALPath(), wal.EventStatusChange, time.Now().UTC(), map[string]any{
			"id": t.ID, "status": t.Status,
		})
		return true, nil
	})
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, updated)
	}
	output.Messagef(os.Stdout, "Task %s unblocked (%s, %d%%)", updated.ID, updated.Status, updated.Progress)
	return nil
}
