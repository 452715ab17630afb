package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/config"
	"github.com/taskpulse/taskpulse/internal/health"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/task"
	"github.com/taskpulse/taskpulse/internal/wal"
)

var healthCheckCmd = &cobra.Command{
	Use:     "health-check",
	Aliases: []string{"doctor"},
	Short:   "Detect and repair document inconsistencies",
	Long: `Scans every task for invariant violations (status/progress mismatches,
dangling goal references, stale recurrence pointers, missing completion
timestamps) and applies the safe repairs. Findings without a safe automatic
fix are reported for review. The document is only rewritten when something
was repaired.`,
	Args: cobra.NoArgs,
	RunE: runHealthCheck,
}

func init() {
	rootCmd.AddCommand(healthCheckCmd)
}

func runHealthCheck(_ *cobra.Command, _ []string) error {
	var report health.Report
	err := mutate(func(cfg *config.Config, doc *task.Document, _ *task.Engine) (bool, error) {
		now := time.Now().UTC()
		report = health.Check(doc, now)

		if report.Repaired > 0 {
			wal.LogEvent(cfg.WALPath(), wal.EventHealthCheck, now, map[string]any{
				"findings": len(report.Findings), "repaired": report.Repaired,
			})
		}
		return report.Repaired > 0, nil
	})
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, report)
	case output.FormatCompact:
		output.HealthCompact(os.Stdout, report)
	default:
		output.HealthTable(os.Stdout, report)
	}
	return nil
}
