package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/taskpulse/taskpulse/internal/clock"
	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/stats"
)

var showVelocityCmd = &cobra.Command{
	Use:     "show-velocity GOAL_ID",
	Aliases: []string{"velocity"},
	Short:   "Show completion velocity and ETA for a goal",
	Long: `Computes tasks completed per day for a goal and projects the days
remaining at the current rate. By default the window spans the goal's whole
lifetime; --days restricts it to the last N days.`,
	Args: cobra.ExactArgs(1),
	RunE: runShowVelocity,
}

func init() {
	showVelocityCmd.Flags().Int("days", 0, "restrict the window to the last N days (0 = all history)")
	rootCmd.AddCommand(showVelocityCmd)
}

func runShowVelocity(cmd *cobra.Command, args []string) error {
	cfg, doc, err := loadDocument()
	if err != nil {
		return err
	}

	days := velocityWindowDays(cmd.Flags(), cfg.Velocity.LookbackDays)

	report, err := stats.Velocity(doc, args[0], clock.System{}.Now(), days)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, report)
	case output.FormatCompact:
		output.VelocityCompact(os.Stdout, report)
	default:
		output.VelocityTable(os.Stdout, report)
	}
	return nil
}

// velocityWindowDays resolves the lookback window. The config lookback is a
// default only; a --days given on the command line always wins, including an
// explicit --days 0 asking for all history.
func velocityWindowDays(flags *pflag.FlagSet, cfgDays int) int {
	if !flags.Changed("days") {
		return cfgDays
	}
	days, _ := flags.GetInt("days")
	return days
}
