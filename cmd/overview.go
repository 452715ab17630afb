package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/stats"
)

var overviewCmd = &cobra.Command{
	Use:     "overview",
	Aliases: []string{"summary"},
	Short:   "Show status and priority totals",
	Args:    cobra.NoArgs,
	RunE:    runOverview,
}

func init() {
	rootCmd.AddCommand(overviewCmd)
}

func runOverview(_ *cobra.Command, _ []string) error {
	_, doc, err := loadDocument()
	if err != nil {
		return err
	}

	summary := stats.Summary(doc, time.Now().UTC())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, summary)
	case output.FormatCompact:
		output.OverviewCompact(os.Stdout, summary)
	default:
		output.OverviewTable(os.Stdout, summary)
	}
	return nil
}
