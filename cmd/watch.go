package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/stats"
	"github.com/taskpulse/taskpulse/internal/store"
	"github.com/taskpulse/taskpulse/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the overview whenever the document changes",
	Long: `Watches the taskpulse directory and reprints the status overview on every
change. Intended for a secondary terminal pane. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	printOverview := func() {
		doc, err := store.New(cfg.DataPath()).Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return
		}
		summary := stats.Summary(doc, time.Now().UTC())
		if outputFormat() == output.FormatJSON {
			_ = output.JSON(os.Stdout, summary)
			return
		}
		output.OverviewCompact(os.Stdout, summary)
		fmt.Fprintln(os.Stdout)
	}

	printOverview()

	w, err := watcher.New([]string{cfg.Dir()}, printOverview)
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer w.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	w.Run(ctx, func(err error) {
		fmt.Fprintln(os.Stderr, "watch error:", err)
	})
	return nil
}
