package cmd

import (
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/stats"
	"github.com/taskpulse/taskpulse/internal/task"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `Lists tasks with optional filters. Use --goals to list goals instead.

Sort fields: created (default), updated, priority, status, progress, due.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().String("status", "", "filter by status (pending, in_progress, blocked, completed)")
	listCmd.Flags().String("goal", "", "filter by goal ID")
	listCmd.Flags().String("priority", "", "filter by priority")
	listCmd.Flags().Bool("recurring", false, "only recurring tasks")
	listCmd.Flags().String("sort", "", "sort field")
	listCmd.Flags().Bool("reverse", false, "reverse sort order")
	listCmd.Flags().Int("limit", 0, "maximum number of results (0 = all)")
	listCmd.Flags().Bool("goals", false, "list goals instead of tasks")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	_, doc, err := loadDocument()
	if err != nil {
		return err
	}

	if goals, _ := cmd.Flags().GetBool("goals"); goals {
		return listGoals(doc)
	}

	opts := stats.ListOptions{}
	opts.Filter.Status, _ = cmd.Flags().GetString("status")
	opts.Filter.GoalID, _ = cmd.Flags().GetString("goal")
	opts.Filter.Priority, _ = cmd.Flags().GetString("priority")
	opts.Filter.Recurring, _ = cmd.Flags().GetBool("recurring")
	opts.SortBy, _ = cmd.Flags().GetString("sort")
	opts.Reverse, _ = cmd.Flags().GetBool("reverse")
	opts.Limit, _ = cmd.Flags().GetInt("limit")

	tasks := stats.List(doc, opts)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, tasks)
	case output.FormatCompact:
		output.TaskCompact(os.Stdout, tasks)
	default:
		output.TaskTable(os.Stdout, tasks)
	}
	return nil
}

func listGoals(doc *task.Document) error {
	goals := make([]*task.Goal, 0, len(doc.Goals))
	for _, g := range doc.Goals {
		goals = append(goals, g)
	}
	sort.Slice(goals, func(i, j int) bool {
		if !goals[i].CreatedAt.Equal(goals[j].CreatedAt) {
			return goals[i].CreatedAt.Before(goals[j].CreatedAt)
		}
		return goals[i].ID < goals[j].ID
	})

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, goals)
	case output.FormatCompact:
		output.GoalCompact(os.Stdout, goals, doc)
	default:
		output.GoalTable(os.Stdout, goals, doc)
	}
	return nil
}
