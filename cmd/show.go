package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taskpulse/taskpulse/internal/output"
	"github.com/taskpulse/taskpulse/internal/task"
)

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a task or goal in detail",
	Long: `Shows the full record for a task or goal ID. Task notes are rendered as
markdown; pass --raw to print them verbatim.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("raw", false, "print notes without markdown rendering")
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	_, doc, err := loadDocument()
	if err != nil {
		return err
	}

	id := args[0]
	if strings.HasPrefix(id, "goal_") {
		return showGoal(doc, id)
	}

	t, err := doc.FindTask(id)
	if err != nil {
		return err
	}

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, t)
	case output.FormatCompact:
		output.TaskDetailCompact(os.Stdout, t)
	default:
		output.TaskDetail(os.Stdout, t)
		if raw, _ := cmd.Flags().GetBool("raw"); raw && t.Notes != "" {
			output.Messagef(os.Stdout, "\n%s", t.Notes)
		} else {
			output.NotesMarkdown(os.Stdout, t.Notes)
		}
	}
	return nil
}

func showGoal(doc *task.Document, id string) error {
	g, err := doc.FindGoal(id)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{
			"goal":  g,
			"tasks": doc.TasksForGoal(id),
		})
	}

	goals := []*task.Goal{g}
	if outputFormat() == output.FormatCompact {
		output.GoalCompact(os.Stdout, goals, doc)
	} else {
		output.GoalTable(os.Stdout, goals, doc)
		tasks := doc.TasksForGoal(id)
		if len(tasks) > 0 {
			output.Messagef(os.Stdout, "")
			output.TaskTable(os.Stdout, tasks)
		}
	}
	return nil
}
