package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/render"
	"github.com/thebtf/claude-sift/internal/source"
)

var (
	todosStatus  string
	todosAgent   string
	todosSession string
)

var todosCmd = &cobra.Command{
	Use:   "todos",
	Short: "List todo items recorded by sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		switch todosStatus {
		case "", source.TodoPending, source.TodoInProgress, source.TodoCompleted:
		default:
			return fmt.Errorf("invalid --status %q (expected pending, in_progress, or completed)", todosStatus)
		}

		items, err := source.LoadTodos(cfg.TodosDir())
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(items))
		for _, item := range items {
			if todosStatus != "" && item.Status != todosStatus {
				continue
			}
			if todosAgent != "" && item.AgentID != todosAgent {
				continue
			}
			if todosSession != "" && item.SessionID != todosSession {
				continue
			}
			agent := item.AgentID
			if agent == "" {
				agent = "-"
			}
			rows = append(rows, []string{
				item.Status,
				render.Truncate(displayText(item.Content), 70),
				item.SessionID,
				agent,
			})
		}
		return renderer.Table([]string{"Status", "Content", "Session", "Agent"}, rows)
	},
}

func init() {
	todosCmd.Flags().StringVar(&todosStatus, "status", "", "Filter by status: pending, in_progress, or completed")
	todosCmd.Flags().StringVar(&todosAgent, "agent", "", "Filter by agent ID")
	todosCmd.Flags().StringVar(&todosSession, "session", "", "Filter by session ID")
	rootCmd.AddCommand(todosCmd)
}
