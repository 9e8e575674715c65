package cli

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/sqlexec"
	"github.com/thebtf/claude-sift/internal/source"
)

var (
	sqlWrite  bool
	sqlDryRun bool
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run SQL over session data in a throwaway database",
	Long: `sql loads prompts, history, sessions, and todos into an in-memory
SQLite database and executes the query against it. Nothing is persisted;
the database is rebuilt on every invocation.

Tables: prompts(text, session_id, project, timestamp)
        history(display, project, timestamp)
        sessions(id, project, path, size_bytes, modified_at)
        todos(id, content, status, priority, session_id, agent_id)

Write statements require --write; add --dry-run to roll back after
reporting affected rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := sqlexec.Open(ctx)
		if err != nil {
			return err
		}
		defer func() {
			_ = engine.Close()
		}()

		prompts, err := source.LoadPrompts(ctx, cfg.ProjectsDir(), source.PromptFilter{})
		if err != nil {
			return err
		}
		if err := engine.LoadPrompts(ctx, prompts); err != nil {
			return err
		}

		history, err := source.LoadHistory(cfg.HistoryPath())
		if err != nil {
			log.Warn().Err(err).Msg("skipping history table")
		} else if err := engine.LoadHistory(ctx, history); err != nil {
			return err
		}

		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return err
		}
		if err := engine.LoadSessions(ctx, files); err != nil {
			return err
		}

		todos, err := source.LoadTodos(cfg.TodosDir())
		if err != nil {
			log.Warn().Err(err).Msg("skipping todos table")
		} else if err := engine.LoadTodos(ctx, todos); err != nil {
			return err
		}

		result, err := engine.Query(ctx, args[0], sqlWrite, sqlDryRun)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(result.Rows))
		for _, row := range result.Rows {
			cells := make([]string, len(row))
			for i, v := range row {
				cells[i] = displayText(cellString(v))
			}
			rows = append(rows, cells)
		}
		return renderer.Table(result.Columns, rows)
	},
}

func cellString(v any) string {
	if v == nil {
		return "NULL"
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func init() {
	sqlCmd.Flags().BoolVar(&sqlWrite, "write", false, "Allow statements that modify the database")
	sqlCmd.Flags().BoolVar(&sqlDryRun, "dry-run", false, "Execute writes in a transaction that is rolled back")
	rootCmd.AddCommand(sqlCmd)
}
