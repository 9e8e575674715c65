package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/jq"
	"github.com/thebtf/claude-sift/internal/source"
)

var (
	querySource      string
	queryFilePattern string
)

var queryCmd = &cobra.Command{
	Use:   "query <expression>",
	Short: "Run a jq expression over session data",
	Long: `query evaluates a jq expression against the selected data source.
The input is always an array of records, so expressions like
'.[] | select(.role == "user") | .text' or 'length' work directly.

Sources:
  history      entries from history.jsonl
  transcripts  messages from all session transcripts
  todos        todo items
  sessions     session file metadata`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := queryInput(cmd)
		if err != nil {
			return err
		}

		normalized, err := jq.Normalize(input)
		if err != nil {
			return err
		}
		results, err := jq.Run(args[0], normalized)
		if err != nil {
			return err
		}

		for _, res := range results {
			if err := renderer.JSON(res); err != nil {
				return err
			}
		}
		return nil
	},
}

func queryInput(cmd *cobra.Command) (any, error) {
	switch querySource {
	case "history":
		return source.LoadHistory(cfg.HistoryPath())
	case "todos":
		return source.LoadTodos(cfg.TodosDir())
	case "sessions":
		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return nil, err
		}
		return filterByPattern(files)
	case "transcripts":
		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return nil, err
		}
		files, err = filterByPattern(files)
		if err != nil {
			return nil, err
		}
		return source.LoadEntries(cmd.Context(), files)
	default:
		return nil, fmt.Errorf("invalid --source %q (expected history, transcripts, todos, or sessions)", querySource)
	}
}

// filterByPattern keeps session files whose base name matches --file-pattern.
func filterByPattern(files []source.SessionFile) ([]source.SessionFile, error) {
	if queryFilePattern == "" {
		return files, nil
	}
	kept := files[:0]
	for _, f := range files {
		ok, err := filepath.Match(queryFilePattern, filepath.Base(f.Path))
		if err != nil {
			return nil, fmt.Errorf("invalid --file-pattern: %w", err)
		}
		if ok {
			kept = append(kept, f)
		}
	}
	return kept, nil
}

func init() {
	queryCmd.Flags().StringVar(&querySource, "source", "history", "Data source: history, transcripts, todos, or sessions")
	queryCmd.Flags().StringVar(&queryFilePattern, "file-pattern", "", "Glob filter on transcript file names")
	rootCmd.AddCommand(queryCmd)
}
