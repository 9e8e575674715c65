package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/render"
	"github.com/thebtf/claude-sift/internal/source"
	"github.com/thebtf/claude-sift/internal/textsearch"
)

var (
	searchScope         string
	searchProject       string
	searchRegex         bool
	searchCaseSensitive bool
	searchBefore        int
	searchAfter         int
	searchLimit         int
)

var searchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search prompt and response text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return err
		}
		if searchProject != "" {
			kept := files[:0]
			for _, f := range files {
				if f.MatchesProject(searchProject) {
					kept = append(kept, f)
				}
			}
			files = kept
		}

		entries, err := source.LoadEntries(cmd.Context(), files)
		if err != nil {
			return err
		}

		var docs []textsearch.Document
		for _, e := range entries {
			switch searchScope {
			case "user":
				if e.Role != "user" {
					continue
				}
			case "assistant":
				if e.Role != "assistant" {
					continue
				}
			case "all":
			default:
				return fmt.Errorf("invalid --scope %q (expected user, assistant, or all)", searchScope)
			}
			if e.Text == "" {
				continue
			}
			docs = append(docs, textsearch.Document{
				Source: fmt.Sprintf("%s %s [%s]", formatTime(e.Timestamp), e.SessionID, e.Role),
				Text:   e.Text,
			})
		}

		matches, err := textsearch.Search(docs, args[0], textsearch.Options{
			CaseSensitive: searchCaseSensitive,
			Regex:         searchRegex,
			Before:        searchBefore,
			After:         searchAfter,
		})
		if err != nil {
			return err
		}
		if searchLimit > 0 && len(matches) > searchLimit {
			matches = matches[:searchLimit]
		}

		if renderer.Format() == render.FormatJSON {
			return renderer.JSON(matches)
		}

		for _, m := range matches {
			renderer.Line("%s:%d", m.Source, m.LineNum)
			for _, line := range m.Before {
				renderer.Line("  %s", displayText(line))
			}
			renderer.Line("> %s", displayText(m.Line))
			for _, line := range m.After {
				renderer.Line("  %s", displayText(line))
			}
		}
		if len(matches) == 0 {
			renderer.Line("no matches")
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchScope, "scope", "user", "Message scope: user, assistant, or all")
	searchCmd.Flags().StringVar(&searchProject, "project", "", "Filter by project path substring")
	searchCmd.Flags().BoolVar(&searchRegex, "regex", false, "Treat the term as a regular expression")
	searchCmd.Flags().BoolVar(&searchCaseSensitive, "case-sensitive", false, "Match case exactly")
	searchCmd.Flags().IntVarP(&searchBefore, "before", "B", 0, "Lines of context before each match")
	searchCmd.Flags().IntVarP(&searchAfter, "after", "A", 0, "Lines of context after each match")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 0, "Maximum matches to show (0 = all)")
	rootCmd.AddCommand(searchCmd)
}
