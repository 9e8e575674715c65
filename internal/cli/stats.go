package cli

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/source"
)

var (
	statsGroupBy string
	statsSince   string
	statsUntil   string
	statsProject string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize token usage across sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := parseTimeFlag(statsSince)
		if err != nil {
			return err
		}
		until, err := parseTimeFlag(statsUntil)
		if err != nil {
			return err
		}

		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return err
		}
		if statsProject != "" {
			kept := files[:0]
			for _, f := range files {
				if f.MatchesProject(statsProject) {
					kept = append(kept, f)
				}
			}
			files = kept
		}

		entries, err := source.LoadEntries(cmd.Context(), files)
		if err != nil {
			return err
		}

		totals, err := source.AggregateUsage(entries, statsGroupBy, since, until)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(totals))
		for k := range totals {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var grand source.UsageTotals
		rows := make([][]string, 0, len(keys))
		for _, k := range keys {
			t := totals[k]
			rows = append(rows, []string{
				k,
				fmt.Sprintf("%d", t.Requests),
				humanize.Comma(t.InputTokens),
				humanize.Comma(t.OutputTokens),
				humanize.Comma(t.CacheCreationTokens),
				humanize.Comma(t.CacheReadTokens),
			})
			grand.Requests += t.Requests
			grand.InputTokens += t.InputTokens
			grand.OutputTokens += t.OutputTokens
			grand.CacheCreationTokens += t.CacheCreationTokens
			grand.CacheReadTokens += t.CacheReadTokens
		}
		if len(rows) > 1 {
			rows = append(rows, []string{
				"total",
				fmt.Sprintf("%d", grand.Requests),
				humanize.Comma(grand.InputTokens),
				humanize.Comma(grand.OutputTokens),
				humanize.Comma(grand.CacheCreationTokens),
				humanize.Comma(grand.CacheReadTokens),
			})
		}

		header := "Model"
		if statsGroupBy == source.GroupByDate {
			header = "Date"
		}
		return renderer.Table([]string{header, "Requests", "Input", "Output", "Cache Write", "Cache Read"}, rows)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsGroupBy, "group-by", source.GroupByModel, "Grouping: model or date")
	statsCmd.Flags().StringVar(&statsSince, "since", "", "Only usage at or after this time")
	statsCmd.Flags().StringVar(&statsUntil, "until", "", "Only usage before this time")
	statsCmd.Flags().StringVar(&statsProject, "project", "", "Filter by project path substring")
	rootCmd.AddCommand(statsCmd)
}
