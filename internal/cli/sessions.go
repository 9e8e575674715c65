package cli

import (
	"fmt"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/source"
)

var (
	sessionsProject  string
	sessionsLimit    int
	sessionsSortBy   string
	sessionsDetailed bool
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := source.DiscoverSessions(cfg.ProjectsDir())
		if err != nil {
			return err
		}

		if sessionsProject != "" {
			kept := files[:0]
			for _, f := range files {
				if f.MatchesProject(sessionsProject) {
					kept = append(kept, f)
				}
			}
			files = kept
		}

		switch sessionsSortBy {
		case "time":
			// DiscoverSessions already returns newest first.
		case "size":
			sort.SliceStable(files, func(i, j int) bool {
				return files[i].Size > files[j].Size
			})
		default:
			return fmt.Errorf("invalid --sort-by %q (expected time or size)", sessionsSortBy)
		}

		if sessionsLimit > 0 && len(files) > sessionsLimit {
			files = files[:sessionsLimit]
		}

		if !sessionsDetailed {
			rows := make([][]string, 0, len(files))
			for _, f := range files {
				rows = append(rows, []string{
					f.SessionID,
					f.Project,
					humanize.Bytes(uint64(f.Size)),
					formatTime(f.ModTime),
				})
			}
			return renderer.Table([]string{"Session", "Project", "Size", "Modified"}, rows)
		}

		rows := make([][]string, 0, len(files))
		for _, f := range files {
			entries, err := source.ParseTranscript(f.Path)
			if err != nil {
				log.Warn().Err(err).Str("path", f.Path).Msg("skipping unreadable transcript")
				continue
			}
			meta := source.Summarize(entries)
			rows = append(rows, []string{
				f.SessionID,
				f.Project,
				meta.GitBranch,
				fmt.Sprintf("%d", meta.UserCount),
				fmt.Sprintf("%d", meta.AssistantCount),
				formatTime(meta.FirstMsgAt),
				formatTime(meta.LastMsgAt),
			})
		}
		return renderer.Table([]string{"Session", "Project", "Branch", "User Msgs", "Asst Msgs", "First", "Last"}, rows)
	},
}

func init() {
	sessionsCmd.Flags().StringVar(&sessionsProject, "project", "", "Filter by project path substring")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 20, "Maximum sessions to show (0 = all)")
	sessionsCmd.Flags().StringVar(&sessionsSortBy, "sort-by", "time", "Sort order: time or size")
	sessionsCmd.Flags().BoolVar(&sessionsDetailed, "detailed", false, "Parse each transcript for message counts and branch")
	rootCmd.AddCommand(sessionsCmd)
}
