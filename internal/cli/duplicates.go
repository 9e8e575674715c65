package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/config"
	"github.com/thebtf/claude-sift/internal/render"
	"github.com/thebtf/claude-sift/internal/source"
	"github.com/thebtf/claude-sift/pkg/dedup"
)

var (
	dupThreshold    float64
	dupMinCount     int
	dupLimit        int
	dupMinLength    int
	dupShowVariants bool
	dupSort         string
	dupProject      string
	dupSince        string
	dupUntil        string
)

var duplicatesCmd = &cobra.Command{
	Use:   "duplicates",
	Short: "Group near-identical prompts and rank them by frequency",
	Long: `duplicates clusters your past prompts by fuzzy similarity, so retyped
variants ("continue", "continue.", "Continue!") count as one recurring
prompt. Clusters are ranked by frequency; use --sort latest to rank by
most recent occurrence instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := parseTimeFlag(dupSince)
		if err != nil {
			return err
		}
		until, err := parseTimeFlag(dupUntil)
		if err != nil {
			return err
		}

		if dupMinLength < dedup.MinPromptLength {
			log.Warn().
				Int("min_length", dupMinLength).
				Int("floor", dedup.MinPromptLength).
				Msg("--min-length below the built-in floor has no effect")
		}

		prompts, err := source.LoadPrompts(cmd.Context(), cfg.ProjectsDir(), source.PromptFilter{
			Project: dupProject,
			Since:   since,
			Until:   until,
		})
		if err != nil {
			return err
		}

		texts := make([]string, 0, len(prompts))
		lastSeen := make(map[string]time.Time)
		for _, p := range prompts {
			texts = append(texts, p.Text)
			if n := dedup.Normalize(p.Text); n != "" {
				if p.Timestamp.After(lastSeen[n]) {
					lastSeen[n] = p.Timestamp
				}
			}
		}

		clusters := dedup.New(dupThreshold).Cluster(texts)
		clusters = filterClusters(clusters, dupMinCount, dupMinLength)

		if dupSort == "latest" {
			sort.SliceStable(clusters, func(i, j int) bool {
				return clusterLastSeen(clusters[i], lastSeen).After(clusterLastSeen(clusters[j], lastSeen))
			})
		} else if dupSort != "count" {
			return fmt.Errorf("invalid --sort %q (expected count or latest)", dupSort)
		}

		if dupLimit > 0 && len(clusters) > dupLimit {
			clusters = clusters[:dupLimit]
		}

		if renderer.Format() == render.FormatJSON {
			return renderer.JSON(clusters)
		}

		rows := make([][]string, 0, len(clusters))
		for _, c := range clusters {
			rows = append(rows, []string{
				fmt.Sprintf("%d", c.Count),
				formatTime(clusterLastSeen(c, lastSeen)),
				render.Truncate(displayText(c.Canonical), 70),
			})
		}
		if err := renderer.Table([]string{"Count", "Last Seen", "Prompt"}, rows); err != nil {
			return err
		}

		if dupShowVariants {
			for _, c := range clusters {
				if len(c.Variants) <= 1 {
					continue
				}
				renderer.Line("")
				renderer.Line("%q (%d):", render.Truncate(displayText(c.Canonical), 60), c.Count)
				for _, v := range c.Variants {
					renderer.Line("  - %s", render.Truncate(displayText(v), 70))
				}
			}
		}
		return nil
	},
}

// filterClusters drops clusters below the count floor or whose canonical
// is shorter than the requested length in runes.
func filterClusters(clusters []dedup.PromptCluster, minCount, minLength int) []dedup.PromptCluster {
	kept := clusters[:0]
	for _, c := range clusters {
		if c.Count < minCount {
			continue
		}
		if len([]rune(c.Canonical)) < minLength {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func clusterLastSeen(c dedup.PromptCluster, lastSeen map[string]time.Time) time.Time {
	latest := lastSeen[c.Canonical]
	for _, v := range c.Variants {
		if t := lastSeen[v]; t.After(latest) {
			latest = t
		}
	}
	return latest
}

func init() {
	duplicatesCmd.Flags().Float64Var(&dupThreshold, "threshold", dedup.DefaultThreshold, "Similarity threshold in (0, 1]")
	duplicatesCmd.Flags().IntVar(&dupMinCount, "min-count", config.DefaultMinCount, "Hide clusters seen fewer times than this")
	duplicatesCmd.Flags().IntVar(&dupLimit, "limit", config.DefaultLimit, "Maximum clusters to show (0 = all)")
	duplicatesCmd.Flags().IntVar(&dupMinLength, "min-length", config.DefaultMinLength, "Hide clusters whose prompt is shorter than this")
	duplicatesCmd.Flags().BoolVar(&dupShowVariants, "show-variants", false, "List every variant inside each cluster")
	duplicatesCmd.Flags().StringVar(&dupSort, "sort", "count", "Cluster order: count or latest")
	duplicatesCmd.Flags().StringVar(&dupProject, "project", "", "Filter by project path substring")
	duplicatesCmd.Flags().StringVar(&dupSince, "since", "", "Only prompts at or after this time")
	duplicatesCmd.Flags().StringVar(&dupUntil, "until", "", "Only prompts before this time")
	rootCmd.AddCommand(duplicatesCmd)
}
