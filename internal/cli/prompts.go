package cli

import (
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/config"
	"github.com/thebtf/claude-sift/internal/render"
	"github.com/thebtf/claude-sift/internal/source"
)

var (
	promptsProject string
	promptsSession string
	promptsSince   string
	promptsUntil   string
	promptsLimit   int
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "List user prompts from session transcripts",
	RunE: func(cmd *cobra.Command, args []string) error {
		since, err := parseTimeFlag(promptsSince)
		if err != nil {
			return err
		}
		until, err := parseTimeFlag(promptsUntil)
		if err != nil {
			return err
		}

		filter := source.PromptFilter{
			SessionID: promptsSession,
			Project:   promptsProject,
			Since:     since,
			Until:     until,
		}
		prompts, err := source.LoadPrompts(cmd.Context(), cfg.ProjectsDir(), filter)
		if err != nil {
			return err
		}

		if promptsLimit > 0 && len(prompts) > promptsLimit {
			prompts = prompts[len(prompts)-promptsLimit:]
		}

		rows := make([][]string, 0, len(prompts))
		for _, p := range prompts {
			rows = append(rows, []string{
				formatTime(p.Timestamp),
				p.Project,
				render.Truncate(displayText(p.Text), 80),
			})
		}
		if err := renderer.Table([]string{"Time", "Project", "Prompt"}, rows); err != nil {
			return err
		}
		if renderer.Format() == render.FormatTable {
			renderer.Line("%d prompts", len(prompts))
		}
		return nil
	},
}

func init() {
	promptsCmd.Flags().StringVar(&promptsProject, "project", "", "Filter by project path substring")
	promptsCmd.Flags().StringVar(&promptsSession, "session", "", "Filter by session ID")
	promptsCmd.Flags().StringVar(&promptsSince, "since", "", "Only prompts at or after this time")
	promptsCmd.Flags().StringVar(&promptsUntil, "until", "", "Only prompts before this time")
	promptsCmd.Flags().IntVar(&promptsLimit, "limit", config.DefaultLimit, "Maximum prompts to show (0 = all)")
	rootCmd.AddCommand(promptsCmd)
}
