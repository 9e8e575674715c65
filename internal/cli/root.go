// Package cli provides the claude-sift command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thebtf/claude-sift/internal/config"
	"github.com/thebtf/claude-sift/internal/render"
)

var (
	cfg      *config.Config
	renderer *render.Renderer

	flagDataDir string
	flagFormat  string
	flagVerbose bool
	flagRedact  bool
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Inspect and analyze Claude Code session logs",
	Long: `sift reads the local Claude Code data directory (~/.claude) and
answers questions about past sessions: what you asked, when, in which
project, and which prompts keep coming back.

Examples:
  sift prompts --project myapp --limit 20
  sift duplicates --threshold 0.8 --show-variants
  sift search "rate limit" -B 2 -A 2
  sift sql "SELECT project, COUNT(*) FROM prompts GROUP BY project"`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}

		level := zerolog.WarnLevel
		if flagVerbose {
			level = zerolog.DebugLevel
		}
		zerolog.SetGlobalLevel(level)

		format, err := render.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		renderer = render.New(cmd.OutOrStdout(), format)

		cfg, err = config.Resolve(flagDataDir)
		if err != nil {
			return fmt.Errorf("locate data directory: %w", err)
		}
		log.Debug().Str("data_dir", cfg.DataDir).Msg("resolved data directory")
		return nil
	},
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// SetVersion wires the build version into the root command.
func SetVersion(version string) {
	rootCmd.Version = version
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Claude data directory (default: $CLAUDE_DATA_DIR or ~/.claude)")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table or json")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagRedact, "redact", false, "Redact secrets in displayed text")
}
