package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/related"
	"github.com/bapanel/bapanel/internal/render"
)

// NewShowCmd creates the 'show' command for tool details.
func NewShowCmd(app *App) *cobra.Command {
	var helpOutput bool

	cmd := &cobra.Command{
		Use:     "show <tool>",
		Aliases: []string{"info"},
		Short:   "Show a tool's details and related tools",
		Example: `  bapanel show nmap
  bapanel show sqlmap --help-output`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}

			tool, err := corpus.Lookup(args[0])
			if err != nil {
				return err
			}
			rel, err := related.Related(corpus, tool.Name, cfg.RelatedLimit, cfg.Weights)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := render.Details(out, tool, rel, render.DefaultWidth); err != nil {
				return err
			}

			if helpOutput {
				fmt.Fprintf(out, "\n%s\n", render.Faint("$ "+tool.HelpCmd()))
				if err := app.execer().Shell(cmd.Context(), tool.HelpCmd(), out, cmd.ErrOrStderr()); err != nil {
					app.Logger.Debug("help command failed", zap.String("tool", tool.Name), zap.Error(err))
					fmt.Fprintln(out, render.Hint(fmt.Sprintf("%s is not installed or has no help output", tool.Name)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&helpOutput, "help-output", "H", false, "Run the tool's help command and print its output")

	return cmd
}

// NewRelatedCmd creates the 'related' command.
func NewRelatedCmd(app *App) *cobra.Command {
	var (
		limit   int
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "related <tool>",
		Short: "List tools related to a tool",
		Long: `List tools related to <tool>, best first.

The score adds up three weighted parts: sharing the primary category,
the Jaccard similarity of description words, and the number of shared
dependencies that are themselves tools in the database. Weights come
from the "weights" config key.`,
		Example: `  bapanel related nmap
  bapanel related nmap --limit 10 --explain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("limit") {
				limit = cfg.RelatedLimit
			}
			scored, err := related.Related(corpus, args[0], limit, cfg.Weights)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(scored) == 0 {
				fmt.Fprintf(out, "No tools related to %s\n", args[0])
				return nil
			}
			return render.Related(out, scored, explain)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum related tools (default from config)")
	cmd.Flags().BoolVarP(&explain, "explain", "e", false, "Show the weighted parts of each score")

	return cmd
}

// NewRandomCmd creates the 'random' command.
func NewRandomCmd(app *App) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Show a random tool",
		Long: `Show a tool drawn uniformly at random. A fixed --seed always picks the
same tool from the same database.`,
		Example: `  bapanel random
  bapanel random --seed 42`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}
			tool, err := catalog.Random(corpus, catalog.NewRand(seed))
			if err != nil {
				return err
			}
			return render.Details(cmd.OutOrStdout(), tool, nil, render.DefaultWidth)
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 = time based)")

	return cmd
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
