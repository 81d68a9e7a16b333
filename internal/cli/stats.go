package cli

import (
	"github.com/spf13/cobra"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/render"
)

// NewStatsCmd creates the 'stats' command.
func NewStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the tool database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}
			return render.Stats(cmd.OutOrStdout(), catalog.ComputeStats(corpus))
		},
	}
}
