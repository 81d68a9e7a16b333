package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bapanel/bapanel/internal/database"
	"github.com/bapanel/bapanel/internal/pacman"
	"github.com/bapanel/bapanel/internal/runner"
)

// NewScrapeCmd creates the 'scrape' command.
func NewScrapeCmd(app *App) *cobra.Command {
	var (
		batchSize int
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Rebuild the tool database from pacman",
		Long: `Query pacman for every package in a blackarch group and write the
result as the JSON database. Requires a system with the BlackArch
repository configured.

Each package's category is its first blackarch-* group, or
blackarch-uncategorized when it has none.`,
		Example: `  bapanel scrape
  bapanel scrape --db ./tools.json --batch-size 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}

			r := app.runner()
			if ex, ok := r.(*runner.Exec); ok {
				// pacman output is parsed by key name.
				ex.Env = map[string]string{"LC_ALL": "C"}
			}

			out := cmd.OutOrStdout()
			scraper := pacman.NewScraper(r, app.Logger)
			scraper.BatchSize = batchSize
			scraper.Progress = func(done, total int) {
				fmt.Fprintf(cmd.ErrOrStderr(), "\rScraped %d/%d packages", done, total)
				if done == total {
					fmt.Fprintln(cmd.ErrOrStderr())
				}
			}

			corpus, err := scraper.Scrape(cmd.Context())
			if err != nil {
				return err
			}

			if dryRun {
				success(out, "Scraped %d tools in %d categories (not written)", corpus.Len(), corpus.Categories().Len())
				return nil
			}
			if err := database.DumpFile(cfg.Database, corpus, database.DumpOptions{}); err != nil {
				return err
			}
			app.invalidate()

			success(out, "Wrote %d tools in %d categories to %s", corpus.Len(), corpus.Categories().Len(), cfg.Database)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", pacman.DefaultBatchSize, "Packages per pacman query")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Scrape without writing the database")

	return cmd
}
