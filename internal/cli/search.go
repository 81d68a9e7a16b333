package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/render"
	"github.com/bapanel/bapanel/internal/search"
)

// NewSearchCmd creates the 'search' command.
func NewSearchCmd(app *App) *cobra.Command {
	var (
		fuzzy    bool
		ranked   bool
		limit    int
		category string
	)

	cmd := &cobra.Command{
		Use:     "search <query>",
		Aliases: []string{"find"},
		Short:   "Search tools by name and description",
		Long: `Search tools by name and description, case-insensitively.

Results are ordered by tier: exact name matches first, then names
containing the query, then descriptions containing it. Within a tier,
tools keep their database order.

With --fuzzy, tools matching none of the tiers but whose name
fuzzy-matches the query are appended, best match first. With
--ranked, results come from a BM25 full-text index instead, optionally
restricted to --category.`,
		Example: `  bapanel search nmap
  bapanel search "sql injection" --limit 5
  bapanel search nmp --fuzzy
  bapanel search "port scanner" --ranked --category blackarch-scanner`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}
			query := joinArgs(args)
			out := cmd.OutOrStdout()

			if ranked {
				results, err := rankedSearch(app, corpus, query, category, limit)
				if err != nil {
					return err
				}
				if len(results) == 0 {
					fmt.Fprintf(out, "No tools match %q\n", query)
					return nil
				}
				return render.Ranked(out, results, render.DefaultWidth)
			}

			if category != "" {
				return fmt.Errorf("--category requires --ranked")
			}

			matches, err := search.Matches(corpus, query, search.Options{Fuzzy: fuzzy})
			if err != nil {
				return err
			}
			if limit > 0 && len(matches) > limit {
				matches = matches[:limit]
			}
			if len(matches) == 0 {
				fmt.Fprintf(out, "No tools match %q\n", query)
				return nil
			}
			return render.Matches(out, matches, render.DefaultWidth)
		},
	}

	cmd.Flags().BoolVarP(&fuzzy, "fuzzy", "z", false, "Append fuzzy matches after exact and substring matches")
	cmd.Flags().BoolVarP(&ranked, "ranked", "r", false, "Rank with the BM25 full-text index")
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum results (0 = all; ranked default 10)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Restrict ranked search to a category")

	return cmd
}

func rankedSearch(app *App, corpus *catalog.Corpus, query, category string, limit int) ([]search.Result, error) {
	idx, err := search.NewIndex(corpus)
	if err != nil {
		return nil, err
	}
	defer idx.Close()

	if n, err := idx.Count(); err == nil {
		app.Logger.Debug("built search index", zap.Uint64("documents", n))
	}

	if category != "" {
		return idx.SearchInCategory(query, category, limit)
	}
	return idx.SearchBM25(query, limit)
}
