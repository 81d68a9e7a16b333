package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/database"
	"github.com/bapanel/bapanel/internal/search"
)

// NewExportCmd creates the 'export' command.
func NewExportCmd(app *App) *cobra.Command {
	var (
		category string
		query    string
		tools    []string
		envelope bool
	)

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export the database or a subset of it",
		Long: `Write tools to <path> as a JSON database document. Use "-" for stdout.

At most one of --category, --search and --tools selects a subset; by
default every tool is exported. With --envelope the tools are wrapped
in {"tools": [...], "exported_at": <unix>, "filter": {...}}.

An exported file can be loaded back with 'bapanel import' or --db.`,
		Example: `  bapanel export tools.json
  bapanel export scanners.json --category blackarch-scanner
  bapanel export - --search sql --envelope
  bapanel export picks.json --tools nmap,sqlmap`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}

			subset, filter, err := selectSubset(corpus, category, query, tools)
			if err != nil {
				return err
			}
			opts := database.DumpOptions{Envelope: envelope, Filter: filter}

			if args[0] == "-" {
				return database.Dump(cmd.OutOrStdout(), subset, opts)
			}
			if err := database.DumpFile(args[0], subset, opts); err != nil {
				return err
			}

			app.Logger.Debug("exported tools", zap.String("path", args[0]), zap.String("filter", filter.Type))
			success(cmd.OutOrStdout(), "Exported %d tools to %s", subset.Len(), args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Export one category")
	cmd.Flags().StringVarP(&query, "search", "s", "", "Export the tools matching a search")
	cmd.Flags().StringSliceVarP(&tools, "tools", "t", nil, "Export the named tools (comma separated)")
	cmd.Flags().BoolVarP(&envelope, "envelope", "e", false, "Wrap the tools with export metadata")
	cmd.MarkFlagsMutuallyExclusive("category", "search", "tools")

	return cmd
}

func selectSubset(corpus *catalog.Corpus, category, query string, tools []string) (*catalog.Corpus, database.Filter, error) {
	switch {
	case category != "":
		records, err := corpus.InCategory(category)
		if err != nil {
			return nil, database.Filter{}, err
		}
		subset, err := database.Subset(corpus, recordNames(records))
		return subset, database.Filter{Type: database.FilterCategory, Value: category}, err

	case query != "":
		seq, err := search.Search(corpus, query, search.Options{})
		if err != nil {
			return nil, database.Filter{}, err
		}
		var names []string
		for tool := range seq {
			names = append(names, tool.Name)
		}
		// Subset keeps corpus order; search order is not preserved.
		subset, err := database.Subset(corpus, names)
		return subset, database.Filter{Type: database.FilterSearch, Value: query}, err

	case len(tools) > 0:
		subset, err := database.Subset(corpus, tools)
		return subset, database.Filter{Type: database.FilterTools, Value: strings.Join(tools, ",")}, err

	default:
		return corpus, database.Filter{Type: database.FilterAll}, nil
	}
}

func recordNames(records []catalog.ToolRecord) []string {
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.Name
	}
	return names
}

// NewImportCmd creates the 'import' command.
func NewImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <path>",
		Short: "Validate a JSON database and install it",
		Long: `Load <path>, which may be a plain tool array or an export envelope,
and, if every record is valid, replace the configured database with it.
Nothing is written when validation fails.`,
		Example: `  bapanel import tools.json
  bapanel import scanners.json --db ./scanners-db.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}

			corpus, err := database.LoadFile(args[0])
			if err != nil {
				return err
			}
			if err := database.DumpFile(cfg.Database, corpus, database.DumpOptions{}); err != nil {
				return err
			}
			app.invalidate()

			success(cmd.OutOrStdout(), "Imported %d tools into %s", corpus.Len(), cfg.Database)
			return nil
		},
	}

	return cmd
}

// NewValidateCmd creates the 'validate' command.
func NewValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Check a JSON database without installing it",
		Long: `Load a database document and report whether it is valid. Without
[path], the configured database is checked. Dependencies that name no
tool in the database are listed as warnings.`,
		Example: `  bapanel validate
  bapanel validate export.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				corpus *catalog.Corpus
				source string
				err    error
			)
			if len(args) == 1 {
				source = args[0]
				corpus, err = database.LoadFile(source)
			} else {
				cfg, cfgErr := app.Config(cmd)
				if cfgErr != nil {
					return cfgErr
				}
				source = cfg.Database
				corpus, err = app.Corpus(cmd)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			stats := catalog.ComputeStats(corpus)
			success(out, "%s is valid: %d tools in %d categories", source, stats.Tools, len(stats.Categories))
			if len(stats.Dangling) > 0 {
				fmt.Fprintf(out, "  %d dependencies name no tool in the database (informational)\n", len(stats.Dangling))
			}
			return nil
		},
	}
}
