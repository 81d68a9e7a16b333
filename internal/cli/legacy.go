package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/bapanel/bapanel/internal/database"
	"github.com/bapanel/bapanel/internal/legacydb"
)

// NewLegacyCmd creates the 'legacy' command group for SQLite databases.
func NewLegacyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legacy",
		Short: "Convert to and from the SQLite tool database",
		Long: `Earlier bapanel releases kept tools in a SQLite database with tools,
dependencies and tool_categories tables. These commands convert between
that database and the JSON database.`,
	}

	cmd.AddCommand(newLegacyImportCmd(app), newLegacyExportCmd(app))
	return cmd
}

func newLegacyImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "import <sqlite-db>",
		Short:   "Replace the JSON database with the contents of a SQLite database",
		Example: `  bapanel legacy import ~/blackarch_tools.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}

			store, err := legacydb.OpenReadOnly(cmd.Context(), args[0], app.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			corpus, err := store.ReadCorpus(cmd.Context())
			if err != nil {
				return err
			}
			if err := database.DumpFile(cfg.Database, corpus, database.DumpOptions{}); err != nil {
				return err
			}
			app.invalidate()

			success(cmd.OutOrStdout(), "Imported %d tools from %s into %s", corpus.Len(), store.Path(), cfg.Database)
			return nil
		},
	}
}

func newLegacyExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "export <sqlite-db>",
		Short:   "Write the JSON database into a SQLite database",
		Long:    `Write every tool into <sqlite-db>, replacing its previous contents.`,
		Example: `  bapanel legacy export ./blackarch_tools.db`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}

			store, err := legacydb.Open(cmd.Context(), args[0], app.Logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.WriteCorpus(cmd.Context(), corpus, time.Now()); err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Exported %d tools to %s", corpus.Len(), store.Path())
			return nil
		},
	}
}
