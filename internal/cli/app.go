/*
Package cli implements the bapanel command tree.

Every command shares an App, which loads configuration and the tool
database on first use and caches them for the rest of the process (the
interactive shell runs many commands against one App).
*/
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bapanel/bapanel/internal/catalog"
	"github.com/bapanel/bapanel/internal/config"
	"github.com/bapanel/bapanel/internal/database"
	"github.com/bapanel/bapanel/internal/runner"
)

// App holds state shared by all commands.
type App struct {
	Logger *zap.Logger

	// Level is raised to debug by --verbose.
	Level zap.AtomicLevel

	// Runner executes pacman and help commands. Nil means a real Exec.
	Runner runner.Runner

	configPath string
	dbPath     string
	verbose    bool

	cfg    *config.Config
	cfgKey string
	corpus *catalog.Corpus
}

// NewApp returns an App logging through logger.
func NewApp(logger *zap.Logger, level zap.AtomicLevel) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{Logger: logger, Level: level}
}

// NewRootCmd builds the full command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "bapanel",
		Short: "Browse, search and wrap BlackArch security tools",
		Long: `bapanel is a catalog of BlackArch Linux security tools.

It loads a JSON tool database and lets you browse categories, search
tools by name and description, find related tools, export subsets and
generate wrapper scripts. The database can be rebuilt from pacman with
'bapanel scrape' or converted from an older SQLite database with
'bapanel legacy import'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.verbose {
				app.Level.SetLevel(zap.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&app.dbPath, "db", "", "Tool database path (default from config: ~/.bapanel/tools.json)")
	flags.StringVar(&app.configPath, "config", "", "Config file path (default: ~/.bapanel.json)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(
		NewCategoriesCmd(app),
		NewCategoryCmd(app),
		NewListCmd(app),
		NewSearchCmd(app),
		NewShowCmd(app),
		NewRelatedCmd(app),
		NewWrapperCmd(app),
		NewExportCmd(app),
		NewImportCmd(app),
		NewRandomCmd(app),
		NewStatsCmd(app),
		NewValidateCmd(app),
		NewLegacyCmd(app),
		NewScrapeCmd(app),
		NewShellCmd(app),
		NewConfigCmd(app),
		NewVersionCmd(),
	)

	return root
}

// Config loads configuration, applying --config and --db. The result is
// cached until either flag changes, which happens between shell lines.
func (a *App) Config(cmd *cobra.Command) (*config.Config, error) {
	key := a.configPath + "\x00" + a.dbPath
	if a.cfg != nil && key == a.cfgKey {
		return a.cfg, nil
	}

	cfg, err := config.LoadFrom(a.configPath, cmd.Flags())
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("loaded config", zap.String("database", cfg.Database))
	if a.cfg != nil && a.cfg.Database != cfg.Database {
		a.invalidate()
	}
	a.cfg, a.cfgKey = cfg, key
	return cfg, nil
}

// Corpus loads the tool database once.
func (a *App) Corpus(cmd *cobra.Command) (*catalog.Corpus, error) {
	cfg, err := a.Config(cmd)
	if err != nil {
		return nil, err
	}
	if a.corpus != nil {
		return a.corpus, nil
	}

	corpus, err := database.LoadFile(cfg.Database)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DatabaseMissingError{Path: cfg.Database}
		}
		return nil, err
	}
	a.Logger.Debug("loaded database", zap.String("path", cfg.Database), zap.Int("tools", corpus.Len()))
	a.corpus = corpus
	return corpus, nil
}

// invalidate drops the cached corpus after the database file changes.
func (a *App) invalidate() {
	a.corpus = nil
}

func (a *App) runner() runner.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return a.execer()
}

func (a *App) execer() *runner.Exec {
	return runner.NewExec(a.commandTimeout(), a.Logger)
}

func (a *App) commandTimeout() time.Duration {
	if a.cfg != nil {
		return a.cfg.CommandTimeout()
	}
	return config.NewConfig().CommandTimeout()
}

// success prints a "✓" status line.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "✓ "+format+"\n", args...)
}
