package cli

import (
	"github.com/spf13/cobra"

	"github.com/bapanel/bapanel/internal/render"
)

// NewCategoriesCmd creates the 'categories' command.
func NewCategoriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cats"},
		Short:   "List tool categories with their tool counts",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}
			return render.Categories(cmd.OutOrStdout(), corpus.Categories())
		},
	}
}

// NewCategoryCmd creates the 'category' command for listing one category.
func NewCategoryCmd(app *App) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "category <name>",
		Short: "List the tools in a category",
		Long: `List every tool whose primary category is <name>, in database order.
Category names match case-insensitively.`,
		Example: `  bapanel category blackarch-scanner
  bapanel category blackarch-webapp --page 2`,
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

			tools, err := corpus.InCategory(args[0])
			if err != nil {
				return err
			}
			return render.Tools(cmd.OutOrStdout(), tools, render.Page{Number: page, Size: cfg.PageSize}, render.DefaultWidth)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")

	return cmd
}

// NewListCmd creates the 'list' command for listing every tool.
func NewListCmd(app *App) *cobra.Command {
	var (
		page int
		all  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all tools",
		Example: `  bapanel list
  bapanel list --page 3
  bapanel list --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Config(cmd)
			if err != nil {
				return err
			}
			corpus, err := app.Corpus(cmd)
			if err != nil {
				return err
			}

			p := render.Page{Number: page, Size: cfg.PageSize}
			if all {
				p.Size = 0
			}
			return render.Tools(cmd.OutOrStdout(), corpus.Tools(), p, render.DefaultWidth)
		},
	}

	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page to show")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show every tool on one page")

	return cmd
}
