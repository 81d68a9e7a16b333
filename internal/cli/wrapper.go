package cli

import (
	"github.com/spf13/cobra"

	"github.com/bapanel/bapanel/internal/wrapper"
)

// NewWrapperCmd creates the 'wrapper' command.
func NewWrapperCmd(app *App) *cobra.Command {
	var (
		outputDir string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "wrapper <tool>",
		Short: "Generate a wrapper script for a tool",
		Long: `Write <tool>_wrapper.sh, an executable script that runs the tool with
its arguments, standard streams and exit status passed through.

An existing script is never replaced unless --force is given.`,
		Example: `  bapanel wrapper nmap
  bapanel wrapper nmap --output-dir ./bin --force`,
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

			dir := outputDir
			if dir == "" {
				dir = cfg.WrapperDir
			}
			path, err := wrapper.Generate(tool, dir, wrapper.Options{Overwrite: force})
			if err != nil {
				return err
			}

			success(cmd.OutOrStdout(), "Wrote wrapper for %s: %s", tool.Name, path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for the script (default from config)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing script")

	return cmd
}
