package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// maxCompletions bounds the candidates offered for one Tab press.
const maxCompletions = 50

// commands whose first argument is a tool name.
var toolArgCommands = map[string]bool{
	"show": true, "info": true, "related": true, "wrapper": true,
}

// Shell runs bapanel commands typed at an interactive prompt against one
// App, so the database is loaded once per session.
type Shell struct {
	app    *App
	out    io.Writer
	errOut io.Writer
}

// NewShell returns a Shell writing command output to out and errOut.
func NewShell(app *App, out, errOut io.Writer) *Shell {
	return &Shell{app: app, out: out, errOut: errOut}
}

// Execute runs one input line as a bapanel command. It reports whether the
// user asked to leave the shell.
func (s *Shell) Execute(ctx context.Context, line string) (bool, error) {
	args, err := splitArgs(line)
	if err != nil {
		return false, err
	}
	if len(args) == 0 {
		return false, nil
	}

	switch args[0] {
	case "exit", "quit", "q":
		return true, nil
	case "shell":
		return false, errors.New("already in the shell")
	}

	root := NewRootCmd(s.app)
	root.SetArgs(args)
	root.SetOut(s.out)
	root.SetErr(s.errOut)
	return false, root.ExecuteContext(ctx)
}

// Complete returns candidate lines for the input typed so far: command
// names for the first word, then tool or category names.
func (s *Shell) Complete(line string) []string {
	fields := strings.Fields(line)
	trailingSpace := strings.HasSuffix(line, " ")

	if len(fields) == 0 || (len(fields) == 1 && !trailingSpace) {
		prefix := ""
		if len(fields) == 1 {
			prefix = fields[0]
		}
		return withPrefix(s.commandNames(), prefix, "")
	}
	if len(fields) > 2 || (len(fields) == 2 && trailingSpace) {
		return nil
	}

	prefix := ""
	if len(fields) == 2 {
		prefix = fields[1]
	}
	head := fields[0] + " "

	corpus := s.app.corpus
	if corpus == nil {
		return nil
	}
	switch {
	case toolArgCommands[fields[0]]:
		return withPrefix(corpus.Names(), prefix, head)
	case fields[0] == "category":
		return withPrefix(corpus.Categories().Names(), prefix, head)
	}
	return nil
}

func (s *Shell) commandNames() []string {
	names := []string{"exit", "help", "quit"}
	for _, c := range NewRootCmd(s.app).Commands() {
		if c.Hidden || c.Name() == "shell" {
			continue
		}
		names = append(names, c.Name())
	}
	sort.Strings(names)
	return names
}

func withPrefix(candidates []string, prefix, head string) []string {
	lower := strings.ToLower(prefix)
	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), lower) {
			out = append(out, head+c)
			if len(out) == maxCompletions {
				break
			}
		}
	}
	return out
}

// splitArgs splits a shell line into words, honoring single and double
// quotes and backslash escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		current strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			current.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				current.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, current.String())
				current.Reset()
				inWord = false
			}
		default:
			current.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, errors.New("trailing backslash")
	}
	if inWord {
		args = append(args, current.String())
	}
	return args, nil
}

// NewShellCmd creates the 'shell' command.
func NewShellCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive bapanel session",
		Long: `Read bapanel commands from a prompt with line editing, history and
Tab completion of command, tool and category names. Type 'help' for the
command list and 'exit' or Ctrl-D to leave.`,
		Example: `  bapanel shell
  bapanel> search scanner
  bapanel> show nmap
  bapanel> wrapper nmap --force`,
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

			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()
			sh := NewShell(app, out, errOut)

			line := liner.NewLiner()
			defer line.Close()
			line.SetCtrlCAborts(true)
			line.SetCompleter(sh.Complete)

			if f, err := os.Open(cfg.HistoryFile); err == nil {
				line.ReadHistory(f)
				f.Close()
			}

			fmt.Fprintf(out, "bapanel shell: %d tools in %d categories. Type 'help' or 'exit'.\n",
				corpus.Len(), corpus.Categories().Len())

			for {
				input, err := line.Prompt("bapanel> ")
				if err != nil {
					if err == liner.ErrPromptAborted || err == io.EOF {
						fmt.Fprintln(out)
						break
					}
					return err
				}

				input = strings.TrimSpace(input)
				if input == "" {
					continue
				}
				line.AppendHistory(input)

				exit, err := sh.Execute(cmd.Context(), input)
				if err != nil {
					fmt.Fprintf(errOut, "✗ %v\n", err)
				}
				if exit {
					break
				}
			}

			saveHistory(line, cfg.HistoryFile, app.Logger)
			return nil
		},
	}
}

func saveHistory(line *liner.State, path string, logger *zap.Logger) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Warn("failed to create history directory", zap.String("path", path), zap.Error(err))
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		logger.Warn("failed to save history", zap.String("path", path), zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := line.WriteHistory(f); err != nil {
		logger.Warn("failed to save history", zap.String("path", path), zap.Error(err))
	}
}
