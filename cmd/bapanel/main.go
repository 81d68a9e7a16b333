/*
Package main is the entry point for the bapanel CLI.

bapanel browses a catalog of BlackArch Linux security tools: it lists
categories, searches tools by name and description, suggests related
tools, exports subsets and generates wrapper scripts.

Usage:
  bapanel [command]

Available Commands:
  categories  List tool categories with their tool counts
  category    List the tools in a category
  search      Search tools by name and description
  show        Show a tool's details and related tools
  related     List tools related to a tool
  wrapper     Generate a wrapper script for a tool
  export      Export the database or a subset of it
  import      Validate a JSON database and install it
  random      Show a random tool
  scrape      Rebuild the tool database from pacman
  shell       Start an interactive bapanel session

Examples:
  # Build the database on a BlackArch system
  bapanel scrape

  # Find SQL injection tools
  bapanel search "sql injection"

  # Generate ~/.bapanel/wrappers/nmap_wrapper.sh
  bapanel wrapper nmap

Exit status: 0 success, 1 unknown tool or category, 2 invalid database,
3 wrapper already exists, 4 any other failure.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/bapanel/bapanel/internal/cli"
	"github.com/bapanel/bapanel/internal/version"
)

func main() {
	level := zap.NewAtomicLevelAt(zapcore.WarnLevel)

	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = level
	logCfg.Encoding = "console"
	logCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logCfg.DisableStacktrace = true
	logger, err := logCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(cli.ExitFailure)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := cli.NewRootCmd(cli.NewApp(logger, level))
	root.Version = version.Get().String()

	err = root.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		logger.Sync()
		os.Exit(cli.ExitCode(err))
	}
}
