/*
Package runner executes external commands for bapanel.

It backs two features: querying pacman while scraping the tool database,
and running a tool's help command for the show command. Every run is
bounded by a context and an optional timeout.
*/
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Runner runs a command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execCommand is a variable that allows tests to mock exec.CommandContext
var execCommand = exec.CommandContext

// CommandError reports a command that failed to start or exited non-zero.
type CommandError struct {
	Command string
	Stderr  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s: %v", e.Command, e.Err)
	if e.Stderr != "" {
		msg += "\n" + e.Stderr
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Exec runs commands as child processes.
type Exec struct {
	// Timeout bounds each run. Zero means only ctx applies.
	Timeout time.Duration

	// Env is added to the inherited environment.
	Env map[string]string

	Logger *zap.Logger
}

// NewExec returns an Exec with the given timeout and logger.
func NewExec(timeout time.Duration, logger *zap.Logger) *Exec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exec{Timeout: timeout, Logger: logger}
}

// Run executes name with args and returns its standard output.
func (e *Exec) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	cmd := execCommand(ctx, name, args...)
	cmd.Env = e.environ()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	e.logger().Debug("command finished",
		zap.String("command", name),
		zap.Strings("args", args),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", e.Timeout, ctx.Err())
		}
		return stdout.Bytes(), &CommandError{
			Command: strings.TrimSpace(name + " " + strings.Join(args, " ")),
			Stderr:  strings.TrimSpace(stderr.String()),
			Err:     err,
		}
	}
	return stdout.Bytes(), nil
}

// Shell runs command through sh -c, streaming its output.
func (e *Exec) Shell(ctx context.Context, command string, stdout, stderr io.Writer) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	cmd := execCommand(ctx, "sh", "-c", command)
	cmd.Env = e.environ()
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			err = fmt.Errorf("timed out after %s: %w", e.Timeout, ctx.Err())
		}
		return &CommandError{Command: command, Err: err}
	}
	return nil
}

func (e *Exec) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.Timeout > 0 {
		return context.WithTimeout(ctx, e.Timeout)
	}
	return context.WithCancel(ctx)
}

func (e *Exec) environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(e.Env))
	for key := range e.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, fmt.Sprintf("%s=%s", key, e.Env[key]))
	}
	return env
}

func (e *Exec) logger() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}
