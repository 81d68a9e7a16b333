/*
Package wrapper generates executable shell scripts that launch a tool.

A wrapper is a small POSIX sh script named <tool>_wrapper.sh. It checks
that the tool's command is installed and then execs it with the
caller's arguments, so standard streams and the exit status pass
straight through. Rendering is deterministic: the same tool always
yields the same bytes.
*/
package wrapper

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"unicode"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Options controls Generate.
type Options struct {
	// Overwrite replaces an existing wrapper instead of failing.
	Overwrite bool

	// Template overrides the default script template.
	Template *template.Template
}

// DefaultTemplate is the script rendered when Options.Template is nil.
var DefaultTemplate = template.Must(template.New("wrapper").Parse(`#!/bin/sh
# Wrapper for {{.Name}}
# Category: {{.Category}}
# Description: {{.Description}}

if ! command -v {{.Command}} >/dev/null 2>&1; then
	printf '%s\n' {{.Missing}} >&2
	exit 127
fi

exec {{.Command}} "$@"
`))

// scriptData is what templates see. Command and Missing are already
// shell-quoted; the header fields are single-line and comment-safe.
type scriptData struct {
	Name        string
	Category    string
	Description string
	Command     string
	Missing     string
}

// FileName returns the wrapper file name for a tool.
func FileName(toolName string) string {
	return sanitizeFileName(toolName) + "_wrapper.sh"
}

// Generate writes the wrapper for tool into outputDir and returns its path.
//
// An existing file fails with catalog.ConflictError and is left untouched
// unless opts.Overwrite is set. Other filesystem failures are returned as
// catalog.IOError.
func Generate(tool catalog.ToolRecord, outputDir string, opts Options) (string, error) {
	script, err := Render(tool, opts.Template)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", &catalog.IOError{Op: "create directory", Path: outputDir, Err: err}
	}

	path := filepath.Join(outputDir, FileName(tool.Name))

	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if opts.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0755)
	if err != nil {
		if os.IsExist(err) {
			return "", &catalog.ConflictError{Path: path}
		}
		return "", &catalog.IOError{Op: "create", Path: path, Err: err}
	}

	if _, err := f.Write(script); err != nil {
		f.Close()
		return "", &catalog.IOError{Op: "write", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return "", &catalog.IOError{Op: "write", Path: path, Err: err}
	}

	// The umask may have stripped execute bits, and O_TRUNC keeps the old mode.
	if err := os.Chmod(path, 0755); err != nil {
		return "", &catalog.IOError{Op: "chmod", Path: path, Err: err}
	}

	return path, nil
}

// Render returns the script for tool. A nil tmpl uses DefaultTemplate.
func Render(tool catalog.ToolRecord, tmpl *template.Template) ([]byte, error) {
	if strings.TrimSpace(tool.Name) == "" {
		return nil, &catalog.SchemaError{Index: -1, Field: "name", Reason: "must be a non-empty string"}
	}
	if tmpl == nil {
		tmpl = DefaultTemplate
	}

	command := tool.Command()
	data := scriptData{
		Name:        commentSafe(tool.Name),
		Category:    commentSafe(tool.Category),
		Description: commentSafe(tool.Description),
		Command:     shellQuote(command),
		Missing:     shellQuote(fmt.Sprintf("%s: command not found: %s", tool.Name, command)),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render wrapper for %s: %w", tool.Name, err)
	}
	return buf.Bytes(), nil
}

// shellQuote wraps s in single quotes for POSIX sh.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// commentSafe collapses s to one printable line for a # comment.
func commentSafe(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// sanitizeFileName keeps letters, digits, dot, dash, underscore and plus.
func sanitizeFileName(name string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			return r
		case r == '.' || r == '-' || r == '_' || r == '+':
			return r
		default:
			return '_'
		}
	}, strings.TrimSpace(name))

	if strings.Trim(safe, "._") == "" {
		return "tool"
	}
	return strings.TrimLeft(safe, ".")
}
