package cli

import (
	"errors"
	"fmt"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Exit codes returned by the bapanel binary.
const (
	ExitOK       = 0
	ExitNotFound = 1
	ExitSchema   = 2
	ExitConflict = 3
	ExitFailure  = 4
)

// DatabaseMissingError reports that no tool database exists yet.
type DatabaseMissingError struct {
	Path string
}

func (e *DatabaseMissingError) Error() string {
	return fmt.Sprintf("tool database not found: %s\n\n💡 Run 'bapanel scrape' on a BlackArch system, or 'bapanel import <file>'", e.Path)
}

// ExitCode maps an error returned by a command to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var (
		notFound *catalog.NotFoundError
		schema   *catalog.SchemaError
		parse    *catalog.ParseError
		conflict *catalog.ConflictError
	)
	switch {
	case errors.As(err, &notFound), errors.Is(err, catalog.ErrEmptyCorpus):
		return ExitNotFound
	case errors.As(err, &schema), errors.As(err, &parse):
		return ExitSchema
	case errors.As(err, &conflict):
		return ExitConflict
	default:
		return ExitFailure
	}
}
