package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("search query must not be empty")

	// ErrInvalidLimit is returned when a result limit is not positive.
	ErrInvalidLimit = errors.New("limit must be greater than zero")

	// ErrEmptyCorpus is returned when an operation needs at least one tool.
	ErrEmptyCorpus = errors.New("database contains no tools")
)

// ParseError reports a database document that is not valid JSON.
type ParseError struct {
	Source string
	Offset int64 // byte offset of the syntax error, 0 if unknown
	Err    error
}

func (e *ParseError) Error() string {
	msg := "invalid JSON"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Offset > 0 {
		msg += fmt.Sprintf(" at byte %d", e.Offset)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// SchemaError reports a record that violates the database schema.
// Index is the zero-based position of the offending record, or -1 when
// the document as a whole has the wrong shape.
type SchemaError struct {
	Source string
	Index  int
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	msg := "schema error"
	if e.Source != "" {
		msg += " in " + e.Source
	}
	if e.Index >= 0 {
		msg += fmt.Sprintf(": record %d", e.Index)
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	return msg + ": " + e.Reason
}

// NotFoundError reports an unknown tool or category name.
type NotFoundError struct {
	Kind string // "tool" or "category"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Name)
}

// ConflictError reports a wrapper target that already exists.
type ConflictError struct {
	Path string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("file already exists: %s\n💡 Use --force to overwrite it", e.Path)
}

// IOError reports a filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("cannot %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
