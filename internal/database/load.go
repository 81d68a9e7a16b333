/*
Package database reads and writes the JSON tool database.

The persisted document is a top-level array of tool objects. Exports may
instead wrap that array in an envelope carrying the export time and the
filter that selected the tools; Load accepts both shapes. Every record is
checked against a JSON Schema before it is decoded, and the document is
accepted or rejected as a whole.
*/
package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Load parses a database document from r.
func Load(r io.Reader) (*catalog.Corpus, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &catalog.IOError{Op: "read", Path: "database", Err: err}
	}
	return decode(data, "")
}

// LoadFile parses the database document stored at path.
func LoadFile(path string) (*catalog.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &catalog.IOError{Op: "read", Path: path, Err: err}
	}
	return decode(data, path)
}

func decode(data []byte, source string) (*catalog.Corpus, error) {
	raws, err := splitRecords(data, source)
	if err != nil {
		return nil, err
	}

	validator, err := recordValidator()
	if err != nil {
		return nil, err
	}

	records := make([]catalog.ToolRecord, len(raws))
	for i, raw := range raws {
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, parseError(source, err)
		}

		if err := validator.Validate(v); err != nil {
			field, reason := locateField(v)
			if reason == "" {
				reason = err.Error()
			}
			return nil, &catalog.SchemaError{Source: source, Index: i, Field: field, Reason: reason}
		}
		if field, reason := caseVariant(v); field != "" {
			return nil, &catalog.SchemaError{Source: source, Index: i, Field: field, Reason: reason}
		}

		if err := json.Unmarshal(raw, &records[i]); err != nil {
			return nil, &catalog.SchemaError{Source: source, Index: i, Reason: err.Error()}
		}
	}

	c, err := catalog.New(records)
	if err != nil {
		var schemaErr *catalog.SchemaError
		if errors.As(err, &schemaErr) {
			schemaErr.Source = source
		}
		return nil, err
	}
	return c, nil
}

// splitRecords returns the raw tool objects of either accepted shape.
func splitRecords(data []byte, source string) ([]json.RawMessage, error) {
	var top json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, parseError(source, err)
	}

	switch trimmed := bytes.TrimSpace(top); {
	case len(trimmed) > 0 && trimmed[0] == '[':
		var raws []json.RawMessage
		if err := json.Unmarshal(trimmed, &raws); err != nil {
			return nil, parseError(source, err)
		}
		return raws, nil

	case len(trimmed) > 0 && trimmed[0] == '{':
		var env struct {
			Tools *json.RawMessage `json:"tools"`
		}
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return nil, parseError(source, err)
		}
		if env.Tools == nil {
			return nil, &catalog.SchemaError{Source: source, Index: -1, Field: "tools", Reason: "export envelope has no tools array"}
		}
		var raws []json.RawMessage
		if err := json.Unmarshal(*env.Tools, &raws); err != nil {
			return nil, &catalog.SchemaError{Source: source, Index: -1, Field: "tools", Reason: "expected an array of tool objects"}
		}
		return raws, nil

	default:
		return nil, &catalog.SchemaError{Source: source, Index: -1, Reason: "expected an array of tool objects"}
	}
}

func parseError(source string, err error) error {
	pe := &catalog.ParseError{Source: source, Err: err}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		pe.Offset = syntaxErr.Offset
	}
	return pe
}
