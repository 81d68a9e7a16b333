package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/bapanel/bapanel/internal/catalog"
)

// Filter types recorded in an export envelope.
const (
	FilterAll      = "all"
	FilterCategory = "category"
	FilterSearch   = "search"
	FilterTools    = "tools"
)

// Filter describes how an exported subset was selected.
type Filter struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Envelope is the export wrapper around the tool array.
type Envelope struct {
	Tools      []catalog.ToolRecord `json:"tools"`
	ExportedAt int64                `json:"exported_at"`
	Filter     Filter               `json:"filter"`
}

// DumpOptions controls Dump and DumpFile.
type DumpOptions struct {
	// Envelope wraps the tool array in an Envelope.
	Envelope bool

	// Filter is recorded in the envelope. Defaults to FilterAll.
	Filter Filter

	// Now stamps the envelope. Defaults to time.Now.
	Now func() time.Time
}

// Dump writes the corpus as a database document, tools in load order.
func Dump(w io.Writer, c *catalog.Corpus, opts DumpOptions) error {
	data, err := Marshal(c, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return &catalog.IOError{Op: "write", Path: "database", Err: err}
	}
	return nil
}

// Marshal renders the corpus as an indented JSON document.
func Marshal(c *catalog.Corpus, opts DumpOptions) ([]byte, error) {
	var doc any = c.Tools()
	if opts.Envelope {
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		filter := opts.Filter
		if filter.Type == "" {
			filter.Type = FilterAll
		}
		doc = Envelope{Tools: c.Tools(), ExportedAt: now().Unix(), Filter: filter}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode database: %w", err)
	}
	return buf.Bytes(), nil
}

// DumpFile writes the corpus to path atomically. An exclusive lock file
// next to path guards against two concurrent writers.
func DumpFile(path string, c *catalog.Corpus, opts DumpOptions) error {
	data, err := Marshal(c, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &catalog.IOError{Op: "create directory for", Path: path, Err: err}
	}

	lock, err := acquireFileLock(path)
	if err != nil {
		return &catalog.IOError{Op: "lock", Path: path, Err: err}
	}
	defer releaseFileLock(lock)

	if err := atomicWrite(path, data); err != nil {
		return &catalog.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func atomicWrite(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
