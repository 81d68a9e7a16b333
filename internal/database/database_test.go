package database

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bapanel/bapanel/internal/catalog"
)

const sampleDoc = `[
  {"name": "nmap", "category": "blackarch-scanner", "description": "Network scanner", "dependencies": ["libpcap", "lua"]},
  {"name": "sqlmap", "category": "blackarch-webapp", "description": "SQL injection tool", "dependencies": []},
  {"name": "masscan", "category": "blackarch-scanner", "description": "Fast port scanner", "dependencies": ["libpcap"]}
]`

func TestLoadArray(t *testing.T) {
	c, err := Load(strings.NewReader(sampleDoc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if diff := cmp.Diff([]string{"nmap", "sqlmap", "masscan"}, c.Names()); diff != "" {
		t.Errorf("load order mismatch (-want +got):\n%s", diff)
	}

	tool, err := c.Lookup("NMAP")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if diff := cmp.Diff([]string{"libpcap", "lua"}, tool.Dependencies); diff != "" {
		t.Errorf("dependencies mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnvelope(t *testing.T) {
	doc := `{"tools": ` + sampleDoc + `, "exported_at": 1700000000, "filter": {"type": "all"}}`

	c, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("expected 3 tools, got %d", c.Len())
	}
}

func TestLoadEmptyArray(t *testing.T) {
	c, err := Load(strings.NewReader("[]"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("expected empty corpus, got %d tools", c.Len())
	}
}

func TestLoadParseErrors(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		wantOffset bool
	}{
		{name: "truncated array", doc: `[{"name": "nmap"`, wantOffset: false},
		{name: "bad token", doc: `[{"name": nmap}]`, wantOffset: true},
		{name: "empty input", doc: ``, wantOffset: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))

			var parseErr *catalog.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %v", err)
			}
			if tt.wantOffset && parseErr.Offset == 0 {
				t.Errorf("expected a byte offset in %v", parseErr)
			}
		})
	}
}

func TestLoadSchemaErrors(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		wantIndex int
		wantField string
	}{
		{
			name:      "top level object without tools",
			doc:       `{"name": "nmap"}`,
			wantIndex: -1,
			wantField: "tools",
		},
		{
			name:      "top level scalar",
			doc:       `42`,
			wantIndex: -1,
		},
		{
			name:      "record not an object",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": []}, "nmap"]`,
			wantIndex: 1,
		},
		{
			name:      "missing description",
			doc:       `[{"name": "a", "category": "c", "dependencies": []}]`,
			wantIndex: 0,
			wantField: "description",
		},
		{
			name:      "missing dependencies",
			doc:       `[{"name": "a", "category": "c", "description": "x"}]`,
			wantIndex: 0,
			wantField: "dependencies",
		},
		{
			name:      "empty category",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": []}, {"name": "b", "category": "", "description": "", "dependencies": []}]`,
			wantIndex: 1,
			wantField: "category",
		},
		{
			name:      "numeric name",
			doc:       `[{"name": 7, "category": "c", "description": "", "dependencies": []}]`,
			wantIndex: 0,
			wantField: "name",
		},
		{
			name:      "non-string dependency",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": ["x", 1]}]`,
			wantIndex: 0,
			wantField: "dependencies",
		},
		{
			name:      "category repeated with different case",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": [], "Category": "other"}]`,
			wantIndex: 0,
			wantField: "Category",
		},
		{
			name:      "optional field with different case",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": [], "VERSION": "1.0"}]`,
			wantIndex: 0,
			wantField: "VERSION",
		},
		{
			name:      "mistyped optional field",
			doc:       `[{"name": "a", "category": "c", "description": "", "dependencies": [], "groups": "x"}]`,
			wantIndex: 0,
			wantField: "groups",
		},
		{
			name: "duplicate name ignoring case",
			doc: `[{"name": "Nmap", "category": "c", "description": "", "dependencies": []},
			       {"name": "nmap", "category": "d", "description": "", "dependencies": []}]`,
			wantIndex: 1,
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc))

			var schemaErr *catalog.SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("expected SchemaError, got %v", err)
			}
			if schemaErr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d (%v)", schemaErr.Index, tt.wantIndex, err)
			}
			if schemaErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q (%v)", schemaErr.Field, tt.wantField, err)
			}
		})
	}
}

func TestLoadFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.json"))
	var ioErr *catalog.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"name": "x"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = LoadFile(bad)
	var schemaErr *catalog.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("expected SchemaError, got %v", err)
	}
	if schemaErr.Source != bad {
		t.Errorf("Source = %q, want %q", schemaErr.Source, bad)
	}
}

func fullRecords() []catalog.ToolRecord {
	return []catalog.ToolRecord{
		{
			Name:                 "nmap",
			Category:             "blackarch-scanner",
			Description:          "Network scanner & <mapper>",
			Dependencies:         []string{"libpcap", "lua"},
			Path:                 "/usr/bin/nmap",
			Version:              "7.95-1",
			LongDescription:      "Utility for network discovery",
			URL:                  "https://nmap.org",
			HelpCommand:          "nmap --help || man nmap",
			OptionalDependencies: []string{"ndiff"},
			Groups:               []string{"blackarch-recon"},
		},
		{Name: "sqlmap", Category: "blackarch-webapp", Description: "", Dependencies: nil},
		{Name: "masscan", Category: "blackarch-scanner", Description: "Fast \"port\" scanner", Dependencies: []string{"NMAP"}, Groups: []string{}},
	}
}

func TestRoundTrip(t *testing.T) {
	original, err := catalog.New(fullRecords())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	for _, envelope := range []bool{false, true} {
		var buf bytes.Buffer
		if err := Dump(&buf, original, DumpOptions{Envelope: envelope}); err != nil {
			t.Fatalf("Dump failed: %v", err)
		}

		reloaded, err := Load(&buf)
		if err != nil {
			t.Fatalf("Load failed (envelope=%v): %v", envelope, err)
		}

		if diff := cmp.Diff(original.Tools(), reloaded.Tools()); diff != "" {
			t.Errorf("round trip mismatch (envelope=%v) (-want +got):\n%s", envelope, diff)
		}
		if diff := cmp.Diff(original.Categories().Counts(), reloaded.Categories().Counts()); diff != "" {
			t.Errorf("category grouping mismatch (envelope=%v) (-want +got):\n%s", envelope, diff)
		}
	}
}

func TestMarshalShape(t *testing.T) {
	c, _ := catalog.New(fullRecords()[1:2])

	data, err := Marshal(c, DumpOptions{})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `[
  {
    "name": "sqlmap",
    "category": "blackarch-webapp",
    "description": "",
    "dependencies": []
  }
]
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshalEnvelope(t *testing.T) {
	c, _ := catalog.New(fullRecords())
	stamp := time.Unix(1700000000, 0)

	data, err := Marshal(c, DumpOptions{
		Envelope: true,
		Filter:   Filter{Type: FilterCategory, Value: "blackarch-scanner"},
		Now:      func() time.Time { return stamp },
	})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("envelope is not valid JSON: %v", err)
	}
	if env.ExportedAt != 1700000000 {
		t.Errorf("ExportedAt = %d", env.ExportedAt)
	}
	if env.Filter != (Filter{Type: FilterCategory, Value: "blackarch-scanner"}) {
		t.Errorf("Filter = %+v", env.Filter)
	}
	if len(env.Tools) != 3 {
		t.Errorf("expected 3 tools, got %d", len(env.Tools))
	}
}

func TestDumpFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "tools.json")
	c, _ := catalog.New(fullRecords())

	if err := DumpFile(path, c, DumpOptions{}); err != nil {
		t.Fatalf("DumpFile failed: %v", err)
	}

	for _, leftover := range []string{path + ".tmp", path + ".lock"} {
		if _, err := os.Stat(leftover); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", leftover)
		}
	}

	reloaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if diff := cmp.Diff(c.Tools(), reloaded.Tools()); diff != "" {
		t.Errorf("file round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDumpFileLocked(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.json")
	c, _ := catalog.New(fullRecords())

	lock, err := acquireFileLock(path)
	if err != nil {
		t.Fatalf("acquireFileLock failed: %v", err)
	}
	defer releaseFileLock(lock)

	err = DumpFile(path, c, DumpOptions{})
	var ioErr *catalog.IOError
	if !errors.As(err, &ioErr) || ioErr.Op != "lock" {
		t.Fatalf("expected lock IOError, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("database should not be written while locked")
	}
}

func TestSubset(t *testing.T) {
	c, _ := catalog.New(fullRecords())

	sub, err := Subset(c, []string{"MASSCAN", "nmap", "nmap"})
	if err != nil {
		t.Fatalf("Subset failed: %v", err)
	}
	if diff := cmp.Diff([]string{"nmap", "masscan"}, sub.Names()); diff != "" {
		t.Errorf("subset order mismatch (-want +got):\n%s", diff)
	}

	_, err = Subset(c, []string{"hydra"})
	var notFound *catalog.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}
