package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestSaveWritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".bapanel.json")

	cfg := NewConfig()
	cfg.Database = "/data/tools.json"
	cfg.PageSize = 40
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("mode = %v, want 0644", info.Mode().Perm())
	}
	if leftovers, _ := filepath.Glob(path + ".tmp-*"); len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := validateJSON(data); err != nil {
		t.Errorf("saved config does not validate: %v", err)
	}
	if !strings.Contains(string(data), `"pageSize": 40`) {
		t.Errorf("saved config missing pageSize:\n%s", data)
	}
}

func TestSaveKeepsBackup(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bapanel.json")

	cfg := NewConfig()
	cfg.Database = "/data/first.json"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
		t.Error("first save should not leave a backup")
	}

	cfg.Database = "/data/second.json"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	bak, err := os.ReadFile(path + ".bak")
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if !strings.Contains(string(bak), "first.json") {
		t.Errorf("backup should hold the previous config:\n%s", bak)
	}
	current, _ := os.ReadFile(path)
	if !strings.Contains(string(current), "second.json") {
		t.Errorf("config should hold the new database path:\n%s", current)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".bapanel.json")

	cfg := NewConfig()
	cfg.PageSize = 0

	err := Save(cfg, path)
	var invalid *InvalidConfigError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidConfigError, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}

func TestSaveReportsPermissionError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	dir := filepath.Join(t.TempDir(), "locked")
	if err := os.Mkdir(dir, 0555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(dir, 0755) })

	err := Save(NewConfig(), filepath.Join(dir, ".bapanel.json"))
	var permErr *PermissionError
	if !errors.As(err, &permErr) {
		t.Fatalf("expected PermissionError, got %v", err)
	}
	if permErr.Path != dir || !strings.Contains(err.Error(), "chmod u+w") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		errMsg string
	}{
		{
			name: "valid config",
			data: `{"database": "/tmp/tools.json", "wrapperDir": "/tmp/w", "relatedLimit": 5, "pageSize": 20, "commandTimeoutSeconds": 30, "weights": {"category": 1}}`,
		},
		{
			name:   "missing database",
			data:   `{"wrapperDir": "/tmp/w", "relatedLimit": 5, "pageSize": 20, "commandTimeoutSeconds": 30, "weights": {"category": 1}}`,
			errMsg: "database path must not be empty",
		},
		{
			name:   "zero related limit",
			data:   `{"database": "/tmp/tools.json", "wrapperDir": "/tmp/w", "relatedLimit": 0, "pageSize": 20, "commandTimeoutSeconds": 30, "weights": {"category": 1}}`,
			errMsg: "relatedLimit",
		},
		{
			name:   "negative weight",
			data:   `{"database": "/tmp/tools.json", "wrapperDir": "/tmp/w", "relatedLimit": 5, "pageSize": 20, "commandTimeoutSeconds": 30, "weights": {"category": -1, "description": 1}}`,
			errMsg: "must not be negative",
		},
		{
			name:   "invalid JSON",
			data:   `{invalid json}`,
			errMsg: "invalid character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateJSON([]byte(tt.data))
			if tt.errMsg == "" {
				if err != nil {
					t.Errorf("validateJSON() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("validateJSON() error = %v, want it to contain %q", err, tt.errMsg)
			}
		})
	}
}

func TestSaveConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".bapanel.json")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(limit int) {
			defer wg.Done()
			cfg := NewConfig()
			cfg.RelatedLimit = limit
			if err := Save(cfg, path); err != nil {
				t.Errorf("Save(%d) failed: %v", limit, err)
			}
		}(i + 1)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("config missing after concurrent saves: %v", err)
	}
	if err := validateJSON(data); err != nil {
		t.Errorf("config corrupted by concurrent saves: %v", err)
	}
	if leftovers, _ := filepath.Glob(filepath.Join(dir, "*.tmp-*")); len(leftovers) != 0 {
		t.Errorf("temp files left behind: %v", leftovers)
	}
}
