package wrapper

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"text/template"

	"github.com/google/go-cmp/cmp"

	"github.com/bapanel/bapanel/internal/catalog"
)

func TestRenderDefault(t *testing.T) {
	tool := catalog.ToolRecord{
		Name:        "nmap",
		Category:    "blackarch-scanner",
		Description: "Network scanner\nwith newline",
	}

	got, err := Render(tool, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	want := `#!/bin/sh
# Wrapper for nmap
# Category: blackarch-scanner
# Description: Network scanner with newline

if ! command -v 'nmap' >/dev/null 2>&1; then
	printf '%s\n' 'nmap: command not found: nmap' >&2
	exit 127
fi

exec 'nmap' "$@"
`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("script mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeterministic(t *testing.T) {
	tool := catalog.ToolRecord{Name: "sqlmap", Category: "webapp", Description: "SQL injection", Path: "/opt/it's here/sqlmap"}

	first, err := Render(tool, nil)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, _ := Render(tool, nil)
		if !bytes.Equal(first, again) {
			t.Fatal("Render output differs between runs")
		}
	}

	if !strings.Contains(string(first), `exec '/opt/it'\''s here/sqlmap' "$@"`) {
		t.Errorf("command not single-quote escaped:\n%s", first)
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	tmpl := template.Must(template.New("custom").Parse("#!/bin/sh\nexec {{.Command}} --quiet \"$@\"\n"))

	got, err := Render(catalog.ToolRecord{Name: "hydra", Category: "cracker"}, tmpl)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if string(got) != "#!/bin/sh\nexec 'hydra' --quiet \"$@\"\n" {
		t.Errorf("unexpected custom output: %q", got)
	}
}

func TestRenderRejectsEmptyName(t *testing.T) {
	_, err := Render(catalog.ToolRecord{Category: "x"}, nil)
	var schemaErr *catalog.SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("expected SchemaError, got %v", err)
	}
}

func TestGenerateCreatesExecutable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wrappers")
	tool := catalog.ToolRecord{Name: "nmap", Category: "scanner"}

	path, err := Generate(tool, dir, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if path != filepath.Join(dir, "nmap_wrapper.sh") {
		t.Errorf("unexpected path %s", path)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("wrapper not created: %v", err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected exactly one file, got %d", len(entries))
	}
}

func TestGenerateConflict(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "nmap_wrapper.sh")
	if err := os.WriteFile(existing, []byte("keep me"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Generate(catalog.ToolRecord{Name: "nmap", Category: "scanner"}, dir, Options{})

	var conflict *catalog.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Path != existing {
		t.Errorf("conflict path = %s, want %s", conflict.Path, existing)
	}

	data, _ := os.ReadFile(existing)
	if string(data) != "keep me" {
		t.Errorf("existing file was modified: %q", data)
	}
}

func TestGenerateOverwrite(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "nmap_wrapper.sh")
	if err := os.WriteFile(existing, []byte(strings.Repeat("old content\n", 100)), 0644); err != nil {
		t.Fatal(err)
	}

	tool := catalog.ToolRecord{Name: "nmap", Category: "scanner"}
	path, err := Generate(tool, dir, Options{Overwrite: true})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	want, _ := Render(tool, nil)
	got, _ := os.ReadFile(path)
	if !bytes.Equal(want, got) {
		t.Errorf("overwritten file mismatch:\n%s", got)
	}

	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestGeneratedWrapperPassesThrough(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	fake := filepath.Join(dir, "fake tool")
	script := "#!/bin/sh\nfor arg in \"$@\"; do printf '<%s>' \"$arg\"; done\necho oops >&2\nexit 3\n"
	if err := os.WriteFile(fake, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	path, err := Generate(catalog.ToolRecord{Name: "fake", Category: "test", Path: fake}, dir, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	cmd := exec.Command(path, "a b", "", "$HOME")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err = cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 3 {
		t.Fatalf("expected exit status 3, got %v", err)
	}
	if stdout.String() != "<a b><><$HOME>" {
		t.Errorf("arguments not forwarded verbatim: %q", stdout.String())
	}
	if stderr.String() != "oops\n" {
		t.Errorf("stderr not passed through: %q", stderr.String())
	}
}

func TestGeneratedWrapperMissingCommand(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	path, err := Generate(catalog.ToolRecord{Name: "ghost", Category: "test", Path: filepath.Join(dir, "does-not-exist")}, dir, Options{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	var stderr bytes.Buffer
	cmd := exec.Command(path)
	cmd.Stderr = &stderr
	err = cmd.Run()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || exitErr.ExitCode() != 127 {
		t.Fatalf("expected exit status 127, got %v", err)
	}
	if !strings.Contains(stderr.String(), "command not found") {
		t.Errorf("expected error on stderr, got %q", stderr.String())
	}
}

func TestFileName(t *testing.T) {
	tests := map[string]string{
		"nmap":          "nmap_wrapper.sh",
		"python-impack": "python-impack_wrapper.sh",
		"../etc/passwd": "_etc_passwd_wrapper.sh",
		"a b":           "a_b_wrapper.sh",
		"..":            "tool_wrapper.sh",
		"c++filt":       "c++filt_wrapper.sh",
	}
	for in, want := range tests {
		if got := FileName(in); got != want {
			t.Errorf("FileName(%q) = %q, want %q", in, got, want)
		}
	}
}
