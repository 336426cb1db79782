package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadManifestBasic(t *testing.T) {
	path := writeManifest(t, `
name: queens
entry: src/queens.tig
class: Queens
output: build
backend: jvm
max_stack: 16
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Name != "queens" {
		t.Fatalf("Name = %q, want queens", manifest.Name)
	}
	if manifest.Backend != BackendJVM {
		t.Fatalf("Backend = %q, want jvm", manifest.Backend)
	}
	if manifest.MaxStack != 16 {
		t.Fatalf("MaxStack = %d, want 16", manifest.MaxStack)
	}
	dir := filepath.Dir(path)
	if got, want := manifest.EntryPath(), filepath.Join(dir, "src", "queens.tig"); got != want {
		t.Fatalf("EntryPath = %q, want %q", got, want)
	}
	if got, want := manifest.OutputDir(), filepath.Join(dir, "build"); got != want {
		t.Fatalf("OutputDir = %q, want %q", got, want)
	}
	if manifest.ClassName() != "Queens" {
		t.Fatalf("ClassName = %q, want Queens", manifest.ClassName())
	}
}

func TestLoadManifestDefaults(t *testing.T) {
	path := writeManifest(t, `
name: hello
entry: hello.tig
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}
	if manifest.Backend != BackendInterp {
		t.Fatalf("Backend = %q, want interp", manifest.Backend)
	}
	if manifest.OutputDir() != filepath.Dir(path) {
		t.Fatalf("OutputDir = %q, want manifest directory", manifest.OutputDir())
	}
	if manifest.ClassName() != "Hello" {
		t.Fatalf("ClassName = %q, want Hello", manifest.ClassName())
	}
}

func TestLoadManifestValidation(t *testing.T) {
	path := writeManifest(t, `
entry: main.tiger
backend: llvm
class: 9lives
max_stack: -1
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want *ValidationError", err)
	}
	want := []string{"name must be provided", "must be a .tig file", "backend \"llvm\"", "class \"9lives\"", "max_stack"}
	if len(verr.Issues) != len(want) {
		t.Fatalf("issues = %q, want %d entries", verr.Issues, len(want))
	}
	for i, fragment := range want {
		if !strings.Contains(verr.Issues[i], fragment) {
			t.Fatalf("issue %d = %q, want it to mention %q", i, verr.Issues[i], fragment)
		}
	}
	if !strings.HasPrefix(err.Error(), "manifest validation failed:\n- ") {
		t.Fatalf("unexpected error text %q", err.Error())
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `
name: hello
entry: hello.tig
version: 1.0
`)
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "version") {
		t.Fatalf("error = %v, want unknown field failure", err)
	}
}

func TestLoadManifestEmpty(t *testing.T) {
	path := writeManifest(t, "")
	if _, err := LoadManifest(path); err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("error = %v, want empty manifest failure", err)
	}
	if _, err := LoadManifest(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestFindManifestWalksUp(t *testing.T) {
	path := writeManifest(t, "name: x\nentry: x.tig\n")
	nested := filepath.Join(filepath.Dir(path), "src", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	found, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("FindManifest returned error: %v", err)
	}
	if found != path {
		t.Fatalf("FindManifest = %q, want %q", found, path)
	}
}

func TestFindManifestMissing(t *testing.T) {
	if _, err := FindManifest(t.TempDir()); !errors.Is(err, ErrNoManifest) {
		t.Fatalf("error = %v, want ErrNoManifest", err)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}
