package driver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hopsage/TigerC/pkg/runtime"
	"github.com/hopsage/TigerC/pkg/typechecker"
)

func writeProgram(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write program: %v", err)
	}
	return path
}

func TestPipelineInterpret(t *testing.T) {
	var out strings.Builder
	pipe := &Pipeline{Stdout: &out}
	prog, err := pipe.Load(writeProgram(t, "hello.tig", `(print("hi"); 6 * 7)`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value, err := pipe.Interpret(context.Background(), prog)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got := runtime.Format(value); got != "42" {
		t.Fatalf("result = %s, want 42", got)
	}
	if out.String() != "hi" {
		t.Fatalf("stdout = %q, want hi", out.String())
	}
}

func TestPipelineLoadsStandardInput(t *testing.T) {
	pipe := &Pipeline{Stdin: strings.NewReader("1 + 1")}
	prog, err := pipe.Load(StdinName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	result, err := pipe.Compile(prog, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.ClassName != "A_out" {
		t.Fatalf("class = %q, want A_out", result.ClassName)
	}
	if !strings.HasPrefix(string(result.Text), "; generated from standard input\n") {
		t.Fatalf("unexpected header:\n%s", result.Text)
	}
}

func TestPipelineCompileNamesClassAfterFile(t *testing.T) {
	pipe := &Pipeline{}
	path := writeProgram(t, "queens.tig", "printi(8)")
	prog, err := pipe.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	result, err := pipe.Compile(prog, "")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if result.ClassName != "Queens" {
		t.Fatalf("class = %q, want Queens", result.ClassName)
	}
	if !strings.HasPrefix(string(result.Text), "; generated from "+path+"\n") {
		t.Fatalf("unexpected header:\n%s", result.Text)
	}
}

func TestPipelineRefusesProgramsWithDiagnostics(t *testing.T) {
	pipe := &Pipeline{}
	prog, err := pipe.LoadSource("bad.tig", "let var a := nil in a end")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	if _, err := pipe.Interpret(context.Background(), prog); !errors.Is(err, ErrHasDiagnostics) {
		t.Fatalf("Interpret error = %v, want ErrHasDiagnostics", err)
	}
	if _, err := pipe.Compile(prog, "Bad"); !errors.Is(err, ErrHasDiagnostics) {
		t.Fatalf("Compile error = %v, want ErrHasDiagnostics", err)
	}
	lines := DescribeDiagnostics(prog)
	if len(lines) != 1 {
		t.Fatalf("diagnostics = %q, want one", lines)
	}
	if want := "bad.tig:1:5: error: Cannot determine type of variable a from nil initialization."; lines[0] != want {
		t.Fatalf("diagnostic = %q, want %q", lines[0], want)
	}
}

func TestDescribeParseError(t *testing.T) {
	pipe := &Pipeline{}
	_, err := pipe.LoadSource("broken.tig", "1 +")
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if got := DescribeParseError(err); !strings.HasPrefix(got, "broken.tig:1:") || !strings.Contains(got, "syntax error") {
		t.Fatalf("DescribeParseError = %q", got)
	}
	_, err = pipe.LoadSource(StdinName, "1 +")
	if got := DescribeParseError(err); !strings.HasPrefix(got, "line 1, column ") {
		t.Fatalf("DescribeParseError = %q", got)
	}
}

func TestFormatLocation(t *testing.T) {
	if got := FormatLocation("a.tig", 3, 4); got != "a.tig:3:4" {
		t.Fatalf("FormatLocation = %q", got)
	}
	if got := FormatLocation("", 3, 4); got != "line 3, column 4" {
		t.Fatalf("FormatLocation = %q", got)
	}
	d := typechecker.Diagnostic{Message: "boom"}
	if got := DescribeDiagnostic("a.tig", d); got != "error: boom" {
		t.Fatalf("DescribeDiagnostic = %q", got)
	}
}

func TestDescribeRuntimeError(t *testing.T) {
	pipe := &Pipeline{}
	prog, err := pipe.LoadSource("div.tig", "1 / 0")
	if err != nil {
		t.Fatalf("LoadSource: %v", err)
	}
	_, err = pipe.Interpret(context.Background(), prog)
	if err == nil {
		t.Fatalf("expected runtime error")
	}
	if got := DescribeRuntimeError(prog.Path, err); !strings.HasPrefix(got, "div.tig:1:1: runtime error: ") {
		t.Fatalf("DescribeRuntimeError = %q", got)
	}
}

func TestProgramFromStandardInputSeesEndOfInput(t *testing.T) {
	pipe := &Pipeline{Stdin: strings.NewReader(`size(getchar())`)}
	prog, err := pipe.Load(StdinName)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	value, err := pipe.Interpret(context.Background(), prog)
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if got := runtime.Format(value); got != "0" {
		t.Fatalf("size(getchar()) = %s, want 0", got)
	}
}
