// Package compiler translates type-checked Tiger programs into Jasmin
// assembly for the JVM. Functions are lambda lifted into static methods of
// one class; library calls go to the library's runtime class.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/builtins"
	"github.com/hopsage/TigerC/pkg/typechecker"
)

const (
	DefaultClassName = "A_out"
	DefaultMaxStack  = 10
)

type Options struct {
	ClassName string
	Library   builtins.Library
	// MaxStack is the least `.limit stack` written for a method; deeper
	// methods get their computed depth.
	MaxStack int
	// Source names the program in the header comment.
	Source string
	// Revision is the VCS revision of Source, if any.
	Revision string
}

type Result struct {
	ClassName string
	Text      []byte
	Warnings  []string
}

type Compiler struct {
	opts Options
}

func New(opts Options) *Compiler {
	if opts.ClassName == "" {
		opts.ClassName = DefaultClassName
	}
	if opts.MaxStack <= 0 {
		opts.MaxStack = DefaultMaxStack
	}
	if opts.Library.Class() == "" {
		opts.Library = builtins.Standard()
	}
	return &Compiler{opts: opts}
}

// Compile type-checks expr and generates the class text. Programs with type
// errors are refused; callers are expected to report diagnostics first.
func (c *Compiler) Compile(expr ast.Expr) (*Result, error) {
	if expr == nil {
		return nil, fmt.Errorf("compiler: missing program")
	}
	checker := typechecker.New(c.opts.Library)
	if _, diags := checker.Check(expr); typechecker.HasErrors(diags) {
		return nil, fmt.Errorf("compiler: program has %d diagnostics", len(diags))
	}
	captures, err := analyzeCaptures(expr, checker.TypeOf)
	if err != nil {
		return nil, err
	}
	run := newCompileRun(c.opts, checker, captures)
	text, err := run.program(expr)
	if err != nil {
		return nil, err
	}
	return &Result{ClassName: c.opts.ClassName, Text: []byte(text), Warnings: run.warnings}, nil
}

func (r *Result) Write(dir string) error {
	if r == nil {
		return fmt.Errorf("compiler: nil result")
	}
	if dir == "" {
		return fmt.Errorf("compiler: empty output dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("compiler: create output dir: %w", err)
	}
	name := r.ClassName + ".j"
	if err := os.WriteFile(filepath.Join(dir, name), r.Text, 0o600); err != nil {
		return fmt.Errorf("compiler: write %s: %w", name, err)
	}
	return nil
}

// ClassNameFor derives a class name from a source path: the base name without
// extension, first letter upper-cased, other characters outside
// [A-Za-z0-9_$] replaced by '_'.
func ClassNameFor(path string) string {
	base := path
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.IndexByte(base, '.'); idx >= 0 {
		base = base[:idx]
	}
	if base == "" || base == "-" {
		return DefaultClassName
	}
	var b strings.Builder
	for i, r := range base {
		switch {
		case r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			if i == 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := b.String()
	return strings.ToUpper(out[:1]) + out[1:]
}
