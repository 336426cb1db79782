package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/builtins"
	"github.com/hopsage/TigerC/pkg/compiler"
	"github.com/hopsage/TigerC/pkg/interpreter"
	"github.com/hopsage/TigerC/pkg/parser"
	"github.com/hopsage/TigerC/pkg/runtime"
	"github.com/hopsage/TigerC/pkg/typechecker"
)

// StdinName is the display name used for programs read from standard input.
const StdinName = "-"

// ErrHasDiagnostics is returned when a back end is asked to run a program
// that failed checking.
var ErrHasDiagnostics = errors.New("program has diagnostics")

// Program is one source file moving through the pipeline.
type Program struct {
	Path        string
	Source      string
	AST         ast.Expr
	Diagnostics []typechecker.Diagnostic
	checked     bool
}

// Pipeline wires the parser, checker and both back ends against one
// library.
type Pipeline struct {
	Library  builtins.Library
	Stdin    io.Reader
	Stdout   io.Writer
	MaxStack int
}

// NewPipeline returns a pipeline over the standard library bound to the
// process streams.
func NewPipeline() *Pipeline {
	return &Pipeline{Library: builtins.Standard(), Stdin: os.Stdin, Stdout: os.Stdout}
}

func (p *Pipeline) library() builtins.Library {
	if p.Library.Class() == "" {
		return builtins.Standard()
	}
	return p.Library
}

// Load reads and parses path. StdinName reads the source from the pipeline's
// Stdin, which leaves that reader drained: getchar in such a program sees end
// of input immediately.
func (p *Pipeline) Load(path string) (*Program, error) {
	var data []byte
	var err error
	if path == StdinName || path == "" {
		if p.Stdin == nil {
			return nil, fmt.Errorf("driver: no standard input to read")
		}
		data, err = io.ReadAll(p.Stdin)
		path = StdinName
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	return p.LoadSource(path, string(data))
}

// LoadSource parses src under the display name path.
func (p *Pipeline) LoadSource(path, src string) (*Program, error) {
	expr, err := parser.Parse(path, src)
	if err != nil {
		return nil, err
	}
	return &Program{Path: path, Source: src, AST: expr}, nil
}

// Check type-checks prog, recording its diagnostics. It returns
// ErrHasDiagnostics when any error was found.
func (p *Pipeline) Check(prog *Program) error {
	if prog == nil || prog.AST == nil {
		return fmt.Errorf("driver: missing program")
	}
	if !prog.checked {
		_, prog.Diagnostics = typechecker.New(p.library()).Check(prog.AST)
		prog.checked = true
	}
	if typechecker.HasErrors(prog.Diagnostics) {
		return ErrHasDiagnostics
	}
	return nil
}

// Interpret checks prog and then evaluates it. A call to exit surfaces as an
// error recognised by interpreter.ExitCodeFromError.
func (p *Pipeline) Interpret(ctx context.Context, prog *Program) (runtime.Value, error) {
	if err := p.Check(prog); err != nil {
		return nil, err
	}
	interp := interpreter.New(interpreter.Options{
		Library: p.library(),
		Stdin:   p.Stdin,
		Stdout:  p.Stdout,
	})
	return interp.Evaluate(ctx, prog.AST)
}

// Compile checks prog and generates its class. An empty class derives one
// from the program path.
func (p *Pipeline) Compile(prog *Program, class string) (*compiler.Result, error) {
	if err := p.Check(prog); err != nil {
		return nil, err
	}
	if class == "" {
		class = compiler.ClassNameFor(prog.Path)
	}
	source := ""
	revision := ""
	if prog.Path != StdinName {
		source = prog.Path
		rev, err := SourceRevision(prog.Path)
		if err != nil {
			return nil, err
		}
		revision = rev
	}
	c := compiler.New(compiler.Options{
		ClassName: class,
		Library:   p.library(),
		MaxStack:  p.MaxStack,
		Source:    source,
		Revision:  revision,
	})
	return c.Compile(prog.AST)
}
