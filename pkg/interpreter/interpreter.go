// Package interpreter evaluates type-checked Tiger programs by walking the
// AST. Variables and functions share one environment of runtime values;
// function values close over the scope chain of their declaration group.
package interpreter

import (
	"bufio"
	"context"
	"errors"
	"io"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/builtins"
	"github.com/hopsage/TigerC/pkg/env"
	"github.com/hopsage/TigerC/pkg/runtime"
)

type Environment = env.Environment[runtime.Value]

// Options configures an interpreter.
type Options struct {
	Library builtins.Library
	// Stdin feeds getchar; nil behaves as an empty input.
	Stdin io.Reader
	// Stdout receives print and printi; nil discards output.
	Stdout io.Writer
}

// Interpreter executes programs. It is not safe for concurrent use.
type Interpreter struct {
	lib builtins.Library
	in  *bufio.Reader
	out *bufio.Writer
	ctx context.Context
}

// New returns an interpreter bound to opts.
func New(opts Options) *Interpreter {
	i := &Interpreter{lib: opts.Library}
	if opts.Stdin != nil {
		i.in = bufio.NewReader(opts.Stdin)
	}
	stdout := opts.Stdout
	if stdout == nil {
		stdout = io.Discard
	}
	i.out = bufio.NewWriter(stdout)
	return i
}

// Evaluate runs expr to completion. A call to exit surfaces as an error
// recognised by ExitCodeFromError. ctx is polled at loop back-edges and
// calls.
func (i *Interpreter) Evaluate(ctx context.Context, expr ast.Expr) (result runtime.Value, err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	i.ctx = ctx
	defer func() {
		if flushErr := i.out.Flush(); err == nil && flushErr != nil {
			err = flushErr
		}
	}()

	global, err := i.globalEnvironment()
	if err != nil {
		return nil, err
	}
	global.BeginScope()
	if expr == nil {
		return runtime.VoidValue{}, nil
	}
	result, err = i.evaluate(expr, global)
	var brk breakSignal
	if errors.As(err, &brk) {
		return nil, internalErrorf("break escaped every loop")
	}
	return result, err
}

func (i *Interpreter) globalEnvironment() (*Environment, error) {
	global := env.New[runtime.Value]()
	natives := i.natives()
	for _, fn := range i.lib.Functions() {
		native, ok := natives[fn.Name.String()]
		if !ok {
			return nil, internalErrorf("no implementation for library function %s", fn.Name)
		}
		if native.Arity != len(fn.Params) {
			return nil, internalErrorf("library function %s takes %d arguments, implementation takes %d", fn.Name, len(fn.Params), native.Arity)
		}
		global.Extend(fn.Name, native)
	}
	return global, nil
}

func (i *Interpreter) checkContext() error {
	if i.ctx == nil {
		return nil
	}
	return i.ctx.Err()
}
