package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hopsage/TigerC/pkg/ast"
	"github.com/hopsage/TigerC/pkg/driver"
	"github.com/hopsage/TigerC/pkg/interpreter"
	"github.com/hopsage/TigerC/pkg/runtime"
)

const noCodeGenerated = "Error - no code was generated."

func (c *cli) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tiger "+name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

// sourceArg returns the single program path a subcommand accepts; "-" and a
// missing argument both mean standard input.
func (c *cli) sourceArg(fs *flag.FlagSet) (string, bool) {
	switch fs.NArg() {
	case 0:
		return driver.StdinName, true
	case 1:
		return fs.Arg(0), true
	default:
		c.errorf("%s takes one source file, got %d", fs.Name(), fs.NArg())
		return "", false
	}
}

func (c *cli) pipeline() *driver.Pipeline {
	pipe := driver.NewPipeline()
	pipe.Stdin = c.stdin
	pipe.Stdout = c.stdout
	return pipe
}

func (c *cli) load(pipe *driver.Pipeline, path string) (*driver.Program, bool) {
	prog, err := pipe.Load(path)
	if err != nil {
		fmt.Fprintln(c.stderr, driver.DescribeParseError(err))
		return nil, false
	}
	return prog, true
}

func (c *cli) printDiagnostics(prog *driver.Program) {
	for _, line := range driver.DescribeDiagnostics(prog) {
		fmt.Fprintln(c.stderr, line)
	}
}

func (c *cli) runProgram(args []string) int {
	fs := c.flags("run")
	showResult := fs.Bool("result", false, "print RESULT = value when the program finishes")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	path, ok := c.sourceArg(fs)
	if !ok {
		return exitUsage
	}
	pipe := c.pipeline()
	prog, ok := c.load(pipe, path)
	if !ok {
		return exitFailure
	}
	return c.interpret(pipe, prog, *showResult)
}

func (c *cli) interpret(pipe *driver.Pipeline, prog *driver.Program, showResult bool) int {
	value, err := pipe.Interpret(c.ctx, prog)
	if code, ok := interpreter.ExitCodeFromError(err); ok {
		return code
	}
	switch {
	case errors.Is(err, driver.ErrHasDiagnostics):
		c.printDiagnostics(prog)
		return exitFailure
	case err != nil:
		fmt.Fprintln(c.stderr, driver.DescribeRuntimeError(prog.Path, err))
		return exitFailure
	}
	if showResult {
		fmt.Fprintf(c.stdout, "RESULT = %s\n", runtime.Format(value))
	}
	return exitOK
}

func (c *cli) runCheck(args []string) int {
	fs := c.flags("check")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	path, ok := c.sourceArg(fs)
	if !ok {
		return exitUsage
	}
	pipe := c.pipeline()
	prog, ok := c.load(pipe, path)
	if !ok {
		return exitFailure
	}
	err := pipe.Check(prog)
	c.printDiagnostics(prog)
	if err != nil {
		return exitFailure
	}
	return exitOK
}

func (c *cli) runCompile(args []string) int {
	fs := c.flags("compile")
	outputDir := fs.String("o", ".", "directory the .j file is written to")
	class := fs.String("class", "", "class name (defaults to the source file name)")
	maxStack := fs.Int("max-stack", 0, "minimum .limit stack for every method")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	path, ok := c.sourceArg(fs)
	if !ok {
		return exitUsage
	}
	pipe := c.pipeline()
	pipe.MaxStack = *maxStack
	prog, ok := c.load(pipe, path)
	if !ok {
		fmt.Fprintln(c.stderr, noCodeGenerated)
		return exitFailure
	}
	return c.compile(pipe, prog, *class, *outputDir)
}

func (c *cli) compile(pipe *driver.Pipeline, prog *driver.Program, class, outputDir string) int {
	result, err := pipe.Compile(prog, class)
	if errors.Is(err, driver.ErrHasDiagnostics) {
		c.printDiagnostics(prog)
		fmt.Fprintln(c.stderr, noCodeGenerated)
		return exitFailure
	}
	if err != nil {
		c.errorf("%v", err)
		fmt.Fprintln(c.stderr, noCodeGenerated)
		return exitFailure
	}
	for _, warning := range result.Warnings {
		fmt.Fprintln(c.stderr, warning)
	}
	if err := result.Write(outputDir); err != nil {
		c.errorf("%v", err)
		return exitFailure
	}
	return exitOK
}

func (c *cli) runParse(args []string) int {
	fs := c.flags("parse")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	path, ok := c.sourceArg(fs)
	if !ok {
		return exitUsage
	}
	prog, ok := c.load(c.pipeline(), path)
	if !ok {
		return exitFailure
	}
	if err := ast.Print(c.stdout, prog.AST); err != nil {
		c.errorf("%v", err)
		return exitFailure
	}
	return exitOK
}

func (c *cli) runBuild(args []string) int {
	fs := c.flags("build")
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() > 0 {
		c.errorf("build does not take arguments")
		return exitUsage
	}
	cwd, err := os.Getwd()
	if err != nil {
		c.errorf("%v", err)
		return exitFailure
	}
	manifestPath, err := driver.FindManifest(cwd)
	if err != nil {
		c.errorf("%v", err)
		return exitFailure
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		c.errorf("%v", err)
		return exitFailure
	}

	pipe := c.pipeline()
	pipe.MaxStack = manifest.MaxStack
	entry := manifest.EntryPath()
	if rel, err := filepath.Rel(cwd, entry); err == nil {
		entry = rel
	}
	prog, ok := c.load(pipe, entry)
	if !ok {
		return exitFailure
	}
	switch manifest.Backend {
	case driver.BackendJVM:
		return c.compile(pipe, prog, manifest.ClassName(), manifest.OutputDir())
	default:
		return c.interpret(pipe, prog, false)
	}
}
