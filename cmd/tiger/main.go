package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const cliToolVersion = "tiger 0.1.0-dev"

// Exit codes shared by every subcommand.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	ctx    context.Context
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := newCLI(ctx).run(os.Args[1:])
	stop()
	os.Exit(code)
}

func newCLI(ctx context.Context) *cli {
	return &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr, ctx: ctx}
}

func (c *cli) run(args []string) int {
	if len(args) == 0 {
		c.printUsage()
		return exitUsage
	}
	switch args[0] {
	case "--help", "-h", "help":
		c.printUsage()
		return exitOK
	case "--version", "-V", "version":
		fmt.Fprintln(c.stdout, cliToolVersion)
		return exitOK
	case "run":
		return c.runProgram(args[1:])
	case "check":
		return c.runCheck(args[1:])
	case "compile":
		return c.runCompile(args[1:])
	case "parse":
		return c.runParse(args[1:])
	case "test":
		return c.runTest(args[1:])
	case "repl":
		return c.runRepl(args[1:])
	case "build":
		return c.runBuild(args[1:])
	default:
		fmt.Fprintf(c.stderr, "tiger: unknown command %q\n", args[0])
		c.printUsage()
		return exitUsage
	}
}

func (c *cli) errorf(format string, args ...any) {
	fmt.Fprintf(c.stderr, "tiger: "+format+"\n", args...)
}
