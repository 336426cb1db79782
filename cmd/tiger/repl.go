package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/hopsage/TigerC/pkg/driver"
	"github.com/hopsage/TigerC/pkg/interpreter"
	"github.com/hopsage/TigerC/pkg/parser"
	"github.com/hopsage/TigerC/pkg/runtime"
)

const (
	historyFile = ".tiger_history"
	promptMain  = "tiger> "
	promptCont  = "  ...> "
	replName    = "<repl>"
)

var banner = cliToolVersion + " REPL\nEnter a blank line to evaluate. Ctrl+D or :quit exits."

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func (c *cli) runRepl(args []string) int {
	if len(args) > 0 {
		c.errorf("repl does not take arguments (received %s)", strings.Join(args, " "))
		return exitUsage
	}
	fmt.Fprintln(c.stdout, banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		src, ok := readEntry(ln)
		if !ok {
			fmt.Fprintln(c.stdout)
			return exitOK
		}
		trimmed := strings.TrimSpace(src)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ":"):
			if trimmed == ":quit" || trimmed == ":q" {
				return exitOK
			}
			fmt.Fprintln(c.stdout, "unknown command. Type :quit to exit.")
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))
		if code, exited := c.evaluateEntry(src); exited {
			return code
		}
	}
}

// readEntry accumulates lines until a blank line, or until a ':' command is
// entered on its own.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			if b.Len() > 0 {
				return b.String(), true
			}
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}
		if b.Len() == 0 && strings.HasPrefix(strings.TrimSpace(line), ":") {
			return line, true
		}
		if strings.TrimSpace(line) == "" {
			if b.Len() == 0 {
				continue
			}
			return b.String(), true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
	}
}

// evaluateEntry runs one program. It reports exited when the program called
// exit, in which case the REPL stops with that code.
func (c *cli) evaluateEntry(src string) (int, bool) {
	pipe := c.pipeline()
	prog, err := pipe.LoadSource(replName, src)
	if err != nil {
		msg := driver.DescribeParseError(err)
		if parser.IsIncomplete(err) {
			msg += " (input ended early)"
		}
		fmt.Fprintln(c.stderr, red(msg))
		return 0, false
	}
	value, err := pipe.Interpret(c.ctx, prog)
	if code, ok := interpreter.ExitCodeFromError(err); ok {
		return code, true
	}
	switch {
	case errors.Is(err, driver.ErrHasDiagnostics):
		for _, line := range driver.DescribeDiagnostics(prog) {
			fmt.Fprintln(c.stderr, red(line))
		}
	case err != nil:
		fmt.Fprintln(c.stderr, red(driver.DescribeRuntimeError(prog.Path, err)))
	default:
		fmt.Fprintln(c.stdout)
		fmt.Fprintf(c.stdout, "RESULT = %s\n", blue(runtime.Format(value)))
	}
	return 0, false
}
