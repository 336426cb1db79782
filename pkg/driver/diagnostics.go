package driver

import (
	"errors"
	"fmt"

	"github.com/hopsage/TigerC/pkg/interpreter"
	"github.com/hopsage/TigerC/pkg/parser"
	"github.com/hopsage/TigerC/pkg/typechecker"
)

// FormatLocation renders a position as `path:line:col`, or `line L, column C`
// when the path is unknown.
func FormatLocation(path string, line, column int) string {
	if path == "" || path == StdinName {
		return fmt.Sprintf("line %d, column %d", line, column)
	}
	return fmt.Sprintf("%s:%d:%d", path, line, column)
}

// DescribeDiagnostic renders one checker diagnostic for display.
func DescribeDiagnostic(path string, d typechecker.Diagnostic) string {
	severity := d.Severity
	if severity == "" {
		severity = typechecker.SeverityError
	}
	if d.Span.IsZero() {
		return fmt.Sprintf("%s: %s", severity, d.Message)
	}
	loc := FormatLocation(path, d.Span.Start.Line, d.Span.Start.Column)
	return fmt.Sprintf("%s: %s: %s", loc, severity, d.Message)
}

// DescribeDiagnostics renders every diagnostic of prog.
func DescribeDiagnostics(prog *Program) []string {
	if prog == nil {
		return nil
	}
	out := make([]string, 0, len(prog.Diagnostics))
	for _, d := range prog.Diagnostics {
		out = append(out, DescribeDiagnostic(prog.Path, d))
	}
	return out
}

// DescribeParseError renders a parse failure for display. Errors that are
// not parse errors are returned unchanged.
func DescribeParseError(err error) string {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		return err.Error()
	}
	loc := FormatLocation(perr.Name, perr.Location.Line, perr.Location.Column)
	return fmt.Sprintf("%s: syntax error: %s", loc, perr.Message)
}

// DescribeRuntimeError renders an interpreter failure, prefixed with the
// source location when one is known.
func DescribeRuntimeError(path string, err error) string {
	var rerr *interpreter.RuntimeError
	if errors.As(err, &rerr) && !rerr.Span.IsZero() {
		start := rerr.Span.Start
		return fmt.Sprintf("%s: runtime error: %s", FormatLocation(path, start.Line, start.Column), rerr.Message)
	}
	return err.Error()
}
