package typechecker

import (
	"fmt"

	"github.com/hopsage/TigerC/pkg/ast"
)

// DiagnosticSeverity conveys the diagnostic level.
type DiagnosticSeverity string

const (
	SeverityError   DiagnosticSeverity = "error"
	SeverityWarning DiagnosticSeverity = "warning"
)

// Diagnostic represents one static error.
type Diagnostic struct {
	Severity DiagnosticSeverity
	Message  string
	Node     ast.Node
	Span     ast.Span
}

// DescribeDiagnostic renders d as `path:line:col: error: message`. The
// location is dropped when the node carries no span.
func DescribeDiagnostic(path string, d Diagnostic) string {
	severity := d.Severity
	if severity == "" {
		severity = SeverityError
	}
	if d.Span.IsZero() {
		if path == "" {
			return fmt.Sprintf("%s: %s", severity, d.Message)
		}
		return fmt.Sprintf("%s: %s: %s", path, severity, d.Message)
	}
	start := d.Span.Start
	if path == "" {
		return fmt.Sprintf("%d:%d: %s: %s", start.Line, start.Column, severity, d.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s: %s", path, start.Line, start.Column, severity, d.Message)
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity != SeverityWarning {
			return true
		}
	}
	return false
}

type sink struct {
	diags []Diagnostic
}

func (s *sink) errorf(node ast.Node, format string, args ...any) {
	var span ast.Span
	if node != nil {
		span = node.Span()
	}
	s.diags = append(s.diags, Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Node:     node,
		Span:     span,
	})
}
