package compiler

import (
	"fmt"

	"github.com/hopsage/TigerC/pkg/ast"
)

// InternalError reports a program shape the type checker should have ruled
// out.
type InternalError struct {
	Message string
	Span    ast.Span
}

func (e *InternalError) Error() string {
	if e.Span.IsZero() {
		return "compiler: internal error: " + e.Message
	}
	return fmt.Sprintf("compiler: internal error at %s: %s", e.Span.Start, e.Message)
}

func internalErrorf(node ast.Node, format string, args ...any) *InternalError {
	err := &InternalError{Message: fmt.Sprintf(format, args...)}
	if node != nil {
		err.Span = node.Span()
	}
	return err
}
