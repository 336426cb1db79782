package interpreter

import (
	"fmt"

	"github.com/hopsage/TigerC/pkg/ast"
)

// RuntimeError is a fatal failure of a well-typed program, such as an array
// index out of bounds.
type RuntimeError struct {
	Message string
	Span    ast.Span
	Err     error
}

func (e *RuntimeError) Error() string {
	if e.Span.IsZero() {
		return "runtime error: " + e.Message
	}
	return fmt.Sprintf("runtime error at %s: %s", e.Span.Start, e.Message)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

func runtimeErrorf(node ast.Node, cause error, format string, args ...any) *RuntimeError {
	err := &RuntimeError{Message: fmt.Sprintf(format, args...), Err: cause}
	if node != nil {
		err.Span = node.Span()
	}
	return err
}

// InternalError reports a broken assumption, typically a program that never
// went through the type checker.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "interpreter: internal error: " + e.Message
}

func internalErrorf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}
