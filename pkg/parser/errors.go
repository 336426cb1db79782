package parser

import (
	"errors"
	"fmt"
)

// Location is a 1-based line and column in the source text.
type Location struct {
	Line   int
	Column int
}

// ParseError reports malformed source.
type ParseError struct {
	Name     string
	Message  string
	Location Location
	// incomplete marks errors raised at end of input.
	incomplete bool
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Name == "" {
		return fmt.Sprintf("%d:%d: %s", e.Location.Line, e.Location.Column, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Name, e.Location.Line, e.Location.Column, e.Message)
}

// IsIncomplete reports whether err was caused by the input ending early; an
// interactive caller can read more lines and try again.
func IsIncomplete(err error) bool {
	var perr *ParseError
	if errors.As(err, &perr) {
		return perr.incomplete
	}
	return false
}
