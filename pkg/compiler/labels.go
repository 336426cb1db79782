package compiler

import (
	"fmt"
	"strings"
)

// labeler numbers labels for one compile run. Every generator gets its own
// serial; every label gets a run-wide sequence number.
type labeler struct {
	generators int
	labels     int
}

func (l *labeler) nextGenerator() int {
	serial := l.generators
	l.generators++
	return serial
}

// label renders TEXT$serial_n.
func (l *labeler) label(serial int, text string) string {
	n := l.labels
	l.labels++
	return fmt.Sprintf("%s$%d_%d", strings.ToUpper(text), serial, n)
}

// method renders the unique method name for a user function; the case of
// name is kept.
func (l *labeler) method(serial int, name string) string {
	n := l.labels
	l.labels++
	return fmt.Sprintf("%s$%d_%d", name, serial, n)
}
