package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/saikumarakula/HVM/internal/ir"
)

// SyntaxError reports malformed source text. Line and Col are 1-based.
type SyntaxError struct {
	Line    int
	Col     int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %d:%d: %s", e.Line, e.Col, e.Message)
}

// WithSource renders the error with the offending line and a caret under the
// column, plus one line of context on each side.
func (e *SyntaxError) WithSource(src string) string {
	lines := strings.Split(src, "\n")
	line := min(max(e.Line, 1), len(lines))
	col := max(e.Col, 1)

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", e.Error())
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lines[line-1])
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", col-1))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// BuildError reports a program that parses but cannot be lowered to a Book.
type BuildError struct {
	// Definition is the definition being built.
	Definition string

	// Name is the offending variable or reference, if any.
	Name string

	Message string
}

func (e *BuildError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("build error in @%s: %s %q", e.Definition, e.Message, e.Name)
	}
	return fmt.Sprintf("build error in @%s: %s", e.Definition, e.Message)
}

// ReadbackError reports a reduced graph shape that has no surface form.
// It is recoverable: the caller can still dump the raw net.
type ReadbackError struct {
	Port   ir.Port
	Reason string
}

func (e *ReadbackError) Error() string {
	return fmt.Sprintf("readback failed at %s: %s", e.Port, e.Reason)
}

// IsSyntaxError returns true if err is or wraps a SyntaxError.
func IsSyntaxError(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se)
}

// IsBuildError returns true if err is or wraps a BuildError.
func IsBuildError(err error) bool {
	var be *BuildError
	return errors.As(err, &be)
}

// IsReadbackError returns true if err is or wraps a ReadbackError.
func IsReadbackError(err error) bool {
	var re *ReadbackError
	return errors.As(err, &re)
}
