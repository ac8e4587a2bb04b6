package cli

import (
	"errors"
	"os"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/engine"
	"github.com/saikumarakula/HVM/internal/harness"
	"github.com/saikumarakula/HVM/internal/ir"
)

// loadProgram reads and compiles a source file. Syntax errors carry a
// snippet of the offending line.
func loadProgram(path string) (*ir.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to read program", err)
	}
	src := string(data)

	book, err := compiler.Compile(src)
	if err != nil {
		var syntaxErr *compiler.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, WrapExitError(ExitFailure, path, &sourceError{err: syntaxErr, src: src})
		}
		return nil, WrapExitError(ExitFailure, path, err)
	}
	return book, nil
}

// sourceError prints a syntax error with its source snippet.
type sourceError struct {
	err *compiler.SyntaxError
	src string
}

func (e *sourceError) Error() string { return e.err.WithSource(e.src) }
func (e *sourceError) Unwrap() error { return e.err }

// errorCode names err for JSON output.
func errorCode(err error) string {
	if code := harness.ErrorCode(err); code != harness.CodeUnknown && code != "" {
		return code
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		return errorCode(exitErr.Err)
	}
	return "ERROR"
}

// runtimeDetails returns the structured context of a RuntimeError, if any.
func runtimeDetails(err error) any {
	var rt *engine.RuntimeError
	if errors.As(err, &rt) && len(rt.Details) > 0 {
		return rt.Details
	}
	return nil
}
