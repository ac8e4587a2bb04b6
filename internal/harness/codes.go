package harness

import (
	"errors"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/engine"
)

// Error codes for failures outside the engine. Engine failures use the
// RuntimeError code unchanged.
const (
	CodeSyntaxError    = "SYNTAX_ERROR"
	CodeBuildError     = "BUILD_ERROR"
	CodeReadbackFailed = "READBACK_FAILED"
	CodeUnknown        = "UNKNOWN"
)

var knownCodes = map[string]bool{
	CodeSyntaxError:                         true,
	CodeBuildError:                          true,
	CodeReadbackFailed:                      true,
	string(engine.ErrCodeCapacityExhausted): true,
	string(engine.ErrCodeIllegalActivePair): true,
	string(engine.ErrCodeMissingEntry):      true,
}

func knownCode(code string) bool {
	return knownCodes[code]
}

// ErrorCode classifies err into one of the codes a scenario can expect.
func ErrorCode(err error) string {
	var rt *engine.RuntimeError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &rt):
		return string(rt.Code)
	case compiler.IsSyntaxError(err):
		return CodeSyntaxError
	case compiler.IsBuildError(err):
		return CodeBuildError
	case compiler.IsReadbackError(err):
		return CodeReadbackFailed
	}
	return CodeUnknown
}
