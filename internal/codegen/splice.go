package codegen

import (
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/saikumarakula/HVM/internal/ir"
)

const (
	// Marker is replaced by the generated reducers.
	Marker = "///COMPILED_INTERACT_CALL///"

	interpreted = "#define INTERPRETED"
	compiled    = "#define COMPILED"
)

//go:embed templates/hvm.c templates/hvm.cu
var templates embed.FS

// ErrTemplate is wrapped by every Splice failure.
var ErrTemplate = errors.New("invalid runtime template")

// DefaultTemplate returns the runtime template bundled for target.
func DefaultTemplate(target Target) (string, error) {
	data, err := templates.ReadFile("templates/" + target.TemplateName())
	if err != nil {
		return "", fmt.Errorf("read %s template: %w", target, err)
	}
	return string(data), nil
}

// Splice inserts generated code at the template's marker and switches the
// template from its interpreted reducer to the compiled one. The marker and
// the INTERPRETED define must each appear exactly once.
func Splice(template, generated string) (string, error) {
	if n := strings.Count(template, Marker); n != 1 {
		return "", fmt.Errorf("%w: found %d occurrences of %s, want 1", ErrTemplate, n, Marker)
	}
	if n := strings.Count(template, interpreted); n != 1 {
		return "", fmt.Errorf("%w: found %d occurrences of %q, want 1", ErrTemplate, n, interpreted)
	}
	out := strings.Replace(template, Marker, generated, 1)
	return strings.Replace(out, interpreted, compiled, 1), nil
}

// Generate compiles book for target and splices it into template. An empty
// template selects the bundled one.
func Generate(target Target, template string, book *ir.Book) (string, error) {
	if template == "" {
		t, err := DefaultTemplate(target)
		if err != nil {
			return "", err
		}
		template = t
	}
	return Splice(template, CompileBook(target, book))
}
