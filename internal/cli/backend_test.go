package cli

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/ir"
)

// fakeRunner writes a shell script that copies its book argument to out and
// prints a result line, then exits with code.
func fakeRunner(t *testing.T, out string, code int) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("runner script needs a POSIX shell")
	}
	script := "#!/bin/sh\ncp \"$1\" \"" + out + "\"\necho \"Result: from runner\"\nexit " + strconv.Itoa(code) + "\n"
	path := filepath.Join(t.TempDir(), "runner.sh")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRunNativePassesBookToRunner(t *testing.T) {
	src := "@id = (x x)\n@main = a & @id ~ (7 a)"
	prog := writeFile(t, "main.hvm", src)
	copied := filepath.Join(t.TempDir(), "book.bin")
	runner := fakeRunner(t, copied, 0)

	stdout, _, err := execute(t, "run-native", "--runner", runner, prog)
	require.NoError(t, err)
	assert.Equal(t, "Result: from runner\n", stdout)

	data, err := os.ReadFile(copied)
	require.NoError(t, err)
	book, err := compiler.Compile(src)
	require.NoError(t, err)
	want, err := book.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, want, data)

	decoded, err := ir.UnmarshalBook(data)
	require.NoError(t, err)
	assert.Len(t, decoded.Defs, 2)
}

func TestRunAcceleratedUsesConfiguredRunner(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")
	runner := fakeRunner(t, filepath.Join(t.TempDir(), "book.bin"), 0)
	cfg := writeFile(t, "hvm.yaml", "accelerated:\n  runner: "+runner+"\n")

	stdout, _, err := execute(t, "--config", cfg, "run-accelerated", prog)
	require.NoError(t, err)
	assert.Equal(t, "Result: from runner\n", stdout)
}

func TestRunBackendRunnerFailure(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")
	runner := fakeRunner(t, filepath.Join(t.TempDir(), "book.bin"), 3)

	_, _, err := execute(t, "run-native", "--runner", runner, prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "native runner failed")
}

func TestRunBackendWithoutRunner(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")

	_, _, err := execute(t, "run-native", prog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no native runner configured")
}

func TestRunBackendMissingExecutable(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")

	_, _, err := execute(t, "run-accelerated", "--runner", filepath.Join(t.TempDir(), "absent"), prog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGenerateNativeSource(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@id = (x x)\n@main = a & @id ~ (7 a)")

	stdout, _, err := execute(t, "generate-native-source", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "#define COMPILED")
	assert.NotContains(t, stdout, "#define INTERPRETED")
	assert.Contains(t, stdout, "bool interact_call_id(Net *net, TM *tm, Port a, Port b) {")
	assert.Contains(t, stdout, "int main(int argc, char **argv)")
}

func TestGenerateAcceleratedSource(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")

	stdout, _, err := execute(t, "generate-accelerated-source", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "__device__ bool interact_call_main(")
	assert.Contains(t, stdout, "__global__ void evaluate(")
}

func TestGenerateCustomTemplateToFile(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")
	tmpl := writeFile(t, "rt.c", "#define INTERPRETED\n// head\n///COMPILED_INTERACT_CALL///\n// tail\n")
	out := filepath.Join(t.TempDir(), "out.c")

	stdout, _, err := execute(t, "generate-native-source", "--template", tmpl, "-o", out, prog)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	src := string(data)
	assert.True(t, strings.HasPrefix(src, "#define COMPILED\n// head\nconst u8 COMPILED_RULE_TABLE"))
	assert.True(t, strings.HasSuffix(src, "}\n\n// tail\n"))
}

func TestGenerateRejectsBadTemplate(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")
	tmpl := writeFile(t, "rt.c", "int main(void) { return 0; }\n")

	_, _, err := execute(t, "generate-native-source", "--template", tmpl, prog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid runtime template")
}
