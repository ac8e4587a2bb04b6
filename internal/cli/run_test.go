package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"

	"github.com/saikumarakula/HVM/internal/config"
	"github.com/saikumarakula/HVM/internal/store"
	"github.com/saikumarakula/HVM/internal/testutil"
)

func TestRunPrintsResult(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@id = (x x)\n@main = a & @id ~ (7 a)\n")

	stdout, _, err := execute(t, "run", "--workers", "1", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Result: 7\n- ITRS: 2\n- TIME: ")
	assert.Contains(t, stdout, "- MIPS: ")
}

func TestRunProgramsAcrossWorkers(t *testing.T) {
	for _, p := range testutil.Programs {
		for _, workers := range []string{"1", "4"} {
			t.Run(p.Name+"/"+workers, func(t *testing.T) {
				prog := writeFile(t, "main.hvm", p.Source)
				stdout, _, err := execute(t, "--format", "json", "run", "-w", workers, prog)
				require.NoError(t, err)

				var resp struct {
					Status string    `json:"status"`
					Data   RunReport `json:"data"`
				}
				require.NoError(t, sonnet.Unmarshal([]byte(stdout), &resp))
				assert.Equal(t, "ok", resp.Status)
				assert.Equal(t, p.Result, resp.Data.Result)
				assert.Equal(t, p.Interactions, resp.Data.Interactions)
				assert.Len(t, resp.Data.BookHash, 64)
			})
		}
	}
}

func TestRunSyntaxError(t *testing.T) {
	prog := writeFile(t, "bad.hvm", "@main = (a\n")

	_, _, err := execute(t, "run", prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "syntax error at 2:1")
	assert.Contains(t, err.Error(), "   1 | @main = (a")
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "absent.hvm"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "failed to read program")
}

func TestRunMissingEntryJSON(t *testing.T) {
	prog := writeFile(t, "lib.hvm", "@id = (x x)")

	stdout, _, err := execute(t, "--format", "json", "run", prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, sonnet.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "MISSING_ENTRY", resp.Error.Code)
}

func TestRunCapacityExhaustedJSON(t *testing.T) {
	prog := writeFile(t, "sum.hvm", testutil.SumSource(6))
	cfg := writeFile(t, "hvm.yaml", "node_capacity: 16\nvars_capacity: 16\n")

	stdout, _, err := execute(t, "--config", cfg, "--format", "json", "run", prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, sonnet.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CAPACITY_EXHAUSTED", resp.Error.Code)
	assert.NotNil(t, resp.Error.Details)
}

// A duplicator whose second output loops back into its own principal port
// has no finite tree form.
const unreadableSource = "@main = r & {r a} ~ a\n"

func TestRunReadbackFailurePrintsMemdump(t *testing.T) {
	prog := writeFile(t, "loop.hvm", unreadableSource)

	stdout, _, err := execute(t, "run", "-w", "1", prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "readback failed")

	header := strings.Index(stdout, "Readback failed. Printing GNet memdump...\n")
	nodes := strings.Index(stdout, "NODES:\n- ")
	vars := strings.Index(stdout, "VARS:\n")
	itrs := strings.Index(stdout, "- ITRS: ")
	require.Equal(t, 0, header, stdout)
	assert.Less(t, header, nodes)
	assert.Less(t, nodes, vars)
	assert.Less(t, vars, itrs)
	assert.Contains(t, stdout, "- TIME: ")
	assert.Contains(t, stdout, "- MIPS: ")
	assert.NotContains(t, stdout, "Result:")
}

func TestRunReadbackFailureJSON(t *testing.T) {
	prog := writeFile(t, "loop.hvm", unreadableSource)

	stdout, _, err := execute(t, "--format", "json", "run", "-w", "1", prog)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, sonnet.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "READBACK_FAILED", resp.Error.Code)
	assert.NotContains(t, stdout, "memdump")
}

func TestRunInvalidWorkers(t *testing.T) {
	prog := writeFile(t, "main.hvm", "@main = 1")

	_, _, err := execute(t, "run", "--workers", "-2", prog)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestRunRecordAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	prog := writeFile(t, "sum.hvm", testutil.SumSource(4))

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text", Config: config.Default()},
		Workers:     2,
		Record:      db,
		IDGenerator: testutil.NewSequentialIDGenerator(""),
	}
	for i := 0; i < 2; i++ {
		cmd := &cobra.Command{}
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetContext(context.Background())
		require.NoError(t, runProgram(opts, prog, cmd))
	}

	st, err := store.Open(db)
	require.NoError(t, err)
	runs, err := st.ListRuns(context.Background(), store.ListFilter{})
	require.NoError(t, err)
	require.NoError(t, st.Close())

	require.Len(t, runs, 2)
	assert.Equal(t, "run-0002", runs[0].ID)
	assert.Equal(t, "run-0001", runs[1].ID)
	assert.Equal(t, "16", runs[0].Result)
	assert.Equal(t, testutil.SumInteractions(4), runs[0].Interactions)
	assert.Equal(t, "interpreted", runs[0].Mode)
	assert.Equal(t, 2, runs[0].Workers)

	stdout, _, err := execute(t, "history", "--db", db, "--program", prog)
	require.NoError(t, err)
	assert.Contains(t, stdout, "SEQ")
	assert.Contains(t, stdout, "run-0001")
	assert.Contains(t, stdout, "run-0002")

	other := writeFile(t, "other.hvm", "@main = 1")
	stdout, _, err = execute(t, "history", "--db", db, "--program", other)
	require.NoError(t, err)
	assert.Equal(t, "No runs recorded.\n", stdout)

	stdout, _, err = execute(t, "--format", "json", "history", "--db", db, "-n", "1")
	require.NoError(t, err)
	var resp struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, sonnet.Unmarshal([]byte(stdout), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "run-0002", resp.Data[0].ID)
}

func TestRunRecordFromConfig(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	cfg := writeFile(t, "hvm.yaml", "record_db: "+db+"\n")
	prog := writeFile(t, "main.hvm", "@main = 5")

	_, _, err := execute(t, "--config", cfg, "run", prog)
	require.NoError(t, err)

	stdout, _, err := execute(t, "--config", cfg, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "main.hvm")
}

func TestHistoryRequiresDatabase(t *testing.T) {
	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "no database given")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
}
