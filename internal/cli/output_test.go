package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sugawarayuuta/sonnet"
)

func TestExitError(t *testing.T) {
	base := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to write", base)

	assert.Equal(t, "failed to write: disk full", err.Error())
	assert.ErrorIs(t, err, base)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("outer: %w", err)))

	assert.Equal(t, "plain", NewExitError(ExitFailure, "plain").Error())
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("other")))
}

func TestOutputFormatterText(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "text", Writer: buf, Verbose: true}

	require.NoError(t, f.Success("done"))
	require.NoError(t, f.Error("SYNTAX_ERROR", "bad input", "line 3"))
	f.VerboseLog("checked %d files", 2)

	assert.Equal(t, "done\nError [SYNTAX_ERROR]: bad input\nDetails: line 3\nchecked 2 files\n", buf.String())
}

func TestOutputFormatterJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf, ErrWriter: errBuf, Verbose: true}

	require.NoError(t, f.Success(map[string]int{"interactions": 3}))
	f.VerboseLog("diagnostic")

	var resp struct {
		Status string         `json:"status"`
		Data   map[string]int `json:"data"`
	}
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data["interactions"])
	assert.Equal(t, "diagnostic\n", errBuf.String())
}

func TestOutputFormatterJSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	f := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, f.Error("CAPACITY_EXHAUSTED", "node arena full", nil))

	var resp CLIResponse
	require.NoError(t, sonnet.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CAPACITY_EXHAUSTED", resp.Error.Code)
	assert.Nil(t, resp.Error.Details)
}
