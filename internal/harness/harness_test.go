package harness

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/engine"
	"github.com/saikumarakula/HVM/internal/testutil"
)

func TestScenarios(t *testing.T) {
	scenarios, err := LoadScenarios(filepath.Join("testdata", "scenarios"))
	require.NoError(t, err)

	for _, s := range scenarios {
		t.Run(s.Name, func(t *testing.T) {
			result, err := Run(s)
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
		})
	}
}

func TestScenariosGolden(t *testing.T) {
	for _, name := range []string{"annihilate", "sum", "missing_entry", "syntax_error"} {
		t.Run(name, func(t *testing.T) {
			s, err := LoadScenario(filepath.Join("testdata", "scenarios", name+".yaml"))
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, s))
		})
	}
}

func TestRunProgramsAcrossWorkers(t *testing.T) {
	for _, p := range testutil.Programs {
		t.Run(p.Name, func(t *testing.T) {
			itrs := p.Interactions
			result, err := Run(&Scenario{
				Name:    p.Name,
				Program: p.Source,
				Workers: []int{1, 2, 4},
				Expect:  Expect{Result: p.Result, Interactions: &itrs},
			})
			require.NoError(t, err)
			assert.True(t, result.Pass, "errors: %v", result.Errors)
			assert.Len(t, result.Attempts, 3)
		})
	}
}

func TestRunReportsWrongResult(t *testing.T) {
	result, err := Run(&Scenario{
		Name:    "wrong",
		Program: "@main = 3",
		Workers: []int{1},
		Expect:  Expect{Result: "4"},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"workers=1: expected result 4, got 3"}, result.Errors)
}

func TestRunReportsWrongInteractions(t *testing.T) {
	want := uint64(9)
	result, err := Run(&Scenario{
		Name:    "count",
		Program: "@main = a & (b b) ~ (7 a)",
		Workers: []int{1},
		Expect:  Expect{Result: "7", Interactions: &want},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"workers=1: expected 9 interactions, got 1"}, result.Errors)
}

func TestRunReportsUnexpectedError(t *testing.T) {
	result, err := Run(&Scenario{
		Name:    "fails",
		Program: "@id = (x x)",
		Workers: []int{1},
		Expect:  Expect{Result: "1"},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"workers=1: expected result 1, got error MISSING_ENTRY"}, result.Errors)
}

func TestRunReportsMissingError(t *testing.T) {
	result, err := Run(&Scenario{
		Name:    "succeeds",
		Program: "@main = 1",
		Workers: []int{1},
		Expect:  Expect{Error: CodeSyntaxError},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"workers=1: expected error SYNTAX_ERROR, got result 1"}, result.Errors)
}

func TestRunMissingProgramFile(t *testing.T) {
	_, err := Run(&Scenario{
		Name:    "missing",
		File:    filepath.Join(t.TempDir(), "absent.hvm"),
		Workers: []int{1},
		Expect:  Expect{Result: "1"},
	})
	require.Error(t, err)
}

func TestCheckConfluence(t *testing.T) {
	r := NewResult("split")
	r.Attempts = []Attempt{
		{Workers: 1, Result: "2", Interactions: 4},
		{Workers: 2, Error: "CAPACITY_EXHAUSTED"},
		{Workers: 4, Result: "2", Interactions: 5},
	}
	checkConfluence(r)
	assert.False(t, r.Pass)
	assert.Equal(t, []string{
		"workers=1 and workers=4 disagree: 2 (4 interactions) vs 2 (5 interactions)",
	}, r.Errors)
}

func TestErrorCode(t *testing.T) {
	_, syntaxErr := compiler.Parse("@main = (")
	_, buildErr := compiler.Compile("@main = x")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"capacity", engine.NewCapacityError("node", 4, 2, 4), "CAPACITY_EXHAUSTED"},
		{"missing entry", engine.NewMissingEntryError("main"), "MISSING_ENTRY"},
		{"syntax", syntaxErr, CodeSyntaxError},
		{"build", buildErr, CodeBuildError},
		{"readback", &compiler.ReadbackError{Reason: "dangling wire"}, CodeReadbackFailed},
		{"other", errors.New("boom"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}
