package harness

import (
	"log/slog"

	"github.com/saikumarakula/HVM/internal/compiler"
	"github.com/saikumarakula/HVM/internal/engine"
	"github.com/saikumarakula/HVM/internal/ir"
)

// Run executes a scenario and returns the result.
//
// The program is compiled once and then reduced from scratch for every
// worker count. Each run is read back and compared against the scenario's
// expectations and against the other runs. An error is returned only when
// the program source cannot be read; program failures are reported in the
// Result.
func Run(scenario *Scenario) (*Result, error) {
	src, err := scenario.Source()
	if err != nil {
		return nil, err
	}

	result := NewResult(scenario.Name)

	book, err := compiler.Compile(src)
	if err != nil {
		result.Attempts = append(result.Attempts, Attempt{Error: ErrorCode(err)})
		slog.Debug("scenario failed to compile", "scenario", scenario.Name, "error", err)
		checkExpectations(scenario, result)
		return result, nil
	}

	for _, workers := range scenario.Workers {
		result.Attempts = append(result.Attempts, attempt(scenario, book, workers))
	}

	checkExpectations(scenario, result)
	return result, nil
}

func attempt(scenario *Scenario, book *ir.Book, workers int) Attempt {
	opts := []engine.RunOption{engine.WithWorkers(workers)}
	if c := scenario.Capacity; c != nil {
		opts = append(opts, engine.WithCapacity(c.Nodes, c.Vars))
	}

	a := Attempt{Workers: workers}
	res, err := engine.Run(book, opts...)
	if err != nil {
		a.Error = ErrorCode(err)
		return a
	}
	a.Interactions = res.Interactions

	net, err := compiler.Readback(res.Net, book, res.Root)
	if err != nil {
		a.Error = ErrorCode(err)
		return a
	}
	a.Result = net.Show()

	slog.Debug("scenario attempt",
		"scenario", scenario.Name,
		"workers", workers,
		"interactions", a.Interactions,
		"elapsed", res.Elapsed,
	)
	return a
}
