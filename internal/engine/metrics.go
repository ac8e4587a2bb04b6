package engine

import (
	"time"

	metrics "github.com/hashicorp/go-metrics"
)

// Metric keys emitted by Run. Values go to the global go-metrics sink, which
// is a blackhole unless the caller installs one.
var (
	MetricRunCount        = []string{"hvm", "run", "count"}
	MetricRunFailed       = []string{"hvm", "run", "failed"}
	MetricRunDuration     = []string{"hvm", "run", "duration"}
	MetricInteractions    = []string{"hvm", "interactions"}
	MetricRedexesShared   = []string{"hvm", "redex", "shared"}
	MetricNodesUsed       = []string{"hvm", "net", "nodes", "used"}
	MetricVarsUsed        = []string{"hvm", "net", "vars", "used"}
	MetricWorkers         = []string{"hvm", "workers"}
	MetricInteractionRate = []string{"hvm", "mips"}
)

func emitRunMetrics(res *Result, workers int, shared uint64, start time.Time) {
	metrics.IncrCounter(MetricRunCount, 1)
	metrics.MeasureSince(MetricRunDuration, start)
	metrics.IncrCounter(MetricInteractions, float32(res.Interactions))
	metrics.IncrCounter(MetricRedexesShared, float32(shared))
	metrics.SetGauge(MetricNodesUsed, float32(res.Net.NodesUsed()))
	metrics.SetGauge(MetricVarsUsed, float32(res.Net.VarsUsed()))
	metrics.SetGauge(MetricWorkers, float32(workers))
	metrics.SetGauge(MetricInteractionRate, float32(res.MIPS()))
}

func emitRunFailure(code RuntimeErrorCode) {
	metrics.IncrCounterWithLabels(MetricRunFailed, 1, []metrics.Label{{Name: "code", Value: string(code)}})
}
