package cli

import (
	"fmt"
	"io"
	"sort"
	"time"

	metrics "github.com/hashicorp/go-metrics"
)

// metricsSink collects engine metrics in memory for a single command.
type metricsSink struct {
	sink *metrics.InmemSink
}

func installMetrics() (*metricsSink, error) {
	sink := metrics.NewInmemSink(time.Minute, time.Minute)
	cfg := metrics.DefaultConfig("")
	cfg.EnableHostname = false
	cfg.EnableRuntimeMetrics = false
	cfg.EnableServiceLabel = false
	if _, err := metrics.NewGlobal(cfg, sink); err != nil {
		return nil, err
	}
	return &metricsSink{sink: sink}, nil
}

// dump writes every gauge, counter and sample, sorted by key.
func (m *metricsSink) dump(w io.Writer) {
	var lines []string
	for _, interval := range m.sink.Data() {
		interval.RLock()
		for k, g := range interval.Gauges {
			lines = append(lines, fmt.Sprintf("gauge   %s = %g", k, g.Value))
		}
		for k, c := range interval.Counters {
			lines = append(lines, fmt.Sprintf("counter %s = %g (n=%d)", k, c.Sum, c.Count))
		}
		for k, s := range interval.Samples {
			lines = append(lines, fmt.Sprintf("sample  %s = mean %.3fms (n=%d)", k, s.AggregateSample.Mean(), s.Count))
		}
		interval.RUnlock()
	}
	sort.Strings(lines)

	fmt.Fprintln(w, "Metrics:")
	for _, l := range lines {
		fmt.Fprintln(w, "- "+l)
	}
}
