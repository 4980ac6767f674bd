package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// InstructionMetrics records marketplace instruction activity processed by the
// node.
type InstructionMetrics struct {
	processed *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

var (
	instructionMetricsOnce sync.Once
	instructionRegistry    *InstructionMetrics
)

// Metrics returns the lazily-initialised instruction metrics registry.
func Metrics() *InstructionMetrics {
	instructionMetricsOnce.Do(func() {
		instructionRegistry = &InstructionMetrics{
			processed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "accesschain",
				Subsystem: "marketplace",
				Name:      "instructions_total",
				Help:      "Total marketplace instructions segmented by instruction and outcome.",
			}, []string{"instruction", "outcome"}),
			latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "accesschain",
				Subsystem: "marketplace",
				Name:      "instruction_duration_seconds",
				Help:      "Latency distribution for marketplace instruction execution.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"instruction"}),
		}
		prometheus.MustRegister(instructionRegistry.processed, instructionRegistry.latency)
	})
	return instructionRegistry
}

// Observe records one executed instruction with its outcome and duration.
func (m *InstructionMetrics) Observe(instruction string, err error, started time.Time) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.processed.WithLabelValues(instruction, outcome).Inc()
	m.latency.WithLabelValues(instruction).Observe(time.Since(started).Seconds())
}
