// Package observability provides Prometheus metrics for monitoring the
// wordware-mcp adapter.
package observability

import "github.com/prometheus/client_golang/prometheus"

// RunBuckets defines histogram buckets suited for remote agent run latencies,
// ranging from 100ms to 300s. Research-style flows routinely run for minutes.
var RunBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300}

var (
	// ToolRegistrationsTotal counts tool registration attempts by outcome.
	ToolRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordware_tool_registrations_total",
			Help: "Tool registration attempts",
		},
		[]string{"status"},
	)

	// ToolInvocationsTotal counts tool invocations by tool name and outcome.
	ToolInvocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordware_tool_invocations_total",
			Help: "Tool invocations",
		},
		[]string{"tool", "status"},
	)

	// ToolDuration records end-to-end tool invocation duration in seconds.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wordware_tool_duration_seconds",
			Help:    "Tool invocation duration",
			Buckets: RunBuckets,
		},
		[]string{"tool"},
	)

	// StreamEventsTotal counts decoded stream events by kind.
	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wordware_stream_events_total",
			Help: "Decoded run stream events",
		},
		[]string{"kind"},
	)

	// ActiveStreams tracks the number of run streams currently open.
	ActiveStreams = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "wordware_active_streams",
			Help: "Active run streams",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ToolRegistrationsTotal,
		ToolInvocationsTotal,
		ToolDuration,
		StreamEventsTotal,
		ActiveStreams,
	)
}
