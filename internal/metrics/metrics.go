package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	SchedulerTicks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "capq",
			Name:      "scheduler_ticks_total",
			Help:      "Count of completed scheduling passes.",
		},
	)

	Admissions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "capq",
			Name:      "admissions_total",
			Help:      "Count of downloads resumed by the scheduler.",
		},
	)

	IntakeHolds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "capq",
			Name:      "intake_holds_total",
			Help:      "Count of newly added downloads paused by the intake gate.",
		},
	)

	RPCErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "capq",
			Name:      "nzbget_rpc_errors_total",
			Help:      "Errors from NZBGet JSON-RPC calls.",
		},
		[]string{"method"},
	)

	RPCLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "capq",
			Name:      "nzbget_rpc_latency_seconds",
			Help:      "Latency of NZBGet JSON-RPC calls.",
		},
		[]string{"method"},
	)

	ReservedBytes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "capq",
			Name:      "reserved_bytes",
			Help:      "Capacity committed to non-paused downloads at the last tick.",
		},
	)

	HeldItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "capq",
			Name:      "held_items",
			Help:      "Number of paused downloads awaiting admission at the last tick.",
		},
	)
)

// Register registers the sidecar metrics into the default registry.
func Register() {
	prometheus.MustRegister(SchedulerTicks, Admissions, IntakeHolds, RPCErrors, RPCLatency, ReservedBytes, HeldItems)
}
