package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCountersAndGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(Admissions, IntakeHolds, RPCErrors, ReservedBytes)

	Admissions.Inc()
	IntakeHolds.Add(2)
	RPCErrors.WithLabelValues("listgroups").Inc()
	ReservedBytes.Set(8 << 30)

	expectedAdmissions := `# HELP capq_admissions_total Count of downloads resumed by the scheduler.
# TYPE capq_admissions_total counter
capq_admissions_total 1
`
	if err := testutil.CollectAndCompare(Admissions, strings.NewReader(expectedAdmissions)); err != nil {
		t.Fatalf("unexpected admissions metric: %v", err)
	}

	expectedErrors := `# HELP capq_nzbget_rpc_errors_total Errors from NZBGet JSON-RPC calls.
# TYPE capq_nzbget_rpc_errors_total counter
capq_nzbget_rpc_errors_total{method="listgroups"} 1
`
	if err := testutil.CollectAndCompare(RPCErrors, strings.NewReader(expectedErrors)); err != nil {
		t.Fatalf("unexpected rpc errors metric: %v", err)
	}

	expectedGauge := `# HELP capq_reserved_bytes Capacity committed to non-paused downloads at the last tick.
# TYPE capq_reserved_bytes gauge
capq_reserved_bytes 8.589934592e+09
`
	if err := testutil.CollectAndCompare(ReservedBytes, strings.NewReader(expectedGauge)); err != nil {
		t.Fatalf("unexpected reserved bytes gauge: %v", err)
	}
}

func TestRPCLatencyHistogram(t *testing.T) {
	// Use a fresh histogram to avoid cross-test contamination.
	RPCLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "capq",
			Name:      "nzbget_rpc_latency_seconds",
			Help:      "Latency of NZBGet JSON-RPC calls.",
		},
		[]string{"method"},
	)

	RPCLatency.WithLabelValues("editqueue").Observe(0.02)
	RPCLatency.WithLabelValues("editqueue").Observe(0.2)

	count := testutil.CollectAndCount(RPCLatency)
	if count != 1 {
		t.Fatalf("expected 1 metric family series, got %d", count)
	}
}
