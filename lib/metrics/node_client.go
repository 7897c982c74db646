package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	nodeRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_client",
		Name:      "operations_total",
		Help:      "Count of node RPC operations.",
	}, []string{"operation", "status"})
	nodeRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "node_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of node RPC operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "status"})
	nodeRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "node_client",
		Name:      "retries_total",
		Help:      "Count of repeated attempts after a transient node failure.",
	}, []string{"operation"})
)

// NodeClient tracks metrics for RPC calls to the ledger node.
type NodeClient struct{}

// NewNodeClient constructs a metrics collector for node calls.
func NewNodeClient() *NodeClient {
	return &NodeClient{}
}

// Observe records a single RPC call outcome and duration.
func (m NodeClient) Observe(operation string, err error, started time.Time) {
	s := status(err)
	nodeRequestsTotal.WithLabelValues(operation, s).Inc()
	nodeRequestDuration.WithLabelValues(operation, s).Observe(time.Since(started).Seconds())
}

// Retry records one repeated attempt of operation.
func (m NodeClient) Retry(operation string) {
	nodeRetriesTotal.WithLabelValues(operation).Inc()
}
