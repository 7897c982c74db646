package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	refreshPassTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "balance_refresher",
		Name:      "pass_total",
		Help:      "Count of refresh passes over the observed addresses.",
	}, []string{"status"})
	refreshPassDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "balance_refresher",
		Name:      "pass_duration_seconds",
		Help:      "Duration of a refresh pass.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
	refreshPageSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "balance_refresher",
		Name:      "page_size",
		Help:      "Number of addresses refreshed per page.",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1..2048
	})
	refreshChangedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "balance_refresher",
		Name:      "changed_total",
		Help:      "Count of balances that changed since the previous pass.",
	})
)

// Refresher tracks metrics for the balance refresher loop.
type Refresher struct{}

// NewRefresher constructs a Refresher collector.
func NewRefresher() *Refresher {
	return &Refresher{}
}

// ObservePass records a full pass outcome and duration.
func (m Refresher) ObservePass(err error, started time.Time) {
	s := status(err)
	refreshPassTotal.WithLabelValues(s).Inc()
	refreshPassDuration.WithLabelValues(s).Observe(time.Since(started).Seconds())
}

// ObservePage records the size of a refreshed page and how many balances changed in it.
func (m Refresher) ObservePage(size, changed int) {
	refreshPageSize.Observe(float64(size))
	refreshChangedTotal.Add(float64(changed))
}
