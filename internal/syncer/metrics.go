package syncer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "querysync"

// Metrics records sync outcomes. A nil *Metrics is valid and records nothing.
type Metrics struct {
	entriesTotal   *prometheus.CounterVec
	fetchDuration  prometheus.Histogram
	fetchedBytes   prometheus.Counter
	lastRunSuccess prometheus.Gauge
}

// NewMetrics registers the sync collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		entriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "entries_total",
			Help:      "Query source entries processed, by terminal state",
		}, []string{"state"}),

		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "fetch_duration_seconds",
			Help:      "Upstream fetch duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		fetchedBytes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "fetched_bytes_total",
			Help:      "Bytes of upstream query content fetched",
		}),

		lastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "last_run_success",
			Help:      "1 if the last run finished without errors, 0 otherwise",
		}),
	}
}

func (m *Metrics) observeEntry(res Result) {
	if m == nil {
		return
	}
	state := string(res.State)
	switch res.State {
	case StateWritten:
		state = "updated"
	case StateWouldChange:
		state = "drift"
	}
	m.entriesTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) observeFetch(d time.Duration, size int) {
	if m == nil {
		return
	}
	m.fetchDuration.Observe(d.Seconds())
	m.fetchedBytes.Add(float64(size))
}

// ObserveRun records the outcome of a whole run. Runs that fail before any
// entry is processed report through here as well.
func (m *Metrics) ObserveRun(err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.lastRunSuccess.Set(0)
		return
	}
	m.lastRunSuccess.Set(1)
}
