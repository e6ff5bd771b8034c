package reconcile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts sync activity. A nil *Metrics records nothing.
type Metrics struct {
	writes  *prometheus.CounterVec
	retries prometheus.Counter
	pending prometheus.Gauge
}

// NewMetrics registers the sync metrics with reg. A nil reg creates
// unregistered collectors, which is what tests usually want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		writes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "roadmap_sync_writes_total",
			Help: "Document writes by result (ok, error).",
		}, []string{"result"}),
		retries: f.NewCounter(prometheus.CounterOpts{
			Name: "roadmap_sync_retries_total",
			Help: "Retries of store operations after a transient failure.",
		}),
		pending: f.NewGauge(prometheus.GaugeOpts{
			Name: "roadmap_sync_pending",
			Help: "1 while a local snapshot is waiting to be written.",
		}),
	}
}

func (m *Metrics) writeResult(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.writes.WithLabelValues(result).Inc()
}

func (m *Metrics) retried() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) setPending(pending bool) {
	if m == nil {
		return
	}
	if pending {
		m.pending.Set(1)
	} else {
		m.pending.Set(0)
	}
}
