package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus implements Recorder with registered collectors.
type Prometheus struct {
	entries       *prometheus.CounterVec
	batches       *prometheus.CounterVec
	rosterChanges *prometheus.CounterVec
	relays        *prometheus.CounterVec
	relayLatency  *prometheus.HistogramVec
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus registers the collectors with reg (prometheus.DefaultRegisterer
// if nil) under namespace ("swimtimes" if empty).
func NewPrometheus(reg prometheus.Registerer, namespace string) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "swimtimes"
	}

	p := &Prometheus{
		entries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "entries_total",
			Help:      "Batch entries by event and outcome (new, updated, unchanged, miss, invalid).",
		}, []string{"event", "outcome"}),
		batches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "batches_total",
			Help:      "Batches applied by event.",
		}, []string{"event"}),
		rosterChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reconcile",
			Name:      "roster_changes_total",
			Help:      "Table rows added or removed while reconciling the roster.",
		}, []string{"kind"}),
		relays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "solves_total",
			Help:      "Relay solves by kind and result.",
		}, []string{"kind", "result"}),
		relayLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "solve_seconds",
			Help:      "Relay solve latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs .. ~26s
		}, []string{"kind"}),
	}

	for _, c := range []prometheus.Collector{p.entries, p.batches, p.rosterChanges, p.relays, p.relayLatency} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Prometheus) RecordBatch(event string, created, updated, unchanged, misses, invalid int) {
	p.batches.WithLabelValues(event).Inc()
	p.entries.WithLabelValues(event, "new").Add(float64(created))
	p.entries.WithLabelValues(event, "updated").Add(float64(updated))
	p.entries.WithLabelValues(event, "unchanged").Add(float64(unchanged))
	p.entries.WithLabelValues(event, "miss").Add(float64(misses))
	p.entries.WithLabelValues(event, "invalid").Add(float64(invalid))
}

func (p *Prometheus) RecordRoster(added, removed int) {
	p.rosterChanges.WithLabelValues("added").Add(float64(added))
	p.rosterChanges.WithLabelValues("removed").Add(float64(removed))
}

func (p *Prometheus) RecordRelay(kind, result string, took time.Duration) {
	p.relays.WithLabelValues(kind, result).Inc()
	p.relayLatency.WithLabelValues(kind).Observe(took.Seconds())
}
