package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts comparisons by result and records how long they take. A
// nil *Metrics records nothing.
type Metrics struct {
	Comparisons *prometheus.CounterVec
	Exhausted   prometheus.Counter
	Fragments   prometheus.Histogram
	Duration    prometheus.Histogram
}

// NewMetrics registers the batch metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Comparisons: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "foldmatch",
			Name:      "comparisons_total",
			Help:      "Finished comparisons by result.",
		}, []string{"result"}),
		Exhausted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "foldmatch",
			Name:      "comparisons_exhausted_total",
			Help:      "Comparisons that ran out of time.",
		}),
		Fragments: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foldmatch",
			Name:      "matched_fragments",
			Help:      "Fragments in accepted matches.",
			Buckets:   prometheus.LinearBuckets(2, 2, 10),
		}),
		Duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "foldmatch",
			Name:      "comparison_duration_seconds",
			Help:      "Wall time of one comparison, loading included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
	}
}

func (m *Metrics) observe(r Result) {
	if m == nil {
		return
	}
	m.Comparisons.WithLabelValues(r.Label()).Inc()
	if r.Outcome.Exhausted {
		m.Exhausted.Inc()
	}
	if r.Outcome.Accepted() {
		m.Fragments.Observe(float64(r.Outcome.Match.Len()))
	}
	m.Duration.Observe(r.Duration.Seconds())
}
