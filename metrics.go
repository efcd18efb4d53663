package lingolens

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for annotation placement. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	placements      *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	live            prometheus.Gauge
	resolveDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewMetrics creates collectors under namespace on a private registry.
func NewMetrics(namespace string) *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "placements_total",
				Help:      "Total number of placement attempts by raycast outcome",
			},
			[]string{"outcome"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rejections_total",
				Help:      "Total number of rejected store operations by reason",
			},
			[]string{"reason"},
		),
		live: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "annotations_live",
				Help:      "Current number of annotations in the scene",
			},
		),
		resolveDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "resolve_duration_seconds",
				Help:      "Time spent resolving a placement point",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
			},
		),
	}
	registry.MustRegister(m.placements, m.rejections, m.live, m.resolveDuration)
	return m
}

// Registry returns the registry the collectors are registered on, for
// exposition or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) recordPlacement(kind OutcomeKind, seconds float64) {
	if m == nil {
		return
	}
	m.placements.WithLabelValues(kind.String()).Inc()
	m.resolveDuration.Observe(seconds)
}

func (m *Metrics) recordRejection(err error) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(rejectionReason(err)).Inc()
}

func (m *Metrics) setLive(n int) {
	if m == nil {
		return
	}
	m.live.Set(float64(n))
}

func rejectionReason(err error) string {
	switch err {
	case ErrInvalidLabel:
		return "invalid_label"
	case ErrPlacementInProgress:
		return "in_progress"
	case ErrInvalidIndex:
		return "invalid_index"
	case ErrInvalidScale:
		return "invalid_scale"
	case ErrPlacementFailed:
		return "placement_failed"
	default:
		return "other"
	}
}
