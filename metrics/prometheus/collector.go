package prometheus

import (
	"time"

	"github.com/hupe1980/apilevel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const subsystem = "apilevel"

// Collector implements apilevel.MetricsCollector with Prometheus metrics.
type Collector struct {
	loads         *prometheus.CounterVec
	loadDuration  *prometheus.HistogramVec
	regenerations *prometheus.CounterVec
	regenDuration prometheus.Histogram
	fallbacks     *prometheus.CounterVec
}

var _ apilevel.MetricsCollector = (*Collector)(nil)

// NewCollector registers the metrics with reg under namespace. A nil reg
// registers with prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Collector{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "loads_total",
			Help:      "Knowledge base load attempts by source and result.",
		}, []string{"source", "result"}),
		loadDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "load_duration_seconds",
			Help:      "Time spent validating and mapping a knowledge base.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"source"}),
		regenerations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "regenerations_total",
			Help:      "Knowledge base rebuilds from the descriptor by reason and result.",
		}, []string{"reason", "result"}),
		regenDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "regeneration_duration_seconds",
			Help:      "Time spent parsing the descriptor and writing a knowledge base.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10),
		}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "model_fallbacks_total",
			Help:      "Opens answered from the in-memory model by reason.",
		}, []string{"reason"}),
	}
}

// RecordLoad implements apilevel.MetricsCollector.
func (c *Collector) RecordLoad(source apilevel.Source, duration time.Duration, err error) {
	c.loads.WithLabelValues(string(source), result(err)).Inc()
	c.loadDuration.WithLabelValues(string(source)).Observe(duration.Seconds())
}

// RecordRegenerate implements apilevel.MetricsCollector.
func (c *Collector) RecordRegenerate(reason apilevel.Reason, duration time.Duration, err error) {
	c.regenerations.WithLabelValues(string(reason), result(err)).Inc()
	c.regenDuration.Observe(duration.Seconds())
}

// RecordFallback implements apilevel.MetricsCollector.
func (c *Collector) RecordFallback(reason apilevel.Reason) {
	c.fallbacks.WithLabelValues(string(reason)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
