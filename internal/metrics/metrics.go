// Package metrics exposes Prometheus instrumentation for the price tier service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's collectors.
type Metrics struct {
	Predictions        *prometheus.CounterVec // Predictions by tier label
	PredictionFailures prometheus.Counter     // Classifier errors
	PredictionLatency  prometheus.Histogram   // Classifier latency in seconds
	CacheHits          prometheus.Counter     // Results served from the LRU cache
	CategoryFallbacks  prometheus.Counter     // Forms built without a category vocabulary
	BatchRows          prometheus.Counter     // Rows received through batch uploads

	ArtifactLoadDuration prometheus.Gauge // Seconds spent loading the artifact
	ArtifactFeatures     prometheus.Gauge // Number of ui_features in the artifact
}

// New registers the metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics with a custom registry, used by tests.
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "price_tier_predictions_total",
			Help: "Total number of price tier predictions by label",
		}, []string{"label"}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tier_prediction_failures_total",
			Help: "Total number of failed classifier invocations",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "price_tier_prediction_latency_seconds",
			Help:    "Classifier latency in seconds",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		}),
		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tier_cache_hits_total",
			Help: "Total number of predictions served from cache",
		}),
		CategoryFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tier_category_fallbacks_total",
			Help: "Total number of forms built with free-text categorical fields",
		}),
		BatchRows: factory.NewCounter(prometheus.CounterOpts{
			Name: "price_tier_batch_rows_total",
			Help: "Total number of rows received through batch uploads",
		}),
		ArtifactLoadDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "price_tier_artifact_load_seconds",
			Help: "Time spent loading the model artifact",
		}),
		ArtifactFeatures: factory.NewGauge(prometheus.GaugeOpts{
			Name: "price_tier_artifact_features",
			Help: "Number of features the loaded model expects",
		}),
	}
}
