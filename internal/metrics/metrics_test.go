package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	require.NotNil(t, m)

	m.Predictions.WithLabelValues("Q3").Inc()
	m.Predictions.WithLabelValues("Q3").Inc()
	m.PredictionFailures.Inc()
	m.ArtifactFeatures.Set(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Predictions.WithLabelValues("Q3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PredictionFailures))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ArtifactFeatures))
}

func TestNewWithRegistry_IsolatedRegistries(t *testing.T) {
	// Registering twice on separate registries must not panic.
	assert.NotPanics(t, func() {
		NewWithRegistry(prometheus.NewRegistry())
		NewWithRegistry(prometheus.NewRegistry())
	})
}
