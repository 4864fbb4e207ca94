package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServerMetricsPerRegistry(t *testing.T) {
	a := NewServerMetrics("api", prometheus.NewRegistry())
	b := NewServerMetrics("api", prometheus.NewRegistry())
	require.NotNil(t, a)
	require.NotNil(t, b)

	a.Requests.WithLabelValues("/healthz", "200").Inc()
	a.Purchases.WithLabelValues("success").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(a.Requests.WithLabelValues("/healthz", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Purchases.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.Requests.WithLabelValues("/healthz", "200")))
}
