package ioc

import (
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type metricsRepo interface{ ID() int }

type metricsRepoImpl struct{}

func (*metricsRepoImpl) ID() int { return 1 }

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := New(WithMetrics(m))

	require.NoError(t, RegisterImplementation[metricsRepo, *metricsRepoImpl](c))
	require.NoError(t, RegisterSingleton(c, 7))

	_, err := Resolve[metricsRepo](c)
	require.NoError(t, err)
	_, err = Resolve[int](c)
	require.NoError(t, err)
	_, err = c.Resolve(reflect.TypeFor[error]())
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("implementation")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.registrations.WithLabelValues("singleton")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("implementation", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("synthesized", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("singleton", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.resolutions.WithLabelValues("none", "error")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var samples uint64
	for _, mf := range families {
		if mf.GetName() == "ioc_resolve_duration_seconds" {
			samples = mf.GetMetric()[0].GetHistogram().GetSampleCount()
		}
	}
	assert.Equal(t, uint64(3), samples, "only top-level resolutions are timed")
}

func TestMetrics_Nil(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.registered(ModeFactory)
		m.resolved("factory", nil)
	})
}
