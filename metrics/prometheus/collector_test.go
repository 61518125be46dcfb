package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/apilevel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg, "test")

	c.RecordLoad(apilevel.SourceCache, time.Millisecond, nil)
	c.RecordLoad(apilevel.SourceCache, time.Millisecond, errors.New("boom"))
	c.RecordLoad(apilevel.SourceRemote, time.Millisecond, nil)
	c.RecordRegenerate(apilevel.ReasonStale, time.Second, nil)
	c.RecordFallback(apilevel.ReasonCorrupt)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("cache", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("cache", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.loads.WithLabelValues("remote", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.regenerations.WithLabelValues("stale", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.fallbacks.WithLabelValues("corrupt")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "test_apilevel_loads_total")
	assert.Contains(t, names, "test_apilevel_regeneration_duration_seconds")
}

func TestCollectorDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewCollector(reg, "dup")
	assert.Panics(t, func() { NewCollector(reg, "dup") })
}
