package spatialindex

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestIndexMetrics(t *testing.T) {
	name := "metrics-test"
	labels := prometheus.Labels{indexLabel: name}
	idx := New(testBounds, WithName(name), WithCapacity(1))

	a := newTestVehicle(40.5, 28.5)
	b := newTestVehicle(41.5, 29.5)
	require.NoError(t, idx.Insert(a))
	require.NoError(t, idx.Insert(b))
	require.NoError(t, idx.Insert(newTestVehicle(50, 50)))

	require.Equal(t, 2.0, testutil.ToFloat64(indexInsertsTotal.With(labels)))
	require.Equal(t, 2.0, testutil.ToFloat64(indexEntities.With(labels)))
	require.Equal(t, 1.0, testutil.ToFloat64(indexSplitsTotal.With(prometheus.Labels{indexLabel: name, depthLabel: "0"})))

	removed, err := idx.Remove(a)
	require.NoError(t, err)
	require.True(t, removed)
	removed, err = idx.Remove(a)
	require.NoError(t, err)
	require.False(t, removed)
	require.Equal(t, 1.0, testutil.ToFloat64(indexRemovesTotal.With(labels)))
	require.Equal(t, 1.0, testutil.ToFloat64(indexEntities.With(labels)))

	idx.Query(b.Position(), 100)
	idx.Query(b.Position(), 100)
	require.Equal(t, 1, testutil.CollectAndCount(indexQueryResults.With(labels).(prometheus.Histogram)))

	idx.Clear()
	require.Equal(t, 0.0, testutil.ToFloat64(indexEntities.With(labels)))
}

func TestClearKeepsSharedGauge(t *testing.T) {
	labels := prometheus.Labels{indexLabel: "shared-metrics-test"}
	a := New(testBounds, WithName("shared-metrics-test"))
	b := New(testBounds, WithName("shared-metrics-test"))

	for i := 0; i < 3; i++ {
		require.NoError(t, a.Insert(newTestVehicle(40.5+0.1*float64(i), 28.5)))
	}
	require.NoError(t, b.Insert(newTestVehicle(41.5, 29.5)))
	require.Equal(t, 4.0, testutil.ToFloat64(indexEntities.With(labels)))

	a.Clear()
	require.Equal(t, 1.0, testutil.ToFloat64(indexEntities.With(labels)))
	a.Clear()
	require.Equal(t, 1.0, testutil.ToFloat64(indexEntities.With(labels)))

	b.Clear()
	require.Equal(t, 0.0, testutil.ToFloat64(indexEntities.With(labels)))
}
