package spatialindex

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

func TestDecodeConfigDefaults(t *testing.T) {
	c, err := DecodeConfig(map[string]interface{}{
		"name":    "istanbul",
		"min_lat": 40,
		"max_lat": 42,
		"min_lon": 28,
		"max_lon": 30,
	})
	require.NoError(t, err)
	require.Equal(t, Config{
		Name:     "istanbul",
		MinLat:   40,
		MaxLat:   42,
		MinLon:   28,
		MaxLon:   30,
		Capacity: DefaultCapacity,
		MaxDepth: DefaultMaxDepth,
		Metric:   MetricPlanar,
	}, c)

	b, err := c.Bounds()
	require.NoError(t, err)
	require.Equal(t, testBounds, b)
}

func TestDecodeConfigWeaklyTyped(t *testing.T) {
	c, err := DecodeConfig(map[string]interface{}{
		"min_lat":   "40",
		"max_lat":   42.0,
		"min_lon":   "28.5",
		"max_lon":   30,
		"capacity":  "4",
		"max_depth": 6.0,
		"metric":    MetricGreatCircle,
	})
	require.NoError(t, err)
	require.Equal(t, 28.5, c.MinLon)
	require.Equal(t, 4, c.Capacity)
	require.Equal(t, 6, c.MaxDepth)

	idx, err := NewFromConfig(c, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 4, idx.Capacity())
	require.Equal(t, 6, idx.MaxDepth())
	require.IsType(t, GreatCircleMetric{}, idx.Metric())
	require.Equal(t, "default", idx.name)
}

func TestDecodeConfigUnknownKey(t *testing.T) {
	_, err := DecodeConfig(map[string]interface{}{
		"min_lat":  40,
		"max_lat":  42,
		"min_lon":  28,
		"max_lon":  30,
		"capacty":  4,
		"metric":   MetricPlanar,
		"max_dept": 3,
	})
	require.ErrorContains(t, err, "decoding config")
	require.ErrorContains(t, err, "capacty")
}

func TestConfigValidate(t *testing.T) {
	c := Config{MinLat: 42, MaxLat: 40, MinLon: 28, MaxLon: 30, Capacity: 0, MaxDepth: -1, Metric: "manhattan"}
	err := c.Validate()
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 4)
	require.ErrorContains(t, err, "min latitude")
	require.ErrorContains(t, err, "capacity must be at least 1")
	require.ErrorContains(t, err, "max depth must not be negative")
	require.ErrorContains(t, err, `unknown metric "manhattan"`)

	_, err = NewFromConfig(c, nil)
	require.Error(t, err)

	_, err = DecodeConfig(map[string]interface{}{"min_lat": 40, "max_lat": 42, "min_lon": 28, "max_lon": 30, "capacity": 0})
	require.ErrorContains(t, err, "capacity")
}

func TestNewFromConfigPlanar(t *testing.T) {
	c := Config{Name: "planar", MinLat: 40, MaxLat: 42, MinLon: 28, MaxLon: 30, Capacity: 3, MaxDepth: 2}
	require.NoError(t, c.Validate())

	idx, err := NewFromConfig(c, nil)
	require.NoError(t, err)
	require.Equal(t, testBounds, idx.Bounds())
	require.IsType(t, PlanarMetric{}, idx.Metric())
	require.Equal(t, "planar", idx.name)
}
