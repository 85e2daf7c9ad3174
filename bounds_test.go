package spatialindex

import (
	"math"
	"testing"

	geo "github.com/kellydunn/golang-geo"
	"github.com/stretchr/testify/require"
)

func TestNewBounds(t *testing.T) {
	b, err := NewBounds(40, 42, 28, 30)
	require.NoError(t, err)
	require.Equal(t, testBounds, b)

	_, err = NewBounds(42, 40, 28, 30)
	require.ErrorContains(t, err, "min latitude")

	_, err = NewBounds(40, 42, 30, 28)
	require.ErrorContains(t, err, "min longitude")

	_, err = NewBounds(math.NaN(), 42, 28, 30)
	require.ErrorContains(t, err, "finite")

	_, err = NewBounds(40, 42, 28, math.Inf(1))
	require.ErrorContains(t, err, "finite")

	// A degenerate rectangle is a valid single point.
	b, err = NewBounds(41, 41, 29, 29)
	require.NoError(t, err)
	require.True(t, b.Contains(geo.NewPoint(41, 29)))
}

func TestBoundsContains(t *testing.T) {
	for _, p := range []*geo.Point{
		geo.NewPoint(40, 28), geo.NewPoint(42, 30), geo.NewPoint(40, 30),
		geo.NewPoint(41, 29), geo.NewPoint(42, 28.5),
	} {
		require.True(t, testBounds.Contains(p), "%v,%v", p.Lat(), p.Lng())
	}
	for _, p := range []*geo.Point{
		geo.NewPoint(39.9999, 29), geo.NewPoint(42.0001, 29),
		geo.NewPoint(41, 27.9999), geo.NewPoint(41, 30.0001),
	} {
		require.False(t, testBounds.Contains(p), "%v,%v", p.Lat(), p.Lng())
	}
	require.False(t, testBounds.Contains(nil))
}

func TestBoundsQuadrant(t *testing.T) {
	require.Equal(t, NW, testBounds.quadrant(geo.NewPoint(41, 29)))
	require.Equal(t, SW, testBounds.quadrant(geo.NewPoint(41.5, 29)))
	require.Equal(t, NE, testBounds.quadrant(geo.NewPoint(41, 29.5)))
	require.Equal(t, SE, testBounds.quadrant(geo.NewPoint(41.5, 29.5)))
	require.Equal(t, NW, testBounds.quadrant(geo.NewPoint(40.5, 28.5)))
	require.Equal(t, NE, testBounds.quadrant(geo.NewPoint(40.5, 29.5)))
}

func TestBoundsSplit(t *testing.T) {
	quads := testBounds.split()
	require.Equal(t, Bounds{MinLat: 40, MaxLat: 41, MinLon: 28, MaxLon: 29}, quads[NW])
	require.Equal(t, Bounds{MinLat: 40, MaxLat: 41, MinLon: 29, MaxLon: 30}, quads[NE])
	require.Equal(t, Bounds{MinLat: 41, MaxLat: 42, MinLon: 28, MaxLon: 29}, quads[SW])
	require.Equal(t, Bounds{MinLat: 41, MaxLat: 42, MinLon: 29, MaxLon: 30}, quads[SE])

	// Every point is routed to a quadrant that contains it.
	for _, p := range []*geo.Point{
		geo.NewPoint(41, 29), geo.NewPoint(40, 28), geo.NewPoint(42, 30),
		geo.NewPoint(41, 28), geo.NewPoint(40, 29), geo.NewPoint(41.3, 29.7),
	} {
		require.True(t, quads[testBounds.quadrant(p)].Contains(p))
	}
}

func TestBoundsCenterClamp(t *testing.T) {
	c := testBounds.Center()
	require.Equal(t, 41.0, c.Lat())
	require.Equal(t, 29.0, c.Lng())

	p := testBounds.Clamp(geo.NewPoint(43, 27))
	require.Equal(t, 42.0, p.Lat())
	require.Equal(t, 28.0, p.Lng())

	p = testBounds.Clamp(geo.NewPoint(41.5, 31))
	require.Equal(t, 41.5, p.Lat())
	require.Equal(t, 30.0, p.Lng())

	p = testBounds.Clamp(geo.NewPoint(41.2, 28.7))
	require.Equal(t, 41.2, p.Lat())
	require.Equal(t, 28.7, p.Lng())
}
