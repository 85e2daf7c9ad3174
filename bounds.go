package spatialindex

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
	geo "github.com/kellydunn/golang-geo"
)

// Quadrant indices. Children of a split region are always stored in this
// order. The north half is the lower-latitude half.
const (
	NW = iota
	NE
	SW
	SE
)

// Bounds is a closed, axis-aligned rectangle in latitude/longitude space.
// Points on any edge are inside.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

// NewBounds validates and returns the rectangle [minLat,maxLat] x [minLon,maxLon].
func NewBounds(minLat, maxLat, minLon, maxLon float64) (Bounds, error) {
	for _, v := range []float64{minLat, maxLat, minLon, maxLon} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Bounds{}, textErr("bounds must be finite")
		}
	}
	if minLat > maxLat {
		return Bounds{}, fmtErr("min latitude %v exceeds max latitude %v", minLat, maxLat)
	}
	if minLon > maxLon {
		return Bounds{}, fmtErr("min longitude %v exceeds max longitude %v", minLon, maxLon)
	}
	return Bounds{MinLat: minLat, MaxLat: maxLat, MinLon: minLon, MaxLon: maxLon}, nil
}

// rect maps latitude onto X and longitude onto Y.
func (b Bounds) rect() r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: b.MinLat, Hi: b.MaxLat},
		Y: r1.Interval{Lo: b.MinLon, Hi: b.MaxLon},
	}
}

func toR2(p *geo.Point) r2.Point {
	return r2.Point{X: p.Lat(), Y: p.Lng()}
}

func fromR2(p r2.Point) *geo.Point {
	return geo.NewPoint(p.X, p.Y)
}

// Contains reports whether p lies within b, edges included. A nil point is
// never contained.
func (b Bounds) Contains(p *geo.Point) bool {
	if p == nil {
		return false
	}
	return b.rect().ContainsPoint(toR2(p))
}

// Center returns the midpoint of b on both axes.
func (b Bounds) Center() *geo.Point {
	return fromR2(b.rect().Center())
}

// Clamp returns the point of b nearest to p in latitude/longitude space.
// Points already inside b are returned unchanged.
func (b Bounds) Clamp(p *geo.Point) *geo.Point {
	return fromR2(b.rect().ClampPoint(toR2(p)))
}

// quadrant returns the index of the child quadrant that p is routed to.
// Points on a split line go to the lower-index quadrant.
func (b Bounds) quadrant(p *geo.Point) int {
	mid := b.rect().Center()
	q := NW
	if p.Lat() > mid.X {
		q += SW
	}
	if p.Lng() > mid.Y {
		q += NE
	}
	return q
}

// split bisects b at its midpoint latitude and longitude.
func (b Bounds) split() [4]Bounds {
	mid := b.rect().Center()
	return [4]Bounds{
		NW: {MinLat: b.MinLat, MaxLat: mid.X, MinLon: b.MinLon, MaxLon: mid.Y},
		NE: {MinLat: b.MinLat, MaxLat: mid.X, MinLon: mid.Y, MaxLon: b.MaxLon},
		SW: {MinLat: mid.X, MaxLat: b.MaxLat, MinLon: b.MinLon, MaxLon: mid.Y},
		SE: {MinLat: mid.X, MaxLat: b.MaxLat, MinLon: mid.Y, MaxLon: b.MaxLon},
	}
}
