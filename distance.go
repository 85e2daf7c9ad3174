package spatialindex

import (
	"math"
	"sort"

	geo "github.com/kellydunn/golang-geo"
)

const earthRadiusMeters = 6371e3

// A Metric measures the horizontal distance in meters between two positions.
// An Index uses a single Metric both to prune regions and to test entities,
// so the two checks can never disagree.
type Metric interface {
	Distance(a, b *geo.Point) float64
}

// PlanarMetric projects positions onto a plane with an equirectangular
// projection anchored at a fixed reference latitude. Because the projection
// does not depend on the points being measured, the nearest point of a
// latitude/longitude rectangle is exactly its clamp, which keeps query pruning
// exact.
type PlanarMetric struct {
	scaleLon float64
}

// NewPlanarMetric returns a PlanarMetric anchored at refLat degrees.
func NewPlanarMetric(refLat float64) PlanarMetric {
	return PlanarMetric{scaleLon: math.Cos(refLat * math.Pi / 180)}
}

// Distance implements Metric.
func (m PlanarMetric) Distance(a, b *geo.Point) float64 {
	dLat := (b.Lat() - a.Lat()) * math.Pi / 180
	dLon := (b.Lng() - a.Lng()) * math.Pi / 180 * m.scaleLon
	return earthRadiusMeters * math.Hypot(dLat, dLon)
}

// GreatCircleMetric measures distance along the surface of a spherical Earth.
// Near the east and west edges of wide regions at high latitude the clamped
// point slightly overestimates the true distance to the region, so prefer
// PlanarMetric when the index spans many degrees.
type GreatCircleMetric struct{}

// Distance implements Metric.
func (GreatCircleMetric) Distance(a, b *geo.Point) float64 {
	return a.GreatCircleDistance(b) * 1000
}

// SortByDistance orders entities by ascending distance from center under m.
// Query results are unordered; callers that need ranking sort afterwards.
// Entities without a position sort last.
func SortByDistance(entities []Entity, center *geo.Point, m Metric) {
	dist := make(map[Entity]float64, len(entities))
	for _, e := range entities {
		p := e.Position()
		if center == nil || p == nil {
			dist[e] = math.Inf(1)
			continue
		}
		dist[e] = m.Distance(center, p)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return dist[entities[i]] < dist[entities[j]]
	})
}
