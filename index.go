// Package spatialindex tracks moving point entities, such as vehicles, over a
// latitude/longitude extent and answers radius queries with a point-region
// quadtree.
//
// Regions split into four quadrants once they hold Capacity entities, down to
// MaxDepth, where leaves absorb any number of entities so that clusters of
// identical positions cannot recurse forever.
//
// An Index is not safe for concurrent mutation. Wrap it in a SyncIndex when
// several goroutines share it.
package spatialindex

import (
	"time"

	geo "github.com/kellydunn/golang-geo"
	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the number of entities a leaf holds before splitting.
	DefaultCapacity = 10
	// DefaultMaxDepth is the depth below which regions never split.
	DefaultMaxDepth = 20
)

// Index is a quadtree over a fixed latitude/longitude extent.
type Index struct {
	name     string
	capacity int
	maxDepth int
	metric   Metric
	logger   *zap.Logger

	root *region
}

// Stats describes the shape of an Index.
type Stats struct {
	Nodes          int
	Leaves         int
	Depth          int // deepest node, the root is 0
	Entities       int
	OverflowLeaves int // leaves at max depth holding more than capacity
}

// New returns an empty Index covering b. Unless overridden, it uses
// DefaultCapacity, DefaultMaxDepth, and a PlanarMetric anchored at the centre
// latitude of b.
func New(b Bounds, opts ...Option) *Index {
	t := &Index{
		name:     "default",
		capacity: DefaultCapacity,
		maxDepth: DefaultMaxDepth,
		metric:   NewPlanarMetric(b.Center().Lat()),
		logger:   zap.NewNop(),
		root:     newRegion(b, 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(zap.String("index", t.name))
	return t
}

// Bounds returns the extent covered by the index.
func (t *Index) Bounds() Bounds { return t.root.bounds }

// Capacity returns the per-leaf split threshold.
func (t *Index) Capacity() int { return t.capacity }

// MaxDepth returns the depth at which regions stop splitting.
func (t *Index) MaxDepth() int { return t.maxDepth }

// Metric returns the distance function used by Query.
func (t *Index) Metric() Metric { return t.metric }

// Insert adds e at its current position. Entities outside the index bounds
// are ignored. Inserting the same entity twice stores it twice.
func (t *Index) Insert(e Entity) error {
	if e == nil {
		return invalidArg("insert nil entity")
	}
	p := e.Position()
	if p == nil {
		return invalidArg("insert entity without position")
	}

	if !t.root.insert(t, e, p) {
		t.logger.Debug("ignoring entity outside bounds",
			zap.Float64("lat", p.Lat()), zap.Float64("lon", p.Lng()))
		return nil
	}
	t.instrumentInsert()
	return nil
}

// Query returns every entity within radius meters of center. The result is a
// new slice in no particular order. A nil center or a negative radius matches
// nothing.
func (t *Index) Query(center *geo.Point, radius float64) []Entity {
	if center == nil || !validRadius(radius) {
		return []Entity{}
	}

	start := time.Now()
	results := t.root.query(t.metric, center, radius, []Entity{})
	t.instrumentQuery(len(results), time.Since(start))
	return results
}

// Remove deletes e, located by its current position, and reports whether it
// was found. An entity without a position is never found. A nil pointer
// wrapped in a non-nil Entity, such as a nil *Vehicle, counts as an entity
// without a position.
func (t *Index) Remove(e Entity) (bool, error) {
	if e == nil {
		return false, invalidArg("remove nil entity")
	}
	p := e.Position()
	if p == nil {
		return false, nil
	}

	removed := t.root.remove(e, p)
	if removed {
		t.instrumentRemove()
	}
	return removed, nil
}

// Update refiles e under its current position. It must be called after every
// change to an indexed entity's position. Updating an entity that was never
// inserted simply inserts it.
func (t *Index) Update(e Entity) error {
	if e == nil {
		return invalidArg("update nil entity")
	}
	if _, err := t.Remove(e); err != nil {
		return err
	}
	return t.Insert(e)
}

// Move sets the position of e to p and refiles it in one step, so the index
// never observes the new position before e is removed from the old one.
func (t *Index) Move(e Mover, p *geo.Point) error {
	if e == nil {
		return invalidArg("move nil entity")
	}
	if p == nil {
		return invalidArg("move entity to nil position")
	}
	if _, err := t.Remove(e); err != nil {
		return err
	}
	e.SetPosition(p)
	return t.Insert(e)
}

// Clear removes every entity and collapses the tree to a single empty leaf.
func (t *Index) Clear() {
	n := t.root.size()
	t.root.clear()
	t.logger.Debug("index cleared", zap.Int("entities", n))
	t.instrumentClear(n)
}

// Size returns the number of stored entity references. It walks the whole
// tree.
func (t *Index) Size() int {
	return t.root.size()
}

// Each calls fn for every stored entity reference until fn returns false.
// fn must not modify the index.
func (t *Index) Each(fn func(Entity) bool) {
	t.root.each(fn)
}

// Stats walks the tree and reports its shape.
func (t *Index) Stats() Stats {
	var s Stats
	t.root.stats(t.capacity, t.maxDepth, &s)
	return s
}
