package spatialindex

import (
	"math"

	geo "github.com/kellydunn/golang-geo"
	"go.uber.org/zap"
)

// A region is one node of the quadtree. It is a leaf while children is nil;
// once split it has exactly four children ordered NW, NE, SW, SE and keeps
// them until the tree is cleared.
type region struct {
	bounds   Bounds
	depth    int
	entities []Entity
	children []*region
}

func newRegion(b Bounds, depth int) *region {
	return &region{bounds: b, depth: depth}
}

func (r *region) isLeaf() bool {
	return r.children == nil
}

// insert files e under this region and reports whether it was stored. p is
// e's position, read once by the caller.
func (r *region) insert(t *Index, e Entity, p *geo.Point) bool {
	if !r.bounds.Contains(p) {
		return false
	}

	if r.isLeaf() {
		if len(r.entities) < t.capacity || r.depth >= t.maxDepth {
			r.entities = append(r.entities, e)
			if r.depth >= t.maxDepth && len(r.entities) > t.capacity {
				t.logger.Debug("leaf at max depth over capacity",
					zap.Int("depth", r.depth), zap.Int("entities", len(r.entities)))
			}
			return true
		}
		r.split(t)
	}

	return r.children[r.bounds.quadrant(p)].insert(t, e, p)
}

// split turns a full leaf into an internal node and moves its entities into
// the four new children.
func (r *region) split(t *Index) {
	quads := r.bounds.split()
	r.children = make([]*region, len(quads))
	for i, b := range quads {
		r.children[i] = newRegion(b, r.depth+1)
	}

	// Entities whose position changed without an Update may no longer fit
	// any child. They stay on this node, where Query and Remove still look.
	var stranded []Entity
	for _, e := range r.entities {
		p := e.Position()
		if p == nil || !r.children[r.bounds.quadrant(p)].insert(t, e, p) {
			stranded = append(stranded, e)
		}
	}
	t.logger.Debug("region split",
		zap.Int("depth", r.depth), zap.Int("entities", len(r.entities)))
	if len(stranded) > 0 {
		t.logger.Warn("entities moved without update kept on split region",
			zap.Int("depth", r.depth), zap.Int("stranded", len(stranded)))
	}
	r.entities = stranded

	t.instrumentSplit(r.depth)
}

// intersects reports whether any point of the region is within radius of
// center under m.
func (r *region) intersects(m Metric, center *geo.Point, radius float64) bool {
	return m.Distance(center, r.bounds.Clamp(center)) <= radius
}

func (r *region) query(m Metric, center *geo.Point, radius float64, results []Entity) []Entity {
	if !r.intersects(m, center, radius) {
		return results
	}
	for _, e := range r.entities {
		// An entity whose position was cleared after insertion matches
		// nothing.
		p := e.Position()
		if p != nil && m.Distance(center, p) <= radius {
			results = append(results, e)
		}
	}
	for _, c := range r.children {
		results = c.query(m, center, radius, results)
	}
	return results
}

// remove deletes one reference to e from this region and one from each child
// whose bounds contain p.
func (r *region) remove(e Entity, p *geo.Point) bool {
	if !r.bounds.Contains(p) {
		return false
	}

	removed := false
	for i, held := range r.entities {
		if held == e {
			last := len(r.entities) - 1
			r.entities[i] = r.entities[last]
			r.entities[last] = nil
			r.entities = r.entities[:last]
			removed = true
			break
		}
	}
	for _, c := range r.children {
		if c.remove(e, p) {
			removed = true
		}
	}
	return removed
}

func (r *region) clear() {
	r.entities = nil
	r.children = nil
}

func (r *region) size() int {
	n := len(r.entities)
	for _, c := range r.children {
		n += c.size()
	}
	return n
}

func (r *region) each(fn func(Entity) bool) bool {
	for _, e := range r.entities {
		if !fn(e) {
			return false
		}
	}
	for _, c := range r.children {
		if !c.each(fn) {
			return false
		}
	}
	return true
}

func (r *region) stats(capacity, maxDepth int, s *Stats) {
	s.Nodes++
	s.Entities += len(r.entities)
	if r.depth > s.Depth {
		s.Depth = r.depth
	}
	if r.isLeaf() {
		s.Leaves++
		if r.depth >= maxDepth && len(r.entities) > capacity {
			s.OverflowLeaves++
		}
		return
	}
	for _, c := range r.children {
		c.stats(capacity, maxDepth, s)
	}
}

// validRadius reports whether radius can match anything.
func validRadius(radius float64) bool {
	return radius >= 0 && !math.IsNaN(radius)
}
