package spatialindex

import (
	"math"

	geo "github.com/kellydunn/golang-geo"
)

// DefaultNodeSize is the fan-out of a Snapshot's packed tree.
const DefaultNodeSize = 16

// A Snapshot is an immutable copy of an Index's contents, stored as a packed
// Hilbert R-tree. Positions are captured when the snapshot is built, so later
// changes to the index or to the entities themselves do not affect it. A
// Snapshot is safe for concurrent use.
type Snapshot struct {
	metric   Metric
	nodeSize int

	entities    []Entity
	boxes       []snapshotBox
	levelBounds []int
	numItems    int
}

// A snapshotBox is either an item, whose index points into entities, or a
// tree node, whose index is the position of its first child in boxes.
type snapshotBox struct {
	Bounds
	index int
}

func invertedBox() snapshotBox {
	return snapshotBox{
		Bounds: Bounds{
			MinLat: math.MaxFloat64,
			MaxLat: -math.MaxFloat64,
			MinLon: math.MaxFloat64,
			MaxLon: -math.MaxFloat64,
		},
		index: -1,
	}
}

func (b *snapshotBox) expand(c *Bounds) {
	b.MinLat = math.Min(b.MinLat, c.MinLat)
	b.MaxLat = math.Max(b.MaxLat, c.MaxLat)
	b.MinLon = math.Min(b.MinLon, c.MinLon)
	b.MaxLon = math.Max(b.MaxLon, c.MaxLon)
}

func (b *snapshotBox) overlaps(c *Bounds) bool {
	return c.MaxLat >= b.MinLat && c.MinLat <= b.MaxLat && c.MaxLon >= b.MinLon && c.MinLon <= b.MaxLon
}

// NewSnapshot packs the current contents of t with DefaultNodeSize.
func NewSnapshot(t *Index) *Snapshot {
	return NewSnapshotSize(t, DefaultNodeSize)
}

// NewSnapshotSize packs the current contents of t into nodes of nodeSize
// children. Node sizes below 2 are raised to 2.
func NewSnapshotSize(t *Index, nodeSize int) *Snapshot {
	if nodeSize < 2 {
		nodeSize = 2
	}
	s := &Snapshot{
		metric:   t.metric,
		nodeSize: nodeSize,
	}

	extent := invertedBox()
	t.Each(func(e Entity) bool {
		p := e.Position()
		if p == nil {
			return true
		}
		b := Bounds{MinLat: p.Lat(), MaxLat: p.Lat(), MinLon: p.Lng(), MaxLon: p.Lng()}
		s.boxes = append(s.boxes, snapshotBox{Bounds: b, index: len(s.entities)})
		s.entities = append(s.entities, e)
		extent.expand(&b)
		return true
	})
	s.numItems = len(s.boxes)

	// Count the nodes on each level so searches know where a level ends.
	n := s.numItems
	numNodes := n
	s.levelBounds = append(s.levelBounds, n)
	for {
		n = (n + nodeSize - 1) / nodeSize
		numNodes += n
		s.levelBounds = append(s.levelBounds, numNodes)
		if n <= 1 {
			break
		}
	}
	if s.numItems == 0 {
		return s
	}

	// Sort items along a Hilbert curve over their extent so that each node
	// covers a compact area.
	width := extent.MaxLat - extent.MinLat
	height := extent.MaxLon - extent.MinLon
	hilbertMax := float64((1 << hilbertOrder) - 1)
	values := make([]uint32, s.numItems)
	for i := range s.boxes {
		var x, y uint32
		if width > 0 {
			x = uint32(hilbertMax * (s.boxes[i].MinLat - extent.MinLat) / width)
		}
		if height > 0 {
			y = uint32(hilbertMax * (s.boxes[i].MinLon - extent.MinLon) / height)
		}
		values[i] = hilbertIndex(hilbertOrder, x, y)
	}
	sortByHilbert(values, s.boxes, 0, s.numItems-1)

	// Build parent nodes level by level from the bottom up.
	pos := 0
	for i := 0; i < len(s.levelBounds)-1; i++ {
		end := s.levelBounds[i]
		for pos < end {
			node := invertedBox()
			node.index = pos
			for j := 0; j < nodeSize && pos < end; j++ {
				node.expand(&s.boxes[pos].Bounds)
				pos++
			}
			s.boxes = append(s.boxes, node)
		}
	}
	return s
}

// Len returns the number of entity references in the snapshot.
func (s *Snapshot) Len() int {
	return s.numItems
}

// Query returns every entity whose captured position is within radius meters
// of center, using the metric of the index the snapshot was taken from. It
// matches Index.Query on the same contents.
func (s *Snapshot) Query(center *geo.Point, radius float64) []Entity {
	results := []Entity{}
	if center == nil || !validRadius(radius) {
		return results
	}
	s.search(func(b *snapshotBox) bool {
		return s.metric.Distance(center, b.Clamp(center)) <= radius
	}, func(i int) {
		results = append(results, s.entities[i])
	})
	return results
}

// Search returns every entity whose captured position lies within b.
func (s *Snapshot) Search(b Bounds) []Entity {
	results := []Entity{}
	s.search(func(n *snapshotBox) bool {
		return n.overlaps(&b)
	}, func(i int) {
		results = append(results, s.entities[i])
	})
	return results
}

// search walks the tree with an explicit stack, descending into every box
// accepted by match and reporting accepted items to emit.
func (s *Snapshot) search(match func(*snapshotBox) bool, emit func(int)) {
	if s.numItems == 0 {
		return
	}

	stack := make([]int, 0, 32)
	stack = append(stack, len(s.boxes)-1)       // node index
	stack = append(stack, len(s.levelBounds)-1) // level

	for len(stack) != 0 {
		nodeIndex := stack[len(stack)-2]
		level := stack[len(stack)-1]
		stack = stack[:len(stack)-2]

		end := min(nodeIndex+s.nodeSize, s.levelBounds[level])
		for pos := nodeIndex; pos < end; pos++ {
			if !match(&s.boxes[pos]) {
				continue
			}
			if nodeIndex < s.numItems {
				emit(s.boxes[pos].index)
			} else {
				stack = append(stack, s.boxes[pos].index, level-1)
			}
		}
	}
}
