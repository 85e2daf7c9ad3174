package spatialindex

import geo "github.com/kellydunn/golang-geo"

// An Entity is a movable point indexed by reference. The index compares
// entities with ==, so implementations must be pointer types: two distinct
// entities at the same position with equal payloads are still different
// entities.
//
// The index reads Position on insert, remove and update only. Changing the
// position of an indexed entity without calling Index.Update or Index.Move
// leaves it filed under its old location, where queries and removals will
// not find it.
type Entity interface {
	// Position returns the current latitude/longitude, or nil if the entity
	// has no position.
	Position() *geo.Point
}

// A Mover is an Entity whose position can be changed through Index.Move.
type Mover interface {
	Entity
	SetPosition(p *geo.Point)
}
