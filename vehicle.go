package spatialindex

import (
	"sync"

	"github.com/google/uuid"
	geo "github.com/kellydunn/golang-geo"
)

// Status is the operating state of a Vehicle.
type Status uint8

const (
	StatusIdle Status = iota
	StatusActive
	StatusGrounded
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusActive:
		return "active"
	case StatusGrounded:
		return "grounded"
	}
	return "unknown"
}

// Velocity is a ground-relative velocity in meters per second.
type Velocity struct {
	North float64
	East  float64
	Up    float64
}

// Vehicle is the Entity tracked by the simulation. Altitude, velocity and
// status are payload and play no part in indexing.
type Vehicle struct {
	ID       uuid.UUID
	Altitude float64
	Velocity Velocity
	Status   Status

	mutex    sync.RWMutex
	position *geo.Point
}

// NewVehicle returns an idle vehicle at p.
func NewVehicle(id uuid.UUID, p *geo.Point) *Vehicle {
	return &Vehicle{ID: id, position: p}
}

// Position implements Entity. A nil vehicle has no position.
func (v *Vehicle) Position() *geo.Point {
	if v == nil {
		return nil
	}

	v.mutex.RLock()
	defer v.mutex.RUnlock()

	return v.position
}

// SetPosition implements Mover. Callers holding an index should use
// Index.Move instead.
func (v *Vehicle) SetPosition(p *geo.Point) {
	v.mutex.Lock()
	defer v.mutex.Unlock()

	v.position = p
}
