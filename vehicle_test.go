package spatialindex

import (
	"testing"

	"github.com/google/uuid"
	geo "github.com/kellydunn/golang-geo"
	"github.com/stretchr/testify/require"
)

func TestVehicle(t *testing.T) {
	id := uuid.New()
	p := geo.NewPoint(41, 29)
	v := NewVehicle(id, p)
	require.Equal(t, id, v.ID)
	require.Same(t, p, v.Position())
	require.Equal(t, StatusIdle, v.Status)

	q := geo.NewPoint(41.1, 29.1)
	v.SetPosition(q)
	require.Same(t, q, v.Position())

	var missing *Vehicle
	require.Nil(t, missing.Position())

	// Equal payloads at the same position are still distinct entities.
	a := NewVehicle(id, p)
	b := NewVehicle(id, p)
	require.True(t, Entity(a) != Entity(b))
}

func TestStatusString(t *testing.T) {
	require.Equal(t, "idle", StatusIdle.String())
	require.Equal(t, "active", StatusActive.String())
	require.Equal(t, "grounded", StatusGrounded.String())
	require.Equal(t, "unknown", Status(42).String())
}
