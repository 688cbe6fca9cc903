package engine

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simuforge/simuforge/actor"
)

func makeBody(position mgl64.Vec3, radius float64, bodyType actor.BodyType) *actor.RigidBody {
	transform := actor.Transform{Position: position, Rotation: mgl64.QuatIdent()}
	sphere := &actor.Sphere{Radius: radius}
	rb := actor.NewRigidBody(transform, sphere, bodyType, 1.0)
	sphere.ComputeAABB(transform)
	return rb
}

func TestSpatialGrid_FindPairs_OverlappingBodies(t *testing.T) {
	bodies := []*actor.RigidBody{
		makeBody(mgl64.Vec3{0, 0, 0}, 1.0, actor.BodyTypeDynamic),
		makeBody(mgl64.Vec3{1.5, 0, 0}, 1.0, actor.BodyTypeDynamic),
	}

	grid := NewSpatialGrid(2.0, 16)
	grid.Build(bodies)
	pairs := grid.FindPairs(bodies)

	if len(pairs) != 1 {
		t.Fatalf("len(pairs) = %d, want 1", len(pairs))
	}
	if pairs[0].BodyA != 0 || pairs[0].BodyB != 1 {
		t.Errorf("pair = %+v, want {0,1}", pairs[0])
	}
}

func TestSpatialGrid_FindPairs_NoOverlap(t *testing.T) {
	bodies := []*actor.RigidBody{
		makeBody(mgl64.Vec3{0, 0, 0}, 1.0, actor.BodyTypeDynamic),
		makeBody(mgl64.Vec3{100, 0, 0}, 1.0, actor.BodyTypeDynamic),
	}

	grid := NewSpatialGrid(2.0, 16)
	grid.Build(bodies)
	pairs := grid.FindPairs(bodies)

	if len(pairs) != 0 {
		t.Errorf("len(pairs) = %d, want 0", len(pairs))
	}
}

func TestSpatialGrid_FindPairs_SkipsStaticStaticPairs(t *testing.T) {
	bodies := []*actor.RigidBody{
		makeBody(mgl64.Vec3{0, 0, 0}, 1.0, actor.BodyTypeStatic),
		makeBody(mgl64.Vec3{0.5, 0, 0}, 1.0, actor.BodyTypeStatic),
	}

	grid := NewSpatialGrid(2.0, 16)
	grid.Build(bodies)
	pairs := grid.FindPairs(bodies)

	if len(pairs) != 0 {
		t.Errorf("expected no pairs between two static bodies, got %d", len(pairs))
	}
}

func TestSpatialGrid_FindPairs_SkipsBothSleeping(t *testing.T) {
	a := makeBody(mgl64.Vec3{0, 0, 0}, 1.0, actor.BodyTypeDynamic)
	b := makeBody(mgl64.Vec3{0.5, 0, 0}, 1.0, actor.BodyTypeDynamic)
	a.IsSleeping = true
	b.IsSleeping = true

	bodies := []*actor.RigidBody{a, b}
	grid := NewSpatialGrid(2.0, 16)
	grid.Build(bodies)
	pairs := grid.FindPairs(bodies)

	if len(pairs) != 0 {
		t.Errorf("expected no pairs between two sleeping bodies, got %d", len(pairs))
	}
}

func TestSpatialGrid_FindPairs_DeterministicOrder(t *testing.T) {
	bodies := []*actor.RigidBody{
		makeBody(mgl64.Vec3{0, 0, 0}, 1.0, actor.BodyTypeDynamic),
		makeBody(mgl64.Vec3{0.5, 0, 0}, 1.0, actor.BodyTypeDynamic),
		makeBody(mgl64.Vec3{1.0, 0, 0}, 1.0, actor.BodyTypeDynamic),
	}

	grid := NewSpatialGrid(2.0, 16)
	for i := 0; i < 5; i++ {
		grid.Build(bodies)
		pairs := grid.FindPairs(bodies)
		for j := 1; j < len(pairs); j++ {
			prev, cur := pairs[j-1], pairs[j]
			if prev.BodyA > cur.BodyA || (prev.BodyA == cur.BodyA && prev.BodyB > cur.BodyB) {
				t.Fatalf("pairs not sorted: %+v then %+v", prev, cur)
			}
		}
	}
}
