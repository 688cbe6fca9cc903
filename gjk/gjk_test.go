package gjk

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simuforge/simuforge/actor"
)

func vec3AlmostEqual(a, b mgl64.Vec3, epsilon float64) bool {
	return math.Abs(a.X()-b.X()) < epsilon &&
		math.Abs(a.Y()-b.Y()) < epsilon &&
		math.Abs(a.Z()-b.Z()) < epsilon
}

func makeSphereBody(position mgl64.Vec3, radius float64) *actor.RigidBody {
	transform := actor.Transform{Position: position, Rotation: mgl64.QuatIdent()}
	sphere := &actor.Sphere{Radius: radius}
	rb := actor.NewRigidBody(transform, sphere, actor.BodyTypeDynamic, 1.0)
	sphere.ComputeAABB(transform)
	return rb
}

func makeBoxBody(position mgl64.Vec3, halfExtents mgl64.Vec3) *actor.RigidBody {
	transform := actor.Transform{Position: position, Rotation: mgl64.QuatIdent()}
	box := &actor.Box{HalfExtents: halfExtents}
	rb := actor.NewRigidBody(transform, box, actor.BodyTypeDynamic, 1.0)
	box.ComputeAABB(transform)
	return rb
}

func TestGJK_OverlappingSpheres(t *testing.T) {
	a := makeSphereBody(mgl64.Vec3{0, 0, 0}, 1.0)
	b := makeSphereBody(mgl64.Vec3{1.5, 0, 0}, 1.0)

	simplex := &Simplex{}
	if !GJK(a, b, simplex) {
		t.Error("expected overlapping spheres to collide")
	}
}

func TestGJK_SeparatedSpheres(t *testing.T) {
	a := makeSphereBody(mgl64.Vec3{0, 0, 0}, 1.0)
	b := makeSphereBody(mgl64.Vec3{10, 0, 0}, 1.0)

	simplex := &Simplex{}
	if GJK(a, b, simplex) {
		t.Error("expected far-apart spheres not to collide")
	}
}

func TestGJK_TouchingBoxes(t *testing.T) {
	a := makeBoxBody(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := makeBoxBody(mgl64.Vec3{1.9, 0, 0}, mgl64.Vec3{1, 1, 1})

	simplex := &Simplex{}
	if !GJK(a, b, simplex) {
		t.Error("expected slightly overlapping boxes to collide")
	}
}

func TestGJK_SeparatedBoxes(t *testing.T) {
	a := makeBoxBody(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := makeBoxBody(mgl64.Vec3{5, 0, 0}, mgl64.Vec3{1, 1, 1})

	simplex := &Simplex{}
	if GJK(a, b, simplex) {
		t.Error("expected separated boxes not to collide")
	}
}

func TestMinkowskiSupport_SpheresAlongAxis(t *testing.T) {
	a := makeSphereBody(mgl64.Vec3{0, 0, 0}, 1.0)
	b := makeSphereBody(mgl64.Vec3{5, 0, 0}, 1.0)

	support := MinkowskiSupport(a, b, mgl64.Vec3{1, 0, 0})

	// support(A, dir) - support(B, -dir): furthest point of A toward +X minus
	// furthest point of B toward -X.
	want := mgl64.Vec3{1, 0, 0}.Sub(mgl64.Vec3{4, 0, 0})
	if !vec3AlmostEqual(support, want, 1e-9) {
		t.Errorf("MinkowskiSupport = %v, want %v", support, want)
	}
}

func TestSimplex_Reset(t *testing.T) {
	s := &Simplex{Count: 3}
	s.Reset()
	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
}
