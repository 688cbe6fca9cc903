package epa

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/simuforge/simuforge/actor"
	"github.com/simuforge/simuforge/gjk"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func makeSphereBody(position mgl64.Vec3, radius float64) *actor.RigidBody {
	transform := actor.Transform{Position: position, Rotation: mgl64.QuatIdent()}
	sphere := &actor.Sphere{Radius: radius}
	rb := actor.NewRigidBody(transform, sphere, actor.BodyTypeDynamic, 1.0)
	sphere.ComputeAABB(transform)
	return rb
}

func TestEPA_OverlappingSpheres_PenetrationDepth(t *testing.T) {
	a := makeSphereBody(mgl64.Vec3{0, 0, 0}, 1.0)
	b := makeSphereBody(mgl64.Vec3{1.5, 0, 0}, 1.0)

	simplex := &gjk.Simplex{}
	if !gjk.GJK(a, b, simplex) {
		t.Fatal("expected spheres to overlap")
	}

	contact, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA returned error: %v", err)
	}

	// Two unit spheres 1.5 apart overlap by 0.5.
	if len(contact.Points) == 0 {
		t.Fatal("expected at least one contact point")
	}
	wantDepth := 0.5
	for _, p := range contact.Points {
		if !almostEqual(p.Penetration, wantDepth, 1e-3) {
			t.Errorf("Penetration = %v, want approximately %v", p.Penetration, wantDepth)
		}
	}
}

func TestEPA_OverlappingSpheres_NormalPointsFromAToB(t *testing.T) {
	a := makeSphereBody(mgl64.Vec3{0, 0, 0}, 1.0)
	b := makeSphereBody(mgl64.Vec3{1.5, 0, 0}, 1.0)

	simplex := &gjk.Simplex{}
	if !gjk.GJK(a, b, simplex) {
		t.Fatal("expected spheres to overlap")
	}

	contact, err := EPA(a, b, simplex)
	if err != nil {
		t.Fatalf("EPA returned error: %v", err)
	}

	if contact.Normal.X() <= 0 {
		t.Errorf("Normal = %v, want positive X component (A toward B)", contact.Normal)
	}
}

func TestSnapNormalToAxis_SnapsNearZeroComponents(t *testing.T) {
	normal := mgl64.Vec3{1e-10, 1.0, -1e-9}
	snapped := snapNormalToAxis(normal)

	if snapped.X() != 0 {
		t.Errorf("X component = %v, want 0", snapped.X())
	}
	if snapped.Z() != 0 {
		t.Errorf("Z component = %v, want 0", snapped.Z())
	}
	if !almostEqual(snapped.Y(), 1.0, 1e-9) {
		t.Errorf("Y component = %v, want 1.0", snapped.Y())
	}
}
