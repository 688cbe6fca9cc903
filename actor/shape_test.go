package actor

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSphere_ComputeMass(t *testing.T) {
	s := &Sphere{Radius: 2.0}
	density := 3.0

	got := s.ComputeMass(density)
	want := density * (4.0 / 3.0) * math.Pi * math.Pow(2.0, 3)

	if !almostEqual(got, want, 1e-9) {
		t.Errorf("ComputeMass() = %v, want %v", got, want)
	}
}

func TestSphere_ComputeInertia_IsIsotropic(t *testing.T) {
	s := &Sphere{Radius: 1.5}
	mass := 4.0

	I := s.ComputeInertia(mass)
	want := (2.0 / 5.0) * mass * 1.5 * 1.5

	for i := 0; i < 3; i++ {
		if !almostEqual(I[i*3+i], want, 1e-9) {
			t.Errorf("I[%d,%d] = %v, want %v", i, i, I[i*3+i], want)
		}
	}
}

func TestSphere_ComputeAABB(t *testing.T) {
	s := &Sphere{Radius: 1.0}
	transform := Transform{Position: mgl64.Vec3{5, 5, 5}}
	s.ComputeAABB(transform)

	aabb := s.GetAABB()
	if !vec3AlmostEqual(aabb.Min, mgl64.Vec3{4, 4, 4}, 1e-10) {
		t.Errorf("AABB.Min = %v, want {4,4,4}", aabb.Min)
	}
	if !vec3AlmostEqual(aabb.Max, mgl64.Vec3{6, 6, 6}, 1e-10) {
		t.Errorf("AABB.Max = %v, want {6,6,6}", aabb.Max)
	}
}

func TestSphere_Support(t *testing.T) {
	s := &Sphere{Radius: 2.0}
	got := s.Support(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{2, 0, 0}
	if !vec3AlmostEqual(got, want, 1e-9) {
		t.Errorf("Support({1,0,0}) = %v, want %v", got, want)
	}
}

func TestBox_ComputeMass(t *testing.T) {
	b := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}
	density := 2.0

	got := b.ComputeMass(density)
	want := density * 8.0 * 1 * 2 * 3

	if !almostEqual(got, want, 1e-9) {
		t.Errorf("ComputeMass() = %v, want %v", got, want)
	}
}

func TestBox_Support_ReturnsCorrectCorner(t *testing.T) {
	b := &Box{HalfExtents: mgl64.Vec3{1, 2, 3}}

	got := b.Support(mgl64.Vec3{1, -1, 1})
	want := mgl64.Vec3{1, -2, 3}
	if !vec3AlmostEqual(got, want, 1e-9) {
		t.Errorf("Support({1,-1,1}) = %v, want %v", got, want)
	}
}

func TestBox_ComputeAABB_AxisAligned(t *testing.T) {
	b := &Box{HalfExtents: mgl64.Vec3{1, 1, 1}}
	transform := NewTransform()
	b.ComputeAABB(transform)

	aabb := b.GetAABB()
	if !vec3AlmostEqual(aabb.Min, mgl64.Vec3{-1, -1, -1}, 1e-10) {
		t.Errorf("AABB.Min = %v, want {-1,-1,-1}", aabb.Min)
	}
	if !vec3AlmostEqual(aabb.Max, mgl64.Vec3{1, 1, 1}, 1e-10) {
		t.Errorf("AABB.Max = %v, want {1,1,1}", aabb.Max)
	}
}

func TestCapsule_ComputeMass(t *testing.T) {
	c := &Capsule{Radius: 1.0, HalfHeight: 2.0}
	density := 1.0

	cylinderVolume := math.Pi * 1.0 * 1.0 * (2 * 2.0)
	sphereVolume := (4.0 / 3.0) * math.Pi
	want := density * (cylinderVolume + sphereVolume)

	got := c.ComputeMass(density)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("ComputeMass() = %v, want %v", got, want)
	}
}

func TestCapsule_Support_AlongAxis(t *testing.T) {
	c := &Capsule{Radius: 1.0, HalfHeight: 2.0}

	up := c.Support(mgl64.Vec3{0, 1, 0})
	want := mgl64.Vec3{0, 3, 0}
	if !vec3AlmostEqual(up, want, 1e-9) {
		t.Errorf("Support({0,1,0}) = %v, want %v", up, want)
	}

	down := c.Support(mgl64.Vec3{0, -1, 0})
	wantDown := mgl64.Vec3{0, -3, 0}
	if !vec3AlmostEqual(down, wantDown, 1e-9) {
		t.Errorf("Support({0,-1,0}) = %v, want %v", down, wantDown)
	}
}

func TestCapsule_ComputeInertia_SymmetricAndElongated(t *testing.T) {
	c := &Capsule{Radius: 1.0, HalfHeight: 2.0}
	I := c.ComputeInertia(10.0)

	// Symmetric about the capsule's local Y axis: Ix == Iz.
	if !almostEqual(I[0], I[8], 1e-9) {
		t.Errorf("Ix = %v, Iz = %v, want equal", I[0], I[8])
	}
	if I[4] >= I[0] {
		t.Errorf("Iy = %v should be less than Ix = %v for an elongated capsule", I[4], I[0])
	}
}

func TestCylinder_ComputeMass(t *testing.T) {
	c := &Cylinder{Radius: 2.0, HalfHeight: 3.0}
	density := 1.5

	want := density * math.Pi * 2.0 * 2.0 * (2 * 3.0)
	got := c.ComputeMass(density)
	if !almostEqual(got, want, 1e-9) {
		t.Errorf("ComputeMass() = %v, want %v", got, want)
	}
}

func TestCylinder_Support_Radial(t *testing.T) {
	c := &Cylinder{Radius: 2.0, HalfHeight: 1.0}

	got := c.Support(mgl64.Vec3{1, 1, 0})
	if !almostEqual(got.Y(), 1.0, 1e-9) {
		t.Errorf("Support().Y() = %v, want 1.0", got.Y())
	}
	radialLen := math.Hypot(got.X(), got.Z())
	if !almostEqual(radialLen, 2.0, 1e-9) {
		t.Errorf("radial length = %v, want 2.0", radialLen)
	}
}

func TestCylinder_ComputeAABB_Symmetric(t *testing.T) {
	c := &Cylinder{Radius: 1.0, HalfHeight: 2.0}
	c.ComputeAABB(NewTransform())

	aabb := c.GetAABB()
	if !vec3AlmostEqual(aabb.Min, mgl64.Vec3{-1, -2, -1}, 1e-9) {
		t.Errorf("AABB.Min = %v, want {-1,-2,-1}", aabb.Min)
	}
	if !vec3AlmostEqual(aabb.Max, mgl64.Vec3{1, 2, 1}, 1e-9) {
		t.Errorf("AABB.Max = %v, want {1,2,1}", aabb.Max)
	}
}

func TestAABB_Overlaps(t *testing.T) {
	a := AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	b := AABB{Min: mgl64.Vec3{0.5, 0.5, 0.5}, Max: mgl64.Vec3{2, 2, 2}}
	c := AABB{Min: mgl64.Vec3{10, 10, 10}, Max: mgl64.Vec3{11, 11, 11}}

	if !a.Overlaps(b) {
		t.Error("expected a and b to overlap")
	}
	if a.Overlaps(c) {
		t.Error("expected a and c not to overlap")
	}
}
