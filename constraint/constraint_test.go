package constraint

import (
	"math"
	"testing"

	"github.com/simuforge/simuforge/actor"
)

func almostEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestComputeRestitution_Average(t *testing.T) {
	a := actor.Material{Restitution: 0.2}
	b := actor.Material{Restitution: 0.8}

	got := ComputeRestitution(a, b)
	if !almostEqual(got, 0.5, 1e-10) {
		t.Errorf("ComputeRestitution() = %v, want 0.5", got)
	}
}

func TestComputeStaticFriction_GeometricMean(t *testing.T) {
	a := actor.Material{StaticFriction: 0.4}
	b := actor.Material{StaticFriction: 0.9}

	got := ComputeStaticFriction(a, b)
	want := math.Sqrt(0.4 * 0.9)
	if !almostEqual(got, want, 1e-10) {
		t.Errorf("ComputeStaticFriction() = %v, want %v", got, want)
	}
}

func TestComputeDynamicFriction_GeometricMean(t *testing.T) {
	a := actor.Material{DynamicFriction: 0.3}
	b := actor.Material{DynamicFriction: 0.3}

	got := ComputeDynamicFriction(a, b)
	if !almostEqual(got, 0.3, 1e-10) {
		t.Errorf("ComputeDynamicFriction() = %v, want 0.3", got)
	}
}

func TestComputeDynamicFriction_ZeroWhenEitherIsZero(t *testing.T) {
	a := actor.Material{DynamicFriction: 0}
	b := actor.Material{DynamicFriction: 0.9}

	got := ComputeDynamicFriction(a, b)
	if got != 0 {
		t.Errorf("ComputeDynamicFriction() = %v, want 0", got)
	}
}
