package scenario

import (
	"testing"

	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
	"github.com/simuforge/simuforge/vecmath"
)

func TestBuild_BuiltinBoxStack(t *testing.T) {
	doc := &spec.Document{
		Physics: spec.PhysicsConfig{Gravity: vecmath.Vec3{X: 0, Y: -9.81, Z: 0}, SolverIterations: 4},
		Scenario: spec.ScenarioConfig{
			Kind: "builtin",
			Name: "box_stack",
			Params: map[string]interface{}{
				"count": 3,
			},
		},
	}

	world, err := Build(doc)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}

	// 1 ground + 3 boxes.
	if len(world.Bodies) != 4 {
		t.Errorf("len(Bodies) = %d, want 4", len(world.Bodies))
	}
}

func TestBuild_BuiltinAliasResolution(t *testing.T) {
	doc := &spec.Document{
		Physics:  spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{Kind: "builtin", Name: "bouncing"},
	}

	world, err := Build(doc)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(world.Bodies) != 2 {
		t.Errorf("len(Bodies) = %d, want 2 (ground + ball)", len(world.Bodies))
	}
}

func TestBuild_UnknownBuiltinScenario(t *testing.T) {
	doc := &spec.Document{
		Physics:  spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{Kind: "builtin", Name: "not_a_real_scenario"},
	}

	_, err := Build(doc)
	if err == nil {
		t.Fatal("expected error for unknown builtin scenario")
	}
	if _, ok := err.(*simerr.SpecInvalidError); !ok {
		t.Errorf("error type = %T, want *simerr.SpecInvalidError", err)
	}
}

func TestBuild_UnknownScenarioKind(t *testing.T) {
	doc := &spec.Document{
		Physics:  spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{Kind: "bogus"},
	}

	_, err := Build(doc)
	if err == nil {
		t.Fatal("expected error for unknown scenario kind")
	}
}

func TestBuild_CustomScenario(t *testing.T) {
	doc := &spec.Document{
		Physics: spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{
			Kind: "custom",
			Bodies: []spec.BodyDescriptor{
				{
					ID:              0,
					Name:            "falling_sphere",
					Kind:            spec.BodyDynamic,
					Shape:           spec.ShapeConfig{Type: spec.ShapeSphere, Radius: 1.0},
					InitialPosition: vecmath.Vec3{X: 0, Y: 10, Z: 0},
					Mass:            2.0,
				},
				{
					ID:    1,
					Name:  "floor",
					Kind:  spec.BodyStatic,
					Shape: spec.ShapeConfig{Type: spec.ShapeBox, HalfExtents: vecmath.Vec3{X: 10, Y: 1, Z: 10}},
				},
			},
		},
	}

	world, err := Build(doc)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if len(world.Bodies) != 2 {
		t.Fatalf("len(Bodies) = %d, want 2", len(world.Bodies))
	}
	if world.Names[0] != "falling_sphere" || world.Names[1] != "floor" {
		t.Errorf("Names = %v, want [falling_sphere floor]", world.Names)
	}
	if !almostEqual(world.Bodies[0].Material.GetMass(), 2.0, 1e-9) {
		t.Errorf("dynamic body mass = %v, want 2.0", world.Bodies[0].Material.GetMass())
	}
}

func TestBuild_CustomScenario_UnknownBodyKind(t *testing.T) {
	doc := &spec.Document{
		Physics: spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{
			Kind: "custom",
			Bodies: []spec.BodyDescriptor{
				{ID: 0, Kind: "Bogus", Shape: spec.ShapeConfig{Type: spec.ShapeSphere, Radius: 1.0}},
			},
		},
	}

	_, err := Build(doc)
	if err == nil {
		t.Fatal("expected error for unknown body kind")
	}
}

func TestBuild_CustomScenario_UnknownShapeType(t *testing.T) {
	doc := &spec.Document{
		Physics: spec.PhysicsConfig{SolverIterations: 4},
		Scenario: spec.ScenarioConfig{
			Kind: "custom",
			Bodies: []spec.BodyDescriptor{
				{ID: 0, Kind: spec.BodyDynamic, Shape: spec.ShapeConfig{Type: "cone"}},
			},
		},
	}

	_, err := Build(doc)
	if err == nil {
		t.Fatal("expected error for unknown shape type")
	}
}

func almostEqual(a, b, epsilon float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return diff < epsilon
}
