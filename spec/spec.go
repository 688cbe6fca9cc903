// Package spec loads and validates experiment specifications: the YAML
// documents that describe a scenario, its physics configuration, how long
// to run it, which metrics to record and which pass/fail criteria apply.
package spec

import (
	"fmt"
	"math"

	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/vecmath"
	"gopkg.in/yaml.v3"
)

// Document is the root of an experiment specification.
type Document struct {
	Metadata Metadata        `yaml:"metadata"`
	Physics  PhysicsConfig   `yaml:"physics"`
	Duration DurationConfig  `yaml:"duration"`
	Scenario ScenarioConfig  `yaml:"scenario"`
	Metrics  MetricsConfig   `yaml:"metrics"`
	Criteria map[string]Criterion `yaml:"criteria"`
}

type Metadata struct {
	Name string `yaml:"name"`
}

type PhysicsConfig struct {
	Timestep            float64      `yaml:"timestep"`
	Gravity             vecmath.Vec3 `yaml:"gravity"`
	SolverIterations    int          `yaml:"solver_iterations"`
	EnhancedDeterminism bool         `yaml:"enhanced_determinism"`
	Seed                int64        `yaml:"seed"`
}

// DurationConfig.Kind is one of "fixed" (spec.md's only kind), "time"
// (converted to steps via timestep) or "until_stable" (bounded by MaxSteps,
// terminated early once the aggregator's stabilization window is met).
type DurationConfig struct {
	Kind     string  `yaml:"kind"`
	Steps    int     `yaml:"steps"`
	Time     float64 `yaml:"time"`
	MaxSteps int     `yaml:"max_steps"`
}

// ScenarioConfig.Kind is "builtin" (dispatches to a named scenario builder)
// or "custom" (an explicit body list supplied inline).
type ScenarioConfig struct {
	Kind   string                 `yaml:"kind"`
	Name   string                 `yaml:"name"`
	Params map[string]interface{} `yaml:"params"`
	Bodies []BodyDescriptor       `yaml:"bodies"`
}

type MetricsConfig struct {
	PerFrame  []string `yaml:"per_frame"`
	Aggregate []string `yaml:"aggregate"`
}

// Criterion evaluates independently on Min/Max bounds and, when set, an
// Equals/Tolerance band. Both paths must pass for the criterion to pass.
type Criterion struct {
	Min       *float64 `yaml:"min"`
	Max       *float64 `yaml:"max"`
	Equals    *float64 `yaml:"equals"`
	Tolerance *float64 `yaml:"tolerance"`
}

// ShapeKind names a BodyDescriptor's collision shape.
type ShapeKind string

const (
	ShapeBox      ShapeKind = "box"
	ShapeSphere   ShapeKind = "sphere"
	ShapeCapsule  ShapeKind = "capsule"
	ShapeCylinder ShapeKind = "cylinder"
)

type ShapeConfig struct {
	Type        ShapeKind    `yaml:"type"`
	HalfExtents vecmath.Vec3 `yaml:"half_extents"`
	Radius      float64      `yaml:"radius"`
	HalfHeight  float64      `yaml:"half_height"`
}

// BodyKind names a BodyDescriptor's motion category.
type BodyKind string

const (
	BodyDynamic   BodyKind = "Dynamic"
	BodyStatic    BodyKind = "Static"
	BodyKinematic BodyKind = "Kinematic"
)

// BodyDescriptor describes one rigid body in a custom scenario. Id is a
// dense integer assigned in declaration order starting at 0.
type BodyDescriptor struct {
	ID                     int          `yaml:"id"`
	Name                   string       `yaml:"name"`
	Kind                   BodyKind     `yaml:"kind"`
	Shape                  ShapeConfig  `yaml:"shape"`
	InitialPosition        vecmath.Vec3 `yaml:"initial_position"`
	InitialRotation        vecmath.Quat `yaml:"initial_rotation"`
	InitialVelocity        vecmath.Vec3 `yaml:"initial_velocity"`
	InitialAngularVelocity vecmath.Vec3 `yaml:"initial_angular_velocity"`
	Mass                   float64      `yaml:"mass"`
	Friction               float64      `yaml:"friction"`
	Restitution            float64      `yaml:"restitution"`
}

// Parse decodes an experiment spec document from YAML bytes.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("spec: parsing YAML: %w", err)
	}
	return &doc, nil
}

// Validate checks the document for structural and semantic errors, returning
// the first violation found as a *simerr.SpecInvalidError.
func (d *Document) Validate() error {
	if d.Metadata.Name == "" {
		return &simerr.SpecInvalidError{Field: "metadata.name", Reason: "must not be empty"}
	}
	if !finite(d.Physics.Timestep) {
		return &simerr.SpecInvalidError{Field: "physics.timestep", Reason: "must be a finite number"}
	}
	if d.Physics.Timestep <= 0 {
		return &simerr.SpecInvalidError{Field: "physics.timestep", Reason: "must be positive"}
	}
	if !finite(d.Physics.Gravity.X) || !finite(d.Physics.Gravity.Y) || !finite(d.Physics.Gravity.Z) {
		return &simerr.SpecInvalidError{Field: "physics.gravity", Reason: "must be finite numbers"}
	}
	if d.Physics.SolverIterations < 1 {
		return &simerr.SpecInvalidError{Field: "physics.solver_iterations", Reason: "must be at least 1"}
	}

	switch d.Duration.Kind {
	case "fixed":
		if d.Duration.Steps <= 0 {
			return &simerr.SpecInvalidError{Field: "duration.steps", Reason: "must be positive for kind=fixed"}
		}
	case "time":
		if !finite(d.Duration.Time) {
			return &simerr.SpecInvalidError{Field: "duration.time", Reason: "must be a finite number"}
		}
		if d.Duration.Time <= 0 {
			return &simerr.SpecInvalidError{Field: "duration.time", Reason: "must be positive for kind=time"}
		}
	case "until_stable":
		if d.Duration.MaxSteps <= 0 {
			return &simerr.SpecInvalidError{Field: "duration.max_steps", Reason: "must be positive for kind=until_stable"}
		}
	default:
		return &simerr.SpecInvalidError{Field: "duration.kind", Reason: fmt.Sprintf("unknown kind %q", d.Duration.Kind)}
	}

	switch d.Scenario.Kind {
	case "builtin":
		if d.Scenario.Name == "" {
			return &simerr.SpecInvalidError{Field: "scenario.name", Reason: "must not be empty for kind=builtin"}
		}
	case "custom":
		if len(d.Scenario.Bodies) == 0 {
			return &simerr.SpecInvalidError{Field: "scenario.bodies", Reason: "must declare at least one body for kind=custom"}
		}
		for i, b := range d.Scenario.Bodies {
			if b.ID != i {
				return &simerr.SpecInvalidError{Field: "scenario.bodies", Reason: fmt.Sprintf("body at index %d has id %d, expected dense ids starting at 0", i, b.ID)}
			}
			if !finite(b.Mass) || !finite(b.Friction) || !finite(b.Restitution) {
				return &simerr.SpecInvalidError{Field: fmt.Sprintf("scenario.bodies[%d]", i), Reason: "mass, friction and restitution must be finite numbers"}
			}
			if !finiteVec3(b.InitialPosition) || !finiteVec3(b.InitialVelocity) || !finiteVec3(b.InitialAngularVelocity) {
				return &simerr.SpecInvalidError{Field: fmt.Sprintf("scenario.bodies[%d]", i), Reason: "initial position, velocity and angular velocity must be finite numbers"}
			}
		}
	default:
		return &simerr.SpecInvalidError{Field: "scenario.kind", Reason: fmt.Sprintf("unknown kind %q", d.Scenario.Kind)}
	}

	for tag, c := range d.Criteria {
		if c.Min == nil && c.Max == nil && c.Equals == nil {
			return &simerr.SpecInvalidError{Field: fmt.Sprintf("criteria.%s", tag), Reason: "must declare at least one of min, max, equals"}
		}
		if c.Equals != nil && c.Tolerance == nil {
			return &simerr.SpecInvalidError{Field: fmt.Sprintf("criteria.%s", tag), Reason: "equals requires tolerance"}
		}
		for _, bound := range []*float64{c.Min, c.Max, c.Equals, c.Tolerance} {
			if bound != nil && !finite(*bound) {
				return &simerr.SpecInvalidError{Field: fmt.Sprintf("criteria.%s", tag), Reason: "min, max, equals and tolerance must be finite numbers"}
			}
		}
	}

	return nil
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec3(v vecmath.Vec3) bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

// TargetSteps resolves the duration configuration to a concrete step count
// for kinds that can be known up front ("fixed" and "time"). "until_stable"
// has no fixed target; callers should use MaxSteps as an upper bound.
func (d *Document) TargetSteps() int {
	switch d.Duration.Kind {
	case "time":
		return int(math.Ceil(d.Duration.Time / d.Physics.Timestep))
	case "until_stable":
		return d.Duration.MaxSteps
	default:
		return d.Duration.Steps
	}
}
