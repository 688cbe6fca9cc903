// Package scenario builds an engine.World from a spec.ScenarioConfig, either
// by dispatching to one of the builtin scenario generators or by
// constructing bodies directly from a custom body list.
package scenario

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/simuforge/simuforge/actor"
	"github.com/simuforge/simuforge/engine"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
)

const groundGap = 1e-3

// canonicalName resolves scenario name aliases to their canonical builtin
// name.
func canonicalName(name string) string {
	switch name {
	case "rolling":
		return "rolling_sphere"
	case "bouncing":
		return "bouncing_ball"
	case "ramp":
		return "friction_ramp"
	default:
		return name
	}
}

// Build constructs the world for the given specification's physics and
// scenario configuration.
func Build(doc *spec.Document) (*engine.World, error) {
	world := engine.NewWorld(doc.Physics.Gravity.Mgl(), doc.Physics.SolverIterations, 6.0)

	switch doc.Scenario.Kind {
	case "builtin":
		if err := buildBuiltin(world, canonicalName(doc.Scenario.Name), doc.Scenario.Params); err != nil {
			return nil, err
		}
	case "custom":
		if err := buildCustom(world, doc.Scenario.Bodies); err != nil {
			return nil, err
		}
	default:
		return nil, &simerr.SpecInvalidError{Field: "scenario.kind", Reason: fmt.Sprintf("unknown kind %q", doc.Scenario.Kind)}
	}

	return world, nil
}

func buildBuiltin(world *engine.World, name string, params map[string]interface{}) error {
	switch name {
	case "box_stack":
		buildBoxStack(world, params)
	case "rolling_sphere":
		buildRollingSphere(world, params)
	case "bouncing_ball":
		buildBouncingBall(world, params)
	case "friction_ramp":
		buildFrictionRamp(world, params)
	default:
		return &simerr.SpecInvalidError{Field: "scenario.name", Reason: fmt.Sprintf("unknown builtin scenario %q", name)}
	}
	return nil
}

func addGround(world *engine.World, friction float64) {
	half := mgl64.Vec3{50, 0.5, 50}
	transform := actor.NewTransform()
	transform.Position = mgl64.Vec3{0, -0.5, 0}

	ground := actor.NewRigidBody(transform, &actor.Box{HalfExtents: half}, actor.BodyTypeStatic, 0)
	ground.Material.StaticFriction = friction
	ground.Material.DynamicFriction = friction
	world.AddBody("ground", ground)
}

func buildBoxStack(world *engine.World, params map[string]interface{}) {
	count := int(paramFloat(params, "count", 10))
	boxSize := paramVec3(params, "box_size", mgl64.Vec3{1, 1, 1})
	friction := paramFloat(params, "friction", 0.5)

	addGround(world, friction)

	half := boxSize.Mul(0.5)
	volume := boxSize.X() * boxSize.Y() * boxSize.Z()
	density := 1.0 / volume // unit mass per box

	groundTop := 0.0
	for i := 0; i < count; i++ {
		y := groundTop + half.Y() + float64(i)*(2*half.Y()+groundGap)

		transform := actor.NewTransform()
		transform.Position = mgl64.Vec3{0, y, 0}

		body := actor.NewRigidBody(transform, &actor.Box{HalfExtents: half}, actor.BodyTypeDynamic, density)
		body.Material.Restitution = 0.0
		body.Material.StaticFriction = friction
		body.Material.DynamicFriction = friction
		body.Material.LinearDamping = 0.01
		body.Material.AngularDamping = 0.05

		world.AddBody(fmt.Sprintf("box_%d", i), body)
	}
}

func buildRollingSphere(world *engine.World, params map[string]interface{}) {
	radius := paramFloat(params, "radius", 0.5)
	velocity := paramVec3(params, "initial_velocity", mgl64.Vec3{5, 0, 0})
	friction := paramFloat(params, "friction", 0.5)

	addGround(world, friction)

	transform := actor.NewTransform()
	transform.Position = mgl64.Vec3{0, radius, 0}

	density := 1.0 / ((4.0 / 3.0) * math.Pi * radius * radius * radius)
	body := actor.NewRigidBody(transform, &actor.Sphere{Radius: radius}, actor.BodyTypeDynamic, density)
	body.Velocity = velocity
	body.Material.Restitution = 0.0
	body.Material.StaticFriction = friction
	body.Material.DynamicFriction = friction

	world.AddBody("sphere", body)
}

func buildBouncingBall(world *engine.World, params map[string]interface{}) {
	radius := paramFloat(params, "radius", 0.5)
	dropHeight := paramFloat(params, "drop_height", 10)
	restitution := paramFloat(params, "restitution", 0.8)

	addGround(world, 0.5)

	transform := actor.NewTransform()
	transform.Position = mgl64.Vec3{0, dropHeight, 0}

	density := 1.0 / ((4.0 / 3.0) * math.Pi * radius * radius * radius)
	body := actor.NewRigidBody(transform, &actor.Sphere{Radius: radius}, actor.BodyTypeDynamic, density)
	body.Material.Restitution = restitution
	body.Material.StaticFriction = 0.1
	body.Material.DynamicFriction = 0.1

	world.AddBody("ball", body)
}

func buildFrictionRamp(world *engine.World, params map[string]interface{}) {
	angle := paramFloat(params, "ramp_angle", 0.5)
	length := paramFloat(params, "ramp_length", 10)
	friction := paramFloat(params, "friction", 0.3)

	const thickness = 0.25
	const width = 5.0

	rampHalf := mgl64.Vec3{length / 2, thickness, width / 2}
	rotation := mgl64.QuatRotate(angle, mgl64.Vec3{0, 0, 1})

	// Place the ramp so the lower end of its top surface touches the origin.
	lowerLocal := mgl64.Vec3{-rampHalf.X(), rampHalf.Y(), 0}
	lowerOffset := rotation.Rotate(lowerLocal)
	rampCenter := mgl64.Vec3{0, 0, 0}.Sub(lowerOffset)

	rampTransform := actor.NewTransform()
	rampTransform.Position = rampCenter
	rampTransform.Rotation = rotation
	rampTransform.InverseRotation = rotation.Inverse()

	ramp := actor.NewRigidBody(rampTransform, &actor.Box{HalfExtents: rampHalf}, actor.BodyTypeStatic, 0)
	ramp.Material.StaticFriction = friction
	ramp.Material.DynamicFriction = friction
	world.AddBody("ramp", ramp)

	boxHalf := mgl64.Vec3{0.5, 0.5, 0.5}
	// Rest the box on the surface near the upper end, inset from the edge.
	surfaceLocal := mgl64.Vec3{rampHalf.X() - boxHalf.X()*2, rampHalf.Y(), 0}
	normal := rotation.Rotate(mgl64.Vec3{0, 1, 0})
	boxCenter := rampCenter.Add(rotation.Rotate(surfaceLocal)).Add(normal.Mul(boxHalf.Y()))

	boxTransform := actor.NewTransform()
	boxTransform.Position = boxCenter
	boxTransform.Rotation = rotation
	boxTransform.InverseRotation = rotation.Inverse()

	density := 1.0 / (boxHalf.X() * boxHalf.Y() * boxHalf.Z() * 8)
	box := actor.NewRigidBody(boxTransform, &actor.Box{HalfExtents: boxHalf}, actor.BodyTypeDynamic, density)
	box.Material.StaticFriction = friction
	box.Material.DynamicFriction = friction
	world.AddBody("block", box)
}

func buildCustom(world *engine.World, bodies []spec.BodyDescriptor) error {
	for _, desc := range bodies {
		shape, err := buildShape(desc.Shape)
		if err != nil {
			return err
		}

		bodyType, err := bodyTypeFor(desc.Kind)
		if err != nil {
			return err
		}

		transform := actor.NewTransform()
		transform.Position = desc.InitialPosition.Mgl()
		transform.Rotation = desc.InitialRotation.Mgl()
		if transform.Rotation == (mgl64.Quat{}) {
			transform.Rotation = mgl64.QuatIdent()
		}
		transform.InverseRotation = transform.Rotation.Inverse()

		density := 0.0
		if bodyType == actor.BodyTypeDynamic {
			mass := desc.Mass
			if mass <= 0 {
				mass = 1.0
			}
			volume := shape.ComputeMass(1.0)
			if volume > 0 {
				density = mass / volume
			}
		}

		body := actor.NewRigidBody(transform, shape, bodyType, density)
		body.Velocity = desc.InitialVelocity.Mgl()
		body.AngularVelocity = desc.InitialAngularVelocity.Mgl()
		body.Material.Restitution = desc.Restitution
		body.Material.StaticFriction = desc.Friction
		body.Material.DynamicFriction = desc.Friction

		name := desc.Name
		if name == "" {
			name = fmt.Sprintf("body_%d", desc.ID)
		}
		world.AddBody(name, body)
	}
	return nil
}

func bodyTypeFor(kind spec.BodyKind) (actor.BodyType, error) {
	switch kind {
	case spec.BodyDynamic:
		return actor.BodyTypeDynamic, nil
	case spec.BodyStatic:
		return actor.BodyTypeStatic, nil
	case spec.BodyKinematic:
		return actor.BodyTypeKinematic, nil
	default:
		return 0, &simerr.SpecInvalidError{Field: "scenario.bodies[].kind", Reason: fmt.Sprintf("unknown body kind %q", kind)}
	}
}

func buildShape(cfg spec.ShapeConfig) (actor.ShapeInterface, error) {
	switch cfg.Type {
	case spec.ShapeBox:
		return &actor.Box{HalfExtents: cfg.HalfExtents.Mgl()}, nil
	case spec.ShapeSphere:
		return &actor.Sphere{Radius: cfg.Radius}, nil
	case spec.ShapeCapsule:
		return &actor.Capsule{Radius: cfg.Radius, HalfHeight: cfg.HalfHeight}, nil
	case spec.ShapeCylinder:
		return &actor.Cylinder{Radius: cfg.Radius, HalfHeight: cfg.HalfHeight}, nil
	default:
		return nil, &simerr.SpecInvalidError{Field: "scenario.bodies[].shape.type", Reason: fmt.Sprintf("unknown shape type %q", cfg.Type)}
	}
}

func paramFloat(params map[string]interface{}, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	return toFloat64(v, def)
}

func paramVec3(params map[string]interface{}, key string, def mgl64.Vec3) mgl64.Vec3 {
	v, ok := params[key]
	if !ok {
		return def
	}
	seq, ok := v.([]interface{})
	if !ok || len(seq) != 3 {
		return def
	}
	return mgl64.Vec3{
		toFloat64(seq[0], def.X()),
		toFloat64(seq[1], def.Y()),
		toFloat64(seq[2], def.Z()),
	}
}

func toFloat64(v interface{}, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}
