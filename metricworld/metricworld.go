// Package metricworld advances a scenario one fixed step at a time and
// extracts a MetricFrame snapshot after every step: energy, momentum,
// contact statistics and per-body state, all reduced over dynamic bodies in
// dense id order so repeated runs of the same spec produce identical
// frame sequences.
package metricworld

import (
	"github.com/simuforge/simuforge/actor"
	"github.com/simuforge/simuforge/engine"
	"github.com/simuforge/simuforge/scenario"
	"github.com/simuforge/simuforge/simerr"
	"github.com/simuforge/simuforge/spec"
	"github.com/simuforge/simuforge/vecmath"
)

// PenetrationWarnThreshold is the penetration depth, in meters, past which a
// contact point counts as a constraint violation.
const PenetrationWarnThreshold = 1e-3

type EnergyMetrics struct {
	Kinetic   float64
	Potential float64
	Total     float64
}

type MomentumMetrics struct {
	Linear           vecmath.Vec3
	Angular          vecmath.Vec3
	LinearMagnitude  float64
	AngularMagnitude float64
}

type ContactMetrics struct {
	ContactCount         int
	MaxPenetration       float64
	TotalPenetration     float64
	ConstraintViolations int
}

type BodyState struct {
	ID              int
	Name            string
	Transform       vecmath.Transform
	LinearVelocity  vecmath.Vec3
	AngularVelocity vecmath.Vec3
	Sleeping        bool
}

// MetricFrame is one immutable snapshot of the simulation, taken after the
// corresponding Step call. All slices are freshly allocated copies: nothing
// aliases live solver state.
type MetricFrame struct {
	Step     int
	Time     float64
	Energy   EnergyMetrics
	Momentum MomentumMetrics
	Contacts ContactMetrics
	Bodies   []BodyState
}

// MetricWorld wraps an engine.World with the bookkeeping needed to run a
// bounded number of fixed steps and read back MetricFrames.
type MetricWorld struct {
	doc         *spec.Document
	world       *engine.World
	step        int
	targetSteps int
}

// New validates the document and builds the initial world for its scenario.
func New(doc *spec.Document) (*MetricWorld, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	world, err := scenario.Build(doc)
	if err != nil {
		return nil, err
	}

	return &MetricWorld{
		doc:         doc,
		world:       world,
		targetSteps: doc.TargetSteps(),
	}, nil
}

// IsComplete reports whether TargetSteps have already been simulated.
func (m *MetricWorld) IsComplete() bool {
	return m.step >= m.targetSteps
}

// CurrentStep returns the number of steps simulated so far.
func (m *MetricWorld) CurrentStep() int {
	return m.step
}

// TargetSteps returns the configured step budget for this run.
func (m *MetricWorld) TargetSteps() int {
	return m.targetSteps
}

// Reset rebuilds the world from the original document, discarding all
// progress. It is idempotent: calling it repeatedly always yields the same
// initial state.
func (m *MetricWorld) Reset() error {
	world, err := scenario.Build(m.doc)
	if err != nil {
		return err
	}
	m.world = world
	m.step = 0
	return nil
}

// Step advances the simulation by one fixed timestep and returns the
// resulting frame. It fails with *simerr.AlreadyCompleteError if the target
// step count has already been reached, and with *simerr.SolverError if the
// embedded solver could not resolve a contact.
func (m *MetricWorld) Step() (*MetricFrame, error) {
	if m.IsComplete() {
		return nil, &simerr.AlreadyCompleteError{}
	}

	if err := m.world.Step(m.doc.Physics.Timestep); err != nil {
		return nil, &simerr.SolverError{Message: err.Error()}
	}

	// Frames are indexed from 0: the frame produced by the first Step call
	// carries Step==0, Time==0, matching frame list position.
	frame := m.extractFrame(m.step)
	m.step++
	return frame, nil
}

func (m *MetricWorld) extractFrame(stepIndex int) *MetricFrame {
	gravityMag := m.world.Gravity.Len()

	var kinetic, potential float64
	var linearMomentum, angularMomentum vecmath.Vec3

	bodies := make([]BodyState, len(m.world.Bodies))
	for id, body := range m.world.Bodies {
		if body.BodyType == actor.BodyTypeDynamic {
			mass := body.Material.GetMass()
			v := body.Velocity
			omega := body.AngularVelocity
			I := body.GetInertiaWorld()

			kinetic += 0.5*mass*v.Dot(v) + 0.5*omega.Dot(I.Mul3x1(omega))
			potential += mass * gravityMag * body.Transform.Position.Y()

			p := v.Mul(mass)
			linearMomentum.X += p.X()
			linearMomentum.Y += p.Y()
			linearMomentum.Z += p.Z()

			l := I.Mul3x1(omega)
			angularMomentum.X += l.X()
			angularMomentum.Y += l.Y()
			angularMomentum.Z += l.Z()
		}

		bodies[id] = BodyState{
			ID:              id,
			Name:            m.world.Names[id],
			Transform:       vecmath.Transform{Position: vecmath.FromMgl(body.Transform.Position), Rotation: vecmath.QuatFromMgl(body.Transform.Rotation)},
			LinearVelocity:  vecmath.FromMgl(body.Velocity),
			AngularVelocity: vecmath.FromMgl(body.AngularVelocity),
			Sleeping:        body.IsSleeping,
		}
	}

	// A manifold counts as one violation if its deepest point exceeds the
	// threshold, not once per point: violations must never exceed the
	// manifold (contact) count.
	violations := 0
	for _, c := range m.world.LastContacts {
		maxPen := 0.0
		for _, p := range c.Points {
			if p.Penetration > maxPen {
				maxPen = p.Penetration
			}
		}
		if maxPen > PenetrationWarnThreshold {
			violations++
		}
	}

	return &MetricFrame{
		Step: stepIndex,
		Time: float64(stepIndex) * m.doc.Physics.Timestep,
		Energy: EnergyMetrics{
			Kinetic:   kinetic,
			Potential: potential,
			Total:     kinetic + potential,
		},
		Momentum: MomentumMetrics{
			Linear:           linearMomentum,
			Angular:          angularMomentum,
			LinearMagnitude:  linearMomentum.Len(),
			AngularMagnitude: angularMomentum.Len(),
		},
		Contacts: ContactMetrics{
			ContactCount:         len(m.world.LastContacts),
			MaxPenetration:       m.world.MaxPenetration(),
			TotalPenetration:     m.world.TotalPenetration(),
			ConstraintViolations: violations,
		},
		Bodies: bodies,
	}
}
