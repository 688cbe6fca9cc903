// Package engine drives the fixed-timestep XPBD simulation loop: broad-phase
// pruning, GJK/EPA narrow phase, constraint solving and sleep bookkeeping,
// applied sequentially to a dense, insertion-ordered body list.
package engine

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/simuforge/simuforge/actor"
	"github.com/simuforge/simuforge/constraint"
	"github.com/simuforge/simuforge/epa"
	"github.com/simuforge/simuforge/gjk"
)

const (
	sleepVelocityThreshold = 0.05
	sleepTimeThreshold     = 0.5
)

// World owns the dense, id-ordered set of rigid bodies and advances them one
// fixed timestep at a time. Step never spawns goroutines: every reduction
// (energy, momentum, contact stats) iterates this same body-id order and is
// therefore reproducible byte-for-byte across runs of the same scenario.
type World struct {
	Bodies              []*actor.RigidBody
	Names               []string
	Gravity             mgl64.Vec3
	SolverIterations    int
	EnhancedDeterminism bool

	grid *SpatialGrid

	// LastContacts holds the contact constraints produced by the most
	// recent Step call, in deterministic broad-phase pair order.
	LastContacts []constraint.ContactConstraint
}

// NewWorld creates an empty world. cellSize should be on the order of the
// largest body extent for the spatial grid to prune effectively.
func NewWorld(gravity mgl64.Vec3, solverIterations int, cellSize float64) *World {
	if solverIterations < 1 {
		solverIterations = 1
	}
	return &World{
		Gravity:          gravity,
		SolverIterations: solverIterations,
		grid:             NewSpatialGrid(cellSize, 1024),
	}
}

// AddBody appends a body and returns its dense id (its index, starting at 0
// in insertion order). Ids are never reused or reordered.
func (w *World) AddBody(name string, body *actor.RigidBody) int {
	id := len(w.Bodies)
	w.Bodies = append(w.Bodies, body)
	w.Names = append(w.Names, name)
	return id
}

// Step advances the simulation by dt seconds: integration, broad phase,
// narrow phase, position solve (penetration), velocity update from the
// corrected positions, velocity solve (restitution and friction) and sleep
// bookkeeping. Called synchronously
// with no goroutines so the exact reduction order matches Bodies.
//
// A pair with no overlap (GJK finds a separating axis) is simply not a
// contact this step. A pair GJK reports as overlapping but EPA fails to
// resolve is a genuine solver failure: Step stops and returns the error
// opaquely, per the embedded solver's contract.
func (w *World) Step(dt float64) error {
	for _, body := range w.Bodies {
		body.Integrate(dt, w.Gravity)
	}

	w.grid.Build(w.Bodies)
	pairs := w.grid.FindPairs(w.Bodies)

	contacts := make([]constraint.ContactConstraint, 0, len(pairs))
	for _, pair := range pairs {
		a := w.Bodies[pair.BodyA]
		b := w.Bodies[pair.BodyB]

		simplex := &gjk.Simplex{}
		if !gjk.GJK(a, b, simplex) {
			continue
		}

		contact, err := epa.EPA(a, b, simplex)
		if err != nil {
			return fmt.Errorf("engine: resolving contact between bodies %d and %d: %w", pair.BodyA, pair.BodyB, err)
		}
		contacts = append(contacts, contact)
	}

	for i := 0; i < w.SolverIterations; i++ {
		for c := range contacts {
			contacts[c].SolvePosition(dt)
		}
	}
	for _, body := range w.Bodies {
		body.Update(dt)
	}

	for c := range contacts {
		contacts[c].SolveVelocity(dt)
	}

	for _, body := range w.Bodies {
		if body.BodyType == actor.BodyTypeDynamic {
			body.TrySleep(dt, sleepTimeThreshold, sleepVelocityThreshold)
		}
	}

	w.LastContacts = contacts
	return nil
}

// MaxPenetration returns the largest per-point penetration depth across the
// last step's contacts, or 0 if there were none.
func (w *World) MaxPenetration() float64 {
	var max float64
	for _, c := range w.LastContacts {
		for _, p := range c.Points {
			if p.Penetration > max {
				max = p.Penetration
			}
		}
	}
	return max
}

// TotalPenetration sums every contact point's penetration depth from the
// last step, in a fixed traversal order (contacts, then points).
func (w *World) TotalPenetration() float64 {
	var total float64
	for _, c := range w.LastContacts {
		for _, p := range c.Points {
			total += p.Penetration
		}
	}
	return total
}
