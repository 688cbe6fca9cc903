package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeCapsule
	ShapeTypeCylinder
)

// ShapeInterface is the interface that all collision shapes must implement
type ShapeInterface interface {
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform)
	GetAABB() AABB
	// ComputeMass calculates mass data for the shape given a density
	ComputeMass(density float64) float64
	ComputeInertia(mass float64) mgl64.Mat3
	Support(direction mgl64.Vec3) mgl64.Vec3
	GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
	aabb        AABB
}

func (b *Box) ComputeAABB(transform Transform) {
	// Les 8 coins de la boîte en espace local
	corners := [8]mgl64.Vec3{
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), -b.HalfExtents.Z()},
		{-b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), -b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{-b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
		{+b.HalfExtents.X(), +b.HalfExtents.Y(), +b.HalfExtents.Z()},
	}

	// Transformer le premier coin pour initialiser min/max
	worldCorner := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min := worldCorner
	max := worldCorner

	// Transformer tous les autres coins et étendre l'AABB
	for i := 1; i < 8; i++ {
		worldCorner = transform.Rotation.Rotate(corners[i]).Add(transform.Position)

		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])

		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	b.aabb = AABB{Min: min, Max: max}
}

func (b *Box) GetAABB() AABB {
	return b.aabb
}

// ComputeMass calculates mass data for the box
func (b *Box) ComputeMass(density float64) float64 {
	// Volume = 8 * hx * hy * hz (full dimensions are 2*halfExtents)
	volume := 8.0 * b.HalfExtents.X() * b.HalfExtents.Y() * b.HalfExtents.Z()

	return density * volume
}

func (b *Box) ComputeInertia(mass float64) mgl64.Mat3 {
	// Dimensions complètes
	x := b.HalfExtents.X() * 2
	y := b.HalfExtents.Y() * 2
	z := b.HalfExtents.Z() * 2

	// Formule pour une boîte : I = (m/12) * (dimension1² + dimension2²)
	factor := mass / 12.0
	ix := factor * (y*y + z*z)
	iy := factor * (x*x + z*z)
	iz := factor * (x*x + y*y)

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

func (b *Box) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	dir := direction.Normalize()

	// Trouver la face la plus parallèle à la direction
	// (celle dont la normale pointe le plus dans la direction)
	bestDot := -math.MaxFloat64
	var bestFace []mgl64.Vec3

	hx := b.HalfExtents.X()
	hy := b.HalfExtents.Y()
	hz := b.HalfExtents.Z()

	// Les 6 faces avec leurs vertices (ordre CCW vu de l'extérieur)
	faces := []struct {
		normal   mgl64.Vec3
		vertices []mgl64.Vec3
	}{
		// +X face
		{
			normal: mgl64.Vec3{1, 0, 0},
			vertices: []mgl64.Vec3{
				{hx, -hy, -hz},
				{hx, -hy, hz},
				{hx, hy, hz},
				{hx, hy, -hz},
			},
		},
		// -X face
		{
			normal: mgl64.Vec3{-1, 0, 0},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{-hx, -hy, -hz},
				{-hx, hy, -hz},
				{-hx, hy, hz},
			},
		},
		// +Y face
		{
			normal: mgl64.Vec3{0, 1, 0},
			vertices: []mgl64.Vec3{
				{-hx, hy, -hz},
				{-hx, hy, hz},
				{hx, hy, hz},
				{hx, hy, -hz},
			},
		},
		// -Y face
		{
			normal: mgl64.Vec3{0, -1, 0},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{hx, -hy, hz},
				{hx, -hy, -hz},
				{-hx, -hy, -hz},
			},
		},
		// +Z face
		{
			normal: mgl64.Vec3{0, 0, 1},
			vertices: []mgl64.Vec3{
				{-hx, -hy, hz},
				{-hx, hy, hz},
				{hx, hy, hz},
				{hx, -hy, hz},
			},
		},
		// -Z face
		{
			normal: mgl64.Vec3{0, 0, -1},
			vertices: []mgl64.Vec3{
				{hx, -hy, -hz},
				{hx, hy, -hz},
				{-hx, hy, -hz},
				{-hx, -hy, -hz},
			},
		},
	}

	// Trouver la meilleure face
	for _, face := range faces {
		dot := dir.Dot(face.normal)
		if dot > bestDot {
			bestDot = dot
			bestFace = face.vertices
		}
	}

	return bestFace
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
	aabb   AABB
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	s.aabb = AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) GetAABB() AABB {
	return s.aabb
}

// ComputeMass calculates mass data for the sphere
func (s *Sphere) ComputeMass(density float64) float64 {
	// Volume of sphere = (4/3) * π * r³
	volume := (4.0 / 3.0) * math.Pi * math.Pow(s.Radius, 3)

	return density * volume
}

func (s *Sphere) ComputeInertia(mass float64) mgl64.Mat3 {
	// Pour une sphère : I = (2/5) * m * r²
	i := (2.0 / 5.0) * mass * s.Radius * s.Radius

	// Une sphère a la même inertie sur tous les axes
	return mgl64.Mat3{
		i, 0, 0,
		0, i, 0,
		0, 0, i,
	}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	return direction.Normalize().Mul(s.Radius)
}

func (s *Sphere) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{s.Support(direction)}
}

// Capsule represents a capsule collision shape: a cylinder of the given
// half-height capped by two hemispheres of the given radius, aligned with
// the local Y axis.
type Capsule struct {
	Radius     float64
	HalfHeight float64
	aabb       AABB
}

func (c *Capsule) ComputeAABB(transform Transform) {
	// Conservative AABB: the rotated half-axis (halfHeight+radius), taken per
	// axis in absolute value, widened by radius on every axis.
	extent := c.HalfHeight + c.Radius
	segment := transform.Rotation.Rotate(mgl64.Vec3{0, extent, 0})

	corner := mgl64.Vec3{math.Abs(segment.X()), math.Abs(segment.Y()), math.Abs(segment.Z())}
	radiusVec := mgl64.Vec3{c.Radius, c.Radius, c.Radius}
	half := corner.Add(radiusVec)

	c.aabb = AABB{
		Min: transform.Position.Sub(half),
		Max: transform.Position.Add(half),
	}
}

func (c *Capsule) GetAABB() AABB {
	return c.aabb
}

func (c *Capsule) ComputeMass(density float64) float64 {
	cylinderVolume := math.Pi * c.Radius * c.Radius * (2 * c.HalfHeight)
	sphereVolume := (4.0 / 3.0) * math.Pi * math.Pow(c.Radius, 3)
	return density * (cylinderVolume + sphereVolume)
}

func (c *Capsule) ComputeInertia(mass float64) mgl64.Mat3 {
	r := c.Radius
	h := 2 * c.HalfHeight

	cylinderVolume := math.Pi * r * r * h
	sphereVolume := (4.0 / 3.0) * math.Pi * r * r * r
	totalVolume := cylinderVolume + sphereVolume
	if totalVolume < 1e-12 {
		return mgl64.Mat3{}
	}

	cylinderMass := mass * cylinderVolume / totalVolume
	sphereMass := mass * sphereVolume / totalVolume

	// Cylinder about its own axis (Y) and transverse axes.
	iyCyl := cylinderMass * r * r / 2.0
	ixCyl := cylinderMass * (3*r*r+h*h) / 12.0

	// Two hemispheres treated as a sphere offset by halfHeight (parallel axis theorem).
	iySphere := sphereMass * 2.0 * r * r / 5.0
	ixSphere := iySphere + sphereMass*c.HalfHeight*c.HalfHeight

	ix := ixCyl + ixSphere
	iy := iyCyl + iySphere
	iz := ix

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (c *Capsule) Support(direction mgl64.Vec3) mgl64.Vec3 {
	dir := direction
	if dir.LenSqr() < 1e-16 {
		dir = mgl64.Vec3{0, 1, 0}
	} else {
		dir = dir.Normalize()
	}

	center := mgl64.Vec3{0, c.HalfHeight, 0}
	if dir.Y() < 0 {
		center = mgl64.Vec3{0, -c.HalfHeight, 0}
	}

	return center.Add(dir.Mul(c.Radius))
}

func (c *Capsule) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	return []mgl64.Vec3{c.Support(direction)}
}

// Cylinder represents a right circular cylinder aligned with the local Y axis.
type Cylinder struct {
	Radius     float64
	HalfHeight float64
	aabb       AABB
}

func (c *Cylinder) ComputeAABB(transform Transform) {
	corners := make([]mgl64.Vec3, 0, 8)
	for _, y := range []float64{-c.HalfHeight, c.HalfHeight} {
		for _, sx := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corners = append(corners, mgl64.Vec3{sx * c.Radius, y, sz * c.Radius})
			}
		}
	}

	worldCorner := transform.Rotation.Rotate(corners[0]).Add(transform.Position)
	min := worldCorner
	max := worldCorner
	for i := 1; i < len(corners); i++ {
		worldCorner = transform.Rotation.Rotate(corners[i]).Add(transform.Position)
		min[0] = math.Min(min[0], worldCorner[0])
		min[1] = math.Min(min[1], worldCorner[1])
		min[2] = math.Min(min[2], worldCorner[2])
		max[0] = math.Max(max[0], worldCorner[0])
		max[1] = math.Max(max[1], worldCorner[1])
		max[2] = math.Max(max[2], worldCorner[2])
	}

	c.aabb = AABB{Min: min, Max: max}
}

func (c *Cylinder) GetAABB() AABB {
	return c.aabb
}

func (c *Cylinder) ComputeMass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius * (2 * c.HalfHeight)
}

func (c *Cylinder) ComputeInertia(mass float64) mgl64.Mat3 {
	r := c.Radius
	h := 2 * c.HalfHeight

	iy := mass * r * r / 2.0
	ix := mass * (3*r*r+h*h) / 12.0
	iz := ix

	return mgl64.Mat3{
		ix, 0, 0,
		0, iy, 0,
		0, 0, iz,
	}
}

func (c *Cylinder) Support(direction mgl64.Vec3) mgl64.Vec3 {
	y := c.HalfHeight
	if direction.Y() < 0 {
		y = -c.HalfHeight
	}

	radial := mgl64.Vec3{direction.X(), 0, direction.Z()}
	if radial.LenSqr() < 1e-16 {
		return mgl64.Vec3{0, y, 0}
	}
	radial = radial.Normalize().Mul(c.Radius)

	return mgl64.Vec3{radial.X(), y, radial.Z()}
}

func (c *Cylinder) GetContactFeature(direction mgl64.Vec3) []mgl64.Vec3 {
	dir := mgl64.Vec3{0, 1, 0}
	if direction.LenSqr() > 1e-16 {
		dir = direction.Normalize()
	}

	// End cap face if the direction is mostly axial, otherwise a single support point.
	if math.Abs(dir.Y()) > 0.7 {
		y := c.HalfHeight
		if dir.Y() < 0 {
			y = -c.HalfHeight
		}
		const segments = 4
		points := make([]mgl64.Vec3, 0, segments)
		for i := 0; i < segments; i++ {
			angle := 2 * math.Pi * float64(i) / float64(segments)
			points = append(points, mgl64.Vec3{c.Radius * math.Cos(angle), y, c.Radius * math.Sin(angle)})
		}
		return points
	}

	return []mgl64.Vec3{c.Support(dir)}
}

// Helper to generate the tangent basis
func getTangentBasis(normal mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	var tangent1 mgl64.Vec3
	if math.Abs(normal.X()) > 0.9 {
		tangent1 = mgl64.Vec3{0, 1, 0}
	} else {
		tangent1 = mgl64.Vec3{1, 0, 0}
	}

	tangent1 = tangent1.Sub(normal.Mul(tangent1.Dot(normal))).Normalize()
	tangent2 := normal.Cross(tangent1).Normalize()

	return tangent1, tangent2
}
