// Package vecmath provides the JSON-friendly vector and transform types used
// at the boundary between the physics engine (mgl64-based) and the
// specification/report data model. Values round-trip through YAML/JSON as
// plain arrays: a Vec3 as [x,y,z], a Quat as [x,y,z,w].
package vecmath

import (
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector that marshals as a JSON/YAML array [x, y, z].
type Vec3 struct {
	X, Y, Z float64
}

// Quat is a quaternion that marshals as a JSON/YAML array [x, y, z, w].
type Quat struct {
	X, Y, Z, W float64
}

// Transform is a rigid transform: a position and orientation.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// FromMgl converts an mgl64.Vec3 into a Vec3.
func FromMgl(v mgl64.Vec3) Vec3 {
	return Vec3{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// Mgl converts the Vec3 back into an mgl64.Vec3.
func (v Vec3) Mgl() mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

// QuatFromMgl converts an mgl64.Quat into a Quat.
func QuatFromMgl(q mgl64.Quat) Quat {
	return Quat{X: q.V.X(), Y: q.V.Y(), Z: q.V.Z(), W: q.W}
}

// Mgl converts the Quat back into an mgl64.Quat.
func (q Quat) Mgl() mgl64.Quat {
	return mgl64.Quat{V: mgl64.Vec3{q.X, q.Y, q.Z}, W: q.W}
}

func (v Vec3) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{v.X, v.Y, v.Z})
}

func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr [3]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("vecmath: decoding Vec3: %w", err)
	}
	v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
	return nil
}

func (q Quat) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{q.X, q.Y, q.Z, q.W})
}

func (q *Quat) UnmarshalJSON(data []byte) error {
	var arr [4]float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return fmt.Errorf("vecmath: decoding Quat: %w", err)
	}
	q.X, q.Y, q.Z, q.W = arr[0], arr[1], arr[2], arr[3]
	return nil
}

// UnmarshalYAML implements yaml.v3's Unmarshaler via a generic sequence decode,
// keeping the wire format identical between JSON reports and YAML specs.
func (v *Vec3) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var arr [3]float64
	if err := unmarshal(&arr); err != nil {
		return fmt.Errorf("vecmath: decoding Vec3 from YAML: %w", err)
	}
	v.X, v.Y, v.Z = arr[0], arr[1], arr[2]
	return nil
}

func (q *Quat) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var arr [4]float64
	if err := unmarshal(&arr); err != nil {
		return fmt.Errorf("vecmath: decoding Quat from YAML: %w", err)
	}
	q.X, q.Y, q.Z, q.W = arr[0], arr[1], arr[2], arr[3]
	return nil
}

func (v Vec3) MarshalYAML() (interface{}, error) {
	return [3]float64{v.X, v.Y, v.Z}, nil
}

func (q Quat) MarshalYAML() (interface{}, error) {
	return [4]float64{q.X, q.Y, q.Z, q.W}, nil
}

// Len returns the Euclidean length of the vector.
func (v Vec3) Len() float64 {
	return v.Mgl().Len()
}

// IdentityQuat returns the identity rotation.
func IdentityQuat() Quat {
	return QuatFromMgl(mgl64.QuatIdent())
}
