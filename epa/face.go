package epa

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Face is a triangular facet of the expanding polytope.
type Face struct {
	Points   [3]mgl64.Vec3 // Triangle vertices
	Normal   mgl64.Vec3    // Outward-pointing normal
	Distance float64       // Distance from origin to the face plane
}

// compareVec3 orders two points lexicographically (x, then y, then z).
// Used by PolytopeBuilder to deduplicate points and normalize edges.
func compareVec3(a, b mgl64.Vec3) int {
	if a[0] != b[0] {
		if a[0] < b[0] {
			return -1
		}
		return 1
	}
	if a[1] != b[1] {
		if a[1] < b[1] {
			return -1
		}
		return 1
	}
	if a[2] != b[2] {
		if a[2] < b[2] {
			return -1
		}
		return 1
	}
	return 0
}
