// Package collision defines the contract between mesh owners and the
// collision cooker, plus a default cooker that builds a queryable
// triangle BVH and a worker for cooking off the owner thread.
package collision

import (
	"github.com/Faultbox/runtimemesh/pkg/math"
)

// ConvexHull is one simple-collision element given by its points.
type ConvexHull struct {
	Points []math.Vec3
}

// TriangleSoup is the raw geometry handed to a cooker. Indices refer to
// Vertices and come in triples; MaterialIndex records the source section
// of each triangle.
type TriangleSoup struct {
	Vertices      []math.Vec3
	Indices       []uint32
	MaterialIndex []uint32
	Convex        []ConvexHull

	// UseComplexAsSimple asks the cooker to answer simple queries with the
	// triangle mesh instead of the convex hulls.
	UseComplexAsSimple bool
}

// NumTriangles returns the number of triangles in the soup.
func (s *TriangleSoup) NumTriangles() int {
	return len(s.Indices) / 3
}

// IsEmpty reports whether the soup carries no geometry at all.
func (s *TriangleSoup) IsEmpty() bool {
	return len(s.Indices) == 0 && len(s.Convex) == 0
}

// AppendMesh adds a triangle list, rebasing indices onto the soup's
// vertex array. Triangles referencing vertices out of range are dropped.
func (s *TriangleSoup) AppendMesh(positions []math.Vec3, indices []uint32, material uint32) int {
	base := uint32(len(s.Vertices))
	count := uint32(len(positions))
	s.Vertices = append(s.Vertices, positions...)

	added := 0
	for i := 0; i+2 < len(indices); i += 3 {
		a, b, c := indices[i], indices[i+1], indices[i+2]
		if a >= count || b >= count || c >= count {
			continue
		}
		s.Indices = append(s.Indices, base+a, base+b, base+c)
		s.MaterialIndex = append(s.MaterialIndex, material)
		added++
	}
	return added
}

// Bounds returns the box around all soup vertices and hull points.
func (s *TriangleSoup) Bounds() math.Box3 {
	b := math.BoxFromPoints(s.Vertices)
	for _, h := range s.Convex {
		b = b.Union(math.BoxFromPoints(h.Points))
	}
	return b
}
