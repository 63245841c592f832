// Package debug provides debug visualization utilities.
package debug

import "github.com/Faultbox/runtimemesh/pkg/math"

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// GenerateBBoxWireframeVertices creates line vertices for a wireframe bounding box.
// Returns 24 vertices (12 edges × 2 endpoints), format: [x, y, z] per vertex.
func GenerateBBoxWireframeVertices(minX, minY, minZ, maxX, maxY, maxZ float32) []float32 {
	return []float32{
		// Bottom face (4 edges)
		minX, minY, minZ, maxX, minY, minZ,
		maxX, minY, minZ, maxX, minY, maxZ,
		maxX, minY, maxZ, minX, minY, maxZ,
		minX, minY, maxZ, minX, minY, minZ,
		// Top face (4 edges)
		minX, maxY, minZ, maxX, maxY, minZ,
		maxX, maxY, minZ, maxX, maxY, maxZ,
		maxX, maxY, maxZ, minX, maxY, maxZ,
		minX, maxY, maxZ, minX, maxY, minZ,
		// Vertical edges (4 edges)
		minX, minY, minZ, minX, maxY, minZ,
		maxX, minY, minZ, maxX, maxY, minZ,
		maxX, minY, maxZ, maxX, maxY, maxZ,
		minX, minY, maxZ, minX, maxY, maxZ,
	}
}

// BoxLines returns the wireframe of b grown by padding on every side.
// Invalid boxes produce no lines.
func BoxLines(b math.Box3, padding float32) []float32 {
	if !b.IsValid() {
		return nil
	}
	pad := math.Vec3{X: padding, Y: padding, Z: padding}
	lo, hi := b.Min.Sub(pad), b.Max.Add(pad)
	return GenerateBBoxWireframeVertices(lo.X, lo.Y, lo.Z, hi.X, hi.Y, hi.Z)
}

// BoxesLines concatenates the wireframes of all valid boxes.
func BoxesLines(boxes []math.Box3, padding float32) []float32 {
	out := make([]float32, 0, len(boxes)*BBoxWireframeVertexCount*3)
	for _, b := range boxes {
		out = append(out, BoxLines(b, padding)...)
	}
	return out
}
