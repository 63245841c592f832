// Package picking turns screen positions into rays and finds the mesh
// section under the cursor.
package picking

import (
	gomath "math"

	"github.com/Faultbox/runtimemesh/pkg/collision"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

// MaxDistance bounds every pick ray.
const MaxDistance = 1e4

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // normalized
}

// ScreenToRay converts pixel coordinates to a world-space ray.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // flip Y

	near := unproject(invViewProj, math.Vec4{ndcX, ndcY, -1, 1})
	far := unproject(invViewProj, math.Vec4{ndcX, ndcY, 1, 1})
	return Ray{Origin: near, Direction: far.Sub(near).Normalize()}
}

func unproject(inv math.Mat4, p math.Vec4) math.Vec3 {
	w := inv.MulVec4(p)
	if w[3] != 0 {
		w[0] /= w[3]
		w[1] /= w[3]
		w[2] /= w[3]
	}
	return math.Vec3{X: w[0], Y: w[1], Z: w[2]}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// IntersectBox tests the ray against an axis-aligned box with the slab
// method. If the ray starts inside the box the exit distance is returned.
func (r Ray) IntersectBox(box math.Box3) (t float32, hit bool) {
	if !box.IsValid() {
		return 0, false
	}
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o, d := r.Origin.Axis(axis), r.Direction.Axis(axis)
		lo, hi := box.Min.Axis(axis), box.Max.Axis(axis)
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}
		t1, t2 := (lo-o)/d, (hi-o)/d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Result is a picked section.
type Result struct {
	Section  int
	Distance float32
	Point    math.Vec3
	Exact    bool // hit a cooked triangle rather than a section box
}

// PickSection returns the section under the ray. It queries the cooked
// collision triangles when the mesh has them and falls back to section
// bounds otherwise.
func PickSection(mesh *runtimemesh.Mesh, ray Ray) (Result, bool) {
	if tm, ok := mesh.CollisionShape().(*collision.TriMesh); ok {
		if hit, ok := tm.Raycast(ray.Origin, ray.Direction, MaxDistance); ok {
			if idx, ok := runtimemesh.SectionFromMaterial(hit.Material); ok && mesh.SectionExists(idx) {
				return Result{Section: idx, Distance: hit.Distance, Point: hit.Point, Exact: true}, true
			}
		}
	}

	best := Result{Section: -1, Distance: MaxDistance}
	for i := 0; i < mesh.NumSections(); i++ {
		if !mesh.SectionExists(i) {
			continue
		}
		if t, ok := ray.IntersectBox(mesh.SectionBounds(i)); ok && t < best.Distance {
			best = Result{Section: i, Distance: t, Point: ray.At(t)}
		}
	}
	return best, best.Section >= 0
}
