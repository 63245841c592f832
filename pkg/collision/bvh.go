package collision

import (
	"context"
	gomath "math"
	"sort"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// maxLeafTriangles is the split threshold for BVH nodes.
const maxLeafTriangles = 4

// BVHCooker is the default Cooker. It builds a TriMesh over the soup.
type BVHCooker struct{}

// Cook implements Cooker.
func (BVHCooker) Cook(ctx context.Context, soup *TriangleSoup) (Shape, error) {
	if soup == nil || soup.IsEmpty() {
		return nil, ErrEmptySoup
	}
	return BuildTriMesh(ctx, soup)
}

type bvhNode struct {
	bounds      math.Box3
	left, right int32 // child node indices, -1 for leaves
	first, last int32 // triangle range in TriMesh.order for leaves
}

// TriMesh is a cooked triangle mesh with a bounding volume hierarchy.
type TriMesh struct {
	vertices  []math.Vec3
	indices   []uint32
	materials []uint32
	convex    []ConvexHull
	simple    bool

	order []int32
	nodes []bvhNode
	box   math.Box3
}

// Hit describes a ray intersection.
type Hit struct {
	Triangle int
	Material uint32
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
}

// BuildTriMesh copies the soup and builds the hierarchy. It stops early
// with ctx.Err() if ctx is cancelled.
func BuildTriMesh(ctx context.Context, soup *TriangleSoup) (*TriMesh, error) {
	m := &TriMesh{
		vertices:  append([]math.Vec3(nil), soup.Vertices...),
		indices:   append([]uint32(nil), soup.Indices...),
		materials: append([]uint32(nil), soup.MaterialIndex...),
		convex:    append([]ConvexHull(nil), soup.Convex...),
		simple:    soup.UseComplexAsSimple,
		box:       soup.Bounds(),
	}

	n := len(m.indices) / 3
	if n == 0 {
		return m, nil
	}
	m.order = make([]int32, n)
	centroids := make([]math.Vec3, n)
	boxes := make([]math.Box3, n)
	for i := 0; i < n; i++ {
		m.order[i] = int32(i)
		a, b, c := m.triangle(i)
		boxes[i] = math.Box3{}.ExpandPoint(a).ExpandPoint(b).ExpandPoint(c)
		centroids[i] = a.Add(b).Add(c).Scale(1.0 / 3.0)
	}

	m.nodes = make([]bvhNode, 0, 2*n/maxLeafTriangles+1)
	if _, err := m.build(ctx, 0, int32(n), boxes, centroids); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *TriMesh) build(ctx context.Context, first, last int32, boxes []math.Box3, centroids []math.Vec3) (int32, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	var bounds, centerBox math.Box3
	for _, t := range m.order[first:last] {
		bounds = bounds.Union(boxes[t])
		centerBox = centerBox.ExpandPoint(centroids[t])
	}

	idx := int32(len(m.nodes))
	m.nodes = append(m.nodes, bvhNode{bounds: bounds, left: -1, right: -1, first: first, last: last})
	if last-first <= maxLeafTriangles {
		return idx, nil
	}

	size := centerBox.Size()
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > size.Axis(axis) {
		axis = 2
	}
	span := m.order[first:last]
	sort.Slice(span, func(i, j int) bool {
		return centroids[span[i]].Axis(axis) < centroids[span[j]].Axis(axis)
	})
	mid := first + (last-first)/2

	left, err := m.build(ctx, first, mid, boxes, centroids)
	if err != nil {
		return -1, err
	}
	right, err := m.build(ctx, mid, last, boxes, centroids)
	if err != nil {
		return -1, err
	}
	m.nodes[idx].left = left
	m.nodes[idx].right = right
	return idx, nil
}

func (m *TriMesh) triangle(i int) (a, b, c math.Vec3) {
	return m.vertices[m.indices[3*i]], m.vertices[m.indices[3*i+1]], m.vertices[m.indices[3*i+2]]
}

func (m *TriMesh) material(tri int) uint32 {
	if tri < len(m.materials) {
		return m.materials[tri]
	}
	return 0
}

// Bounds implements Shape.
func (m *TriMesh) Bounds() math.Box3 { return m.box }

// NumTriangles returns the triangle count.
func (m *TriMesh) NumTriangles() int { return len(m.indices) / 3 }

// ConvexHulls returns the simple-collision hulls cooked with the mesh.
func (m *TriMesh) ConvexHulls() []ConvexHull { return m.convex }

// UsesComplexAsSimple reports whether simple queries use the triangles.
func (m *TriMesh) UsesComplexAsSimple() bool { return m.simple }

// Raycast returns the closest triangle hit along origin + t*dir for
// t in [0, maxDist].
func (m *TriMesh) Raycast(origin, dir math.Vec3, maxDist float32) (Hit, bool) {
	best := Hit{Triangle: -1, Distance: maxDist}
	if len(m.nodes) == 0 {
		return best, false
	}

	inv := math.Vec3{X: safeInv(dir.X), Y: safeInv(dir.Y), Z: safeInv(dir.Z)}
	stack := []int32{0}
	for len(stack) > 0 {
		n := &m.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !rayBox(origin, inv, n.bounds, best.Distance) {
			continue
		}
		if n.left < 0 {
			for _, t := range m.order[n.first:n.last] {
				a, b, c := m.triangle(int(t))
				if d, ok := rayTriangle(origin, dir, a, b, c); ok && d <= best.Distance {
					best = Hit{
						Triangle: int(t),
						Material: m.material(int(t)),
						Distance: d,
						Point:    origin.Add(dir.Scale(d)),
						Normal:   b.Sub(a).Cross(c.Sub(a)).Normalize(),
					}
				}
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
	return best, best.Triangle >= 0
}

// Overlap returns the indices of triangles whose bounds intersect box.
func (m *TriMesh) Overlap(box math.Box3) []int {
	var out []int
	if len(m.nodes) == 0 {
		return out
	}
	stack := []int32{0}
	for len(stack) > 0 {
		n := &m.nodes[stack[len(stack)-1]]
		stack = stack[:len(stack)-1]
		if !n.bounds.Intersects(box) {
			continue
		}
		if n.left < 0 {
			for _, t := range m.order[n.first:n.last] {
				a, b, c := m.triangle(int(t))
				if (math.Box3{}).ExpandPoint(a).ExpandPoint(b).ExpandPoint(c).Intersects(box) {
					out = append(out, int(t))
				}
			}
			continue
		}
		stack = append(stack, n.left, n.right)
	}
	sort.Ints(out)
	return out
}

func safeInv(f float32) float32 {
	if f == 0 {
		return float32(gomath.Inf(1))
	}
	return 1 / f
}

// rayBox is the slab test.
func rayBox(origin, inv math.Vec3, b math.Box3, maxDist float32) bool {
	tmin, tmax := float32(0), maxDist
	for axis := 0; axis < 3; axis++ {
		o, d := origin.Axis(axis), inv.Axis(axis)
		t1 := (b.Min.Axis(axis) - o) * d
		t2 := (b.Max.Axis(axis) - o) * d
		if gomath.IsNaN(float64(t1)) || gomath.IsNaN(float64(t2)) {
			// Ray parallel to the slab and starting on its plane.
			continue
		}
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
		if tmin > tmax {
			return false
		}
	}
	return true
}

// rayTriangle is Möller–Trumbore, two-sided.
func rayTriangle(origin, dir, a, b, c math.Vec3) (float32, bool) {
	const epsilon = 1e-7
	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := dir.Cross(e2)
	det := e1.Dot(p)
	if det > -epsilon && det < epsilon {
		return 0, false
	}
	invDet := 1 / det
	s := origin.Sub(a)
	u := s.Dot(p) * invDet
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := dir.Dot(q) * invDet
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * invDet
	if t < 0 {
		return 0, false
	}
	return t, true
}
