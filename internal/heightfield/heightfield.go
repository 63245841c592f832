// Package heightfield builds a square grid of mesh sections and animates
// it with a travelling ripple. The viewer and the stress tool share it.
package heightfield

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/runtimemesh/internal/config"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// Ripple shape.
const (
	Amplitude  = 0.6
	WaveNumber = 1.2
	Speed      = 2.5
	Falloff    = 0.15
)

// Layout describes the grid.
type Layout struct {
	Sections   int // per side
	GridSize   int // quads per section side
	CellSize   float32
	DualBuffer bool
	Batch      bool
	Collision  bool
	Frequency  runtimemesh.UpdateFrequency
}

// LayoutFrom reads the layout from the loaded config.
func LayoutFrom(cfg *config.Config) Layout {
	return Layout{
		Sections:   cfg.Mesh.Sections,
		GridSize:   cfg.Mesh.GridSize,
		CellSize:   cfg.Mesh.CellSize,
		DualBuffer: cfg.Mesh.DualBuffer,
		Batch:      cfg.Mesh.Batch,
		Collision:  cfg.Collision.Enabled,
		Frequency:  cfg.Mesh.UpdateFrequency,
	}
}

// NumSections returns the total section count.
func (l Layout) NumSections() int { return l.Sections * l.Sections }

// VerticesPerSection returns the vertex count of one section.
func (l Layout) VerticesPerSection() int { return (l.GridSize + 1) * (l.GridSize + 1) }

// SectionIndex maps grid coordinates to a section index.
func (l Layout) SectionIndex(sx, sz int) int { return sz*l.Sections + sx }

// Field owns the sections it created on a mesh.
type Field struct {
	layout    Layout
	mesh      *runtimemesh.Mesh
	triangles []uint32
	origin    math.Vec3

	// scratch for single-buffer updates
	vertices []vertex.Generic
}

// New creates a field on mesh. Call Build to create the sections.
func New(mesh *runtimemesh.Mesh, layout Layout) *Field {
	half := float32(layout.Sections*layout.GridSize) * layout.CellSize / 2
	return &Field{
		layout:    layout,
		mesh:      mesh,
		triangles: Triangles(layout.GridSize),
		origin:    math.Vec3{X: -half, Z: -half},
	}
}

// Layout returns the field layout.
func (f *Field) Layout() Layout { return f.layout }

// Triangles returns the index buffer of an n by n quad grid.
func Triangles(n int) []uint32 {
	row := uint32(n + 1)
	tris := make([]uint32, 0, n*n*6)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			i := uint32(z)*row + uint32(x)
			tris = append(tris, i, i+row, i+1, i+1, i+row, i+row+1)
		}
	}
	return tris
}

// Height returns the ripple height at world (x, z) and time t.
func Height(x, z float32, t float64) float32 {
	r := math32.Sqrt(x*x + z*z)
	phase := WaveNumber*r - float32(Speed*t)
	return Amplitude * math32.Sin(phase) / (1 + Falloff*r)
}

// Normal returns the surface normal at (x, z) by central differences.
func Normal(x, z float32, t float64) math.Vec3 {
	const e = 0.05
	dx := Height(x+e, z, t) - Height(x-e, z, t)
	dz := Height(x, z+e, t) - Height(x, z-e, t)
	return math.Vec3{X: -dx, Y: 2 * e, Z: -dz}.Normalize()
}

// sectionOrigin returns the world position of vertex (0, 0) of a section.
func (f *Field) sectionOrigin(sx, sz int) math.Vec3 {
	span := float32(f.layout.GridSize) * f.layout.CellSize
	return f.origin.Add(math.Vec3{X: float32(sx) * span, Z: float32(sz) * span})
}

// fill writes the positions of section (sx, sz) at time t and returns
// their bounds.
func (f *Field) fill(dst []math.Vec3, sx, sz int, t float64) math.Box3 {
	n := f.layout.GridSize
	o := f.sectionOrigin(sx, sz)
	var box math.Box3
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			px := o.X + float32(x)*f.layout.CellSize
			pz := o.Z + float32(z)*f.layout.CellSize
			p := math.Vec3{X: px, Y: Height(px, pz, t), Z: pz}
			dst[z*(n+1)+x] = p
			box = box.ExpandPoint(p)
		}
	}
	return box
}

func (f *Field) attributes(sx, sz int, t float64) []vertex.Attributes {
	n := f.layout.GridSize
	o := f.sectionOrigin(sx, sz)
	attrs := make([]vertex.Attributes, 0, f.layout.VerticesPerSection())
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			px := o.X + float32(x)*f.layout.CellSize
			pz := o.Z + float32(z)*f.layout.CellSize
			attrs = append(attrs, vertex.Attributes{
				Normal:  Normal(px, pz, t),
				Tangent: vertex.DefaultTangent,
				Color:   tint(sx, sz),
				UV0:     math.Vec2{X: float32(x) / float32(n), Y: float32(z) / float32(n)},
			})
		}
	}
	return attrs
}

func (f *Field) generic(sx, sz int, t float64, dst []vertex.Generic) []vertex.Generic {
	attrs := f.attributes(sx, sz, t)
	positions := make([]math.Vec3, len(attrs))
	f.fill(positions, sx, sz, t)
	dst = dst[:0]
	for i, a := range attrs {
		dst = append(dst, vertex.Generic{
			Position: positions[i],
			Normal:   a.Normal,
			Tangent:  a.Tangent,
			Color:    a.Color,
			UV0:      a.UV0,
		})
	}
	return dst
}

// tint gives neighbouring sections alternating colors.
func tint(sx, sz int) vertex.RGBA8 {
	if (sx+sz)%2 == 0 {
		return vertex.RGBA8{R: 90, G: 160, B: 210, A: 255}
	}
	return vertex.RGBA8{R: 70, G: 130, B: 190, A: 255}
}

// Build creates every section at time t.
func (f *Field) Build(t float64) {
	l := f.layout
	opts := runtimemesh.SectionOptions{
		CreateCollision: l.Collision,
		UpdateFrequency: l.Frequency,
	}

	f.mesh.BeginBatchUpdates()
	defer f.mesh.EndBatchUpdates()

	for sz := 0; sz < l.Sections; sz++ {
		for sx := 0; sx < l.Sections; sx++ {
			idx := l.SectionIndex(sx, sz)
			if l.DualBuffer {
				positions := make([]math.Vec3, l.VerticesPerSection())
				box := f.fill(positions, sx, sz, t)
				opts.Bounds = &box
				opts.Flags = runtimemesh.MoveArrays
				runtimemesh.CreateSectionDualBuffer(f.mesh, idx, positions, f.attributes(sx, sz, t), f.triangles, opts)
				continue
			}
			opts.Bounds = nil
			opts.Flags = 0
			runtimemesh.CreateSection(f.mesh, idx, f.generic(sx, sz, t, nil), f.triangles, opts)
		}
	}
}

// Animate moves every section to time t.
func (f *Field) Animate(t float64) {
	all := make([]int, 0, f.layout.NumSections())
	for i := 0; i < f.layout.NumSections(); i++ {
		all = append(all, i)
	}
	f.Update(all, t)
}

// Update moves the given sections to time t. With batching enabled the
// renderer sees one notification per section and the bounds are merged
// once.
func (f *Field) Update(indices []int, t float64) {
	if f.layout.Batch {
		f.mesh.BeginBatchUpdates()
		defer f.mesh.EndBatchUpdates()
	}
	for _, idx := range indices {
		f.updateSection(idx, t)
	}
}

func (f *Field) updateSection(idx int, t float64) {
	sx, sz := idx%f.layout.Sections, idx/f.layout.Sections
	if f.layout.DualBuffer {
		positions := f.mesh.BeginSectionPositionUpdate(idx)
		box := f.fill(positions, sx, sz, t)
		f.mesh.EndSectionPositionUpdate(idx, &box)
		return
	}
	f.vertices = f.generic(sx, sz, t, f.vertices)
	runtimemesh.UpdateSection(f.mesh, idx, f.vertices, nil, runtimemesh.UpdateOptions{})
}
