package runtimemesh

import (
	"slices"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// Section is one drawable and collidable piece of a Mesh. Sections of any
// vertex layout are stored behind this interface; use SectionVertices to
// get typed data back.
//
// Slices returned by a Section alias its storage and must be treated as
// read-only.
type Section interface {
	Descriptor() vertex.Descriptor
	IsDualBuffer() bool
	IsLegacyType() bool
	VertexCount() int
	Indices() []uint32
	Positions() []math.Vec3
	Bounds() math.Box3
	IsVisible() bool
	CastsShadow() bool
	IsCollisionEnabled() bool
	UpdateFrequency() UpdateFrequency
	VertexBytes() []byte

	state() *sectionState
}

// sectionState is the layout-independent part of a section.
type sectionState struct {
	dual      bool
	legacy    bool
	positions []math.Vec3
	indices   []uint32
	bounds    math.Box3

	visible     bool
	castsShadow bool
	collision   bool
	frequency   UpdateFrequency
}

func (s *sectionState) state() *sectionState { return s }

// IsDualBuffer reports whether positions live in their own buffer.
func (s *sectionState) IsDualBuffer() bool { return s.dual }

// IsLegacyType reports whether the section came from the simple path.
func (s *sectionState) IsLegacyType() bool { return s.legacy }

// Indices returns the triangle list.
func (s *sectionState) Indices() []uint32 { return s.indices }

// Bounds returns the cached local box of the section.
func (s *sectionState) Bounds() math.Box3 { return s.bounds }

// IsVisible reports whether the section is drawn.
func (s *sectionState) IsVisible() bool { return s.visible }

// CastsShadow reports whether the section casts shadows.
func (s *sectionState) CastsShadow() bool { return s.castsShadow }

// IsCollisionEnabled reports whether the section feeds the collision cook.
func (s *sectionState) IsCollisionEnabled() bool { return s.collision }

// UpdateFrequency returns the buffer allocation hint.
func (s *sectionState) UpdateFrequency() UpdateFrequency { return s.frequency }

// UpdateVertexPositionBuffer replaces the position buffer of a dual-buffer
// section and reports whether the bounds changed. A nil bounds rescans
// the new positions.
func (s *sectionState) UpdateVertexPositionBuffer(positions []math.Vec3, bounds *math.Box3, move bool) bool {
	check(s.dual, "UpdateVertexPositionBuffer", "section is not dual-buffer")
	if move {
		s.positions = positions
	} else {
		s.positions = slices.Clone(positions)
	}

	if bounds != nil {
		return s.setBounds(*bounds)
	}
	return s.setBounds(math.BoxFromPoints(s.positions))
}

// UpdateIndexBuffer replaces the triangle list. Index range is not checked.
func (s *sectionState) UpdateIndexBuffer(triangles []uint32, move bool) {
	if move {
		s.indices = triangles
	} else {
		s.indices = slices.Clone(triangles)
	}
}

func (s *sectionState) setBounds(b math.Box3) bool {
	if b == s.bounds {
		return false
	}
	s.bounds = b
	return true
}

// TypedSection stores vertices of one concrete layout.
type TypedSection[V vertex.Type] struct {
	sectionState
	vertices []V
}

func newTypedSection[V vertex.Type](dual bool, frequency UpdateFrequency) *TypedSection[V] {
	return &TypedSection[V]{
		sectionState: sectionState{
			dual:        dual,
			visible:     true,
			castsShadow: true,
			frequency:   frequency,
		},
	}
}

// Descriptor returns the layout chosen at creation.
func (s *TypedSection[V]) Descriptor() vertex.Descriptor {
	return vertex.DescriptorOf[V]()
}

// Vertices returns the vertex buffer (attributes only when dual-buffer).
func (s *TypedSection[V]) Vertices() []V { return s.vertices }

// VertexCount returns the number of vertices in the vertex buffer.
func (s *TypedSection[V]) VertexCount() int { return len(s.vertices) }

// VertexBytes returns a copy of the raw vertex buffer.
func (s *TypedSection[V]) VertexBytes() []byte { return vertex.Bytes(s.vertices) }

// Positions returns the position buffer of a dual-buffer section, or the
// positions extracted from the vertices otherwise. It is nil when the
// layout carries no position.
func (s *TypedSection[V]) Positions() []math.Vec3 {
	if s.dual {
		return s.positions
	}
	return vertex.Positions(s.vertices)
}

// UpdateVertexBuffer replaces the vertex buffer and reports whether the
// bounds changed. An explicit box is trusted as given. Otherwise a
// single-buffer section with positions is rescanned and any other
// section keeps its bounds.
func (s *TypedSection[V]) UpdateVertexBuffer(data []V, bounds *math.Box3, move bool) bool {
	if move {
		s.vertices = data
	} else {
		s.vertices = slices.Clone(data)
	}

	switch {
	case bounds != nil:
		return s.setBounds(*bounds)
	case !s.dual && s.Descriptor().HasPosition():
		return s.setBounds(vertex.Bounds(s.vertices))
	default:
		return false
	}
}

// geometryFlags returns the change flags a vertex buffer write implies.
func (s *TypedSection[V]) geometryFlags() ChangeFlags {
	if !s.dual && s.Descriptor().HasPosition() {
		return ChangedVertices | ChangedPositions
	}
	return ChangedVertices
}
