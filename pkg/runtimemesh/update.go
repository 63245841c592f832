package runtimemesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// SectionOptions configure a section create.
type SectionOptions struct {
	// Bounds, when set, is used instead of scanning the positions.
	Bounds *math.Box3

	CreateCollision bool
	UpdateFrequency UpdateFrequency
	Flags           UpdateFlags
}

// UpdateOptions configure a section update.
type UpdateOptions struct {
	// Bounds, when set, is trusted as the section's new box.
	Bounds *math.Box3
	Flags  UpdateFlags
}

// CreateSection creates a single-buffer section at index, replacing any
// section already there.
func CreateSection[V vertex.Type](m *Mesh, index int, vertices []V, triangles []uint32, opts SectionOptions) {
	const op = "CreateSection"
	checkCreate(op, index, len(vertices), triangles, opts.Bounds)

	m.installSection(index, buildSection(vertices, triangles, opts))
}

func buildSection[V vertex.Type](vertices []V, triangles []uint32, opts SectionOptions) *TypedSection[V] {
	s := newTypedSection[V](false, opts.UpdateFrequency)
	move := opts.Flags.Has(MoveArrays)
	s.UpdateVertexBuffer(vertices, opts.Bounds, move)
	s.UpdateIndexBuffer(triangles, move)
	s.collision = opts.CreateCollision
	return s
}

// CreateSectionDualBuffer creates a section whose positions are stored
// apart from the other attributes.
func CreateSectionDualBuffer[V vertex.Type](m *Mesh, index int, positions []math.Vec3, vertices []V, triangles []uint32, opts SectionOptions) {
	const op = "CreateSectionDualBuffer"
	checkCreate(op, index, len(positions), triangles, opts.Bounds)
	checkf(len(vertices) == len(positions), op, "%d attribute vertices for %d positions", len(vertices), len(positions))

	s := newTypedSection[V](true, opts.UpdateFrequency)
	move := opts.Flags.Has(MoveArrays)
	s.UpdateVertexPositionBuffer(positions, opts.Bounds, move)
	s.UpdateVertexBuffer(vertices, opts.Bounds, move)
	s.UpdateIndexBuffer(triangles, move)
	s.collision = opts.CreateCollision

	m.installSection(index, s)
}

func checkCreate(op string, index, vertexCount int, triangles []uint32, bounds *math.Box3) {
	checkf(index >= 0, op, "negative section index %d", index)
	checkf(uint64(index) < uint64(CollisionOnlyMaterial), op, "section index %d out of range", index)
	check(vertexCount > 0, op, "no vertices")
	check(len(triangles) > 0, op, "no triangles")
	checkf(len(triangles)%3 == 0, op, "triangle list length %d is not a multiple of 3", len(triangles))
	check(bounds == nil || bounds.IsValid(), op, "invalid bounding box")
}

func (m *Mesh) installSection(index int, s Section) {
	prev := m.sections.set(index, s)
	m.finalizeCreate(index, prev)
}

// UpdateSection replaces the vertex buffer and, when triangles is non-nil,
// the triangle list of the section at index. On a dual-buffer section the
// vertices are the attribute buffer and must keep the position count.
// A non-nil empty slice leaves its buffer unchanged.
func UpdateSection[V vertex.Type](m *Mesh, index int, vertices []V, triangles []uint32, opts UpdateOptions) {
	const op = "UpdateSection"
	s := mustTyped[V](m, op, index)
	checkUpdate(op, triangles, opts.Bounds)

	hasVertices := skipEmpty(op, index, "vertices", vertices != nil, len(vertices))
	hasTriangles := skipEmpty(op, index, "triangles", triangles != nil, len(triangles))

	if s.dual && hasVertices && len(vertices) != len(s.positions) {
		logger.Error("attribute count would not match position count, update skipped",
			zap.String("op", op),
			zap.Int("section", index),
			zap.Int("vertices", len(vertices)),
			zap.Int("positions", len(s.positions)))
		return
	}

	move := opts.Flags.Has(MoveArrays)
	var changed ChangeFlags
	if hasVertices {
		changed |= s.geometryFlags()
		if s.UpdateVertexBuffer(vertices, opts.Bounds, move) {
			changed |= ChangedBounds
		}
	}
	if hasTriangles {
		s.UpdateIndexBuffer(triangles, move)
		changed |= ChangedIndices
	}
	m.finalizeUpdate(index, changed)
}

// UpdateSectionDualBuffer updates any of the position buffer, attribute
// buffer and triangle list of a dual-buffer section. Nil slices are not
// part of the update. The whole call is skipped when the resulting
// position and attribute counts would differ.
func UpdateSectionDualBuffer[V vertex.Type](m *Mesh, index int, positions []math.Vec3, vertices []V, triangles []uint32, opts UpdateOptions) {
	const op = "UpdateSectionDualBuffer"
	s := mustTyped[V](m, op, index)
	checkf(s.dual, op, "section %d is not dual-buffer", index)
	checkUpdate(op, triangles, opts.Bounds)

	hasPositions := skipEmpty(op, index, "positions", positions != nil, len(positions))
	hasVertices := skipEmpty(op, index, "vertices", vertices != nil, len(vertices))
	hasTriangles := skipEmpty(op, index, "triangles", triangles != nil, len(triangles))

	positionCount, vertexCount := len(s.positions), len(s.vertices)
	if hasPositions {
		positionCount = len(positions)
	}
	if hasVertices {
		vertexCount = len(vertices)
	}
	if positionCount != vertexCount {
		logger.Error("position and attribute counts would differ, update skipped",
			zap.String("op", op),
			zap.Int("section", index),
			zap.Int("positions", positionCount),
			zap.Int("vertices", vertexCount))
		return
	}

	move := opts.Flags.Has(MoveArrays)
	var changed ChangeFlags
	if hasPositions {
		changed |= ChangedPositions
		if s.UpdateVertexPositionBuffer(positions, opts.Bounds, move) {
			changed |= ChangedBounds
		}
	}
	if hasVertices {
		changed |= ChangedVertices
		// An explicit box was already applied with the positions.
		bounds := opts.Bounds
		if hasPositions {
			bounds = nil
		}
		if s.UpdateVertexBuffer(vertices, bounds, move) {
			changed |= ChangedBounds
		}
	}
	if hasTriangles {
		s.UpdateIndexBuffer(triangles, move)
		changed |= ChangedIndices
	}
	m.finalizeUpdate(index, changed)
}

// UpdateSectionTriangles replaces only the triangle list of the section
// at index, whatever its vertex layout.
func (m *Mesh) UpdateSectionTriangles(index int, triangles []uint32, flags UpdateFlags) {
	const op = "UpdateSectionTriangles"
	s := m.mustSection(op, index)
	checkUpdate(op, triangles, nil)
	if !skipEmpty(op, index, "triangles", true, len(triangles)) {
		return
	}
	s.state().UpdateIndexBuffer(triangles, flags.Has(MoveArrays))
	m.finalizeUpdate(index, ChangedIndices)
}

func checkUpdate(op string, triangles []uint32, bounds *math.Box3) {
	checkf(len(triangles)%3 == 0, op, "triangle list length %d is not a multiple of 3", len(triangles))
	check(bounds == nil || bounds.IsValid(), op, "invalid bounding box")
}

// skipEmpty reports whether a supplied buffer takes part in an update. A
// supplied but empty buffer is a no-op and is logged.
func skipEmpty(op string, index int, buffer string, supplied bool, n int) bool {
	if !supplied {
		return false
	}
	if n == 0 {
		logger.Warn("empty buffer ignored",
			zap.String("op", op),
			zap.Int("section", index),
			zap.String("buffer", buffer))
		return false
	}
	return true
}
