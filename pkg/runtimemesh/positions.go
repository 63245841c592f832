package runtimemesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/math"
)

// UpdateSectionPositionsImmediate copies positions into the existing
// position buffer of a dual-buffer section. The count must equal the
// section's vertex count; otherwise the call is logged and skipped.
func (m *Mesh) UpdateSectionPositionsImmediate(index int, positions []math.Vec3, bounds *math.Box3) {
	const op = "UpdateSectionPositionsImmediate"
	st := m.mustDual(op, index)
	check(bounds == nil || bounds.IsValid(), op, "invalid bounding box")

	if len(positions) != len(st.positions) {
		logger.Error("position count does not match section, update skipped",
			zap.String("op", op),
			zap.Int("section", index),
			zap.Int("positions", len(positions)),
			zap.Int("vertices", len(st.positions)))
		return
	}
	copy(st.positions, positions)
	m.finishPositions(index, st, bounds)
}

// BeginSectionPositionUpdate returns the live position buffer of a
// dual-buffer section for in-place edits. Call EndSectionPositionUpdate
// when done.
func (m *Mesh) BeginSectionPositionUpdate(index int) []math.Vec3 {
	return m.mustDual("BeginSectionPositionUpdate", index).positions
}

// EndSectionPositionUpdate publishes edits made through
// BeginSectionPositionUpdate. A nil bounds rescans the positions.
func (m *Mesh) EndSectionPositionUpdate(index int, bounds *math.Box3) {
	const op = "EndSectionPositionUpdate"
	st := m.mustDual(op, index)
	check(bounds == nil || bounds.IsValid(), op, "invalid bounding box")
	m.finishPositions(index, st, bounds)
}

func (m *Mesh) finishPositions(index int, st *sectionState, bounds *math.Box3) {
	var next math.Box3
	if bounds != nil {
		next = *bounds
	} else {
		next = math.BoxFromPoints(st.positions)
	}
	changed := ChangedPositions
	if st.setBounds(next) {
		changed |= ChangedBounds
	}
	m.finalizeUpdate(index, changed)
}

func (m *Mesh) mustDual(op string, index int) *sectionState {
	st := m.mustSection(op, index).state()
	checkf(st.dual, op, "section %d is not dual-buffer", index)
	return st
}
