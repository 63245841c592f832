package runtimemesh

import (
	"slices"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// SectionSnapshot is a copy of section state handed to the render proxy.
// Buffers the change did not touch are nil; a create carries all of them.
type SectionSnapshot struct {
	Descriptor      vertex.Descriptor
	DualBuffer      bool
	VertexCount     int
	Positions       []math.Vec3
	Vertices        []byte
	Indices         []uint32
	Bounds          math.Box3
	Visible         bool
	CastsShadow     bool
	UpdateFrequency UpdateFrequency
}

// RenderProxy receives section changes for the rendering backend. Calls
// arrive on the owner goroutine; snapshots are owned by the receiver.
type RenderProxy interface {
	OnSectionCreated(index int, snap *SectionSnapshot)
	OnSectionUpdated(index int, changed ChangeFlags, snap *SectionSnapshot)
	OnSectionRemoved(index int)
	OnSectionPropertiesChanged(index int, visible, castsShadow bool)
}

// BoundsListener is optionally implemented by a RenderProxy that wants the
// mesh's local bounds every time they are recomputed.
type BoundsListener interface {
	OnLocalBoundsChanged(bounds math.Box3)
}

// NopProxy discards all notifications.
type NopProxy struct{}

func (NopProxy) OnSectionCreated(int, *SectionSnapshot)              {}
func (NopProxy) OnSectionUpdated(int, ChangeFlags, *SectionSnapshot) {}
func (NopProxy) OnSectionRemoved(int)                                {}
func (NopProxy) OnSectionPropertiesChanged(int, bool, bool)          {}

// snapshot copies the buffers named by changed. created copies everything.
func snapshot(s Section, changed ChangeFlags, created bool) *SectionSnapshot {
	snap := &SectionSnapshot{
		Descriptor:      s.Descriptor(),
		DualBuffer:      s.IsDualBuffer(),
		VertexCount:     s.VertexCount(),
		Bounds:          s.Bounds(),
		Visible:         s.IsVisible(),
		CastsShadow:     s.CastsShadow(),
		UpdateFrequency: s.UpdateFrequency(),
	}
	if s.IsDualBuffer() && (created || changed.Has(ChangedPositions)) {
		snap.Positions = slices.Clone(s.state().positions)
	}
	if created || changed.Has(ChangedVertices) {
		snap.Vertices = s.VertexBytes()
	}
	if created || changed.Has(ChangedIndices) {
		snap.Indices = slices.Clone(s.Indices())
	}
	return snap
}
