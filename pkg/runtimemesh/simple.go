package runtimemesh

import (
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// SimpleSection is mesh data given as parallel arrays. Every attribute
// array is optional; one whose length differs from Positions is ignored.
type SimpleSection struct {
	Positions []math.Vec3
	Triangles []uint32
	Normals   []math.Vec3
	Tangents  []vertex.TangentVec
	Colors    []vertex.RGBA8
	UV0       []math.Vec2
	UV1       []math.Vec2
}

// CreateSectionSimple builds Generic vertices (GenericDualUV when UV1 is
// given) from parallel arrays and creates a legacy section.
func (m *Mesh) CreateSectionSimple(index int, data SimpleSection, createCollision bool, frequency UpdateFrequency) {
	const op = "CreateSectionSimple"
	checkCreate(op, index, len(data.Positions), data.Triangles, nil)
	data.warnMismatched(op, index)

	opts := SectionOptions{CreateCollision: createCollision, UpdateFrequency: frequency}
	var s Section
	if len(data.UV1) > 0 && len(data.UV1) == len(data.Positions) {
		s = buildSection(data.dualUV(), data.Triangles, opts)
	} else {
		s = buildSection(data.generic(), data.Triangles, opts)
	}
	s.state().legacy = true
	m.installSection(index, s)
}

// UpdateSectionSimple rebuilds the vertices of a legacy section from
// parallel arrays. A nil Triangles keeps the current triangle list.
func (m *Mesh) UpdateSectionSimple(index int, data SimpleSection) {
	const op = "UpdateSectionSimple"
	s := m.mustSection(op, index)
	checkf(s.IsLegacyType(), op, "section %d was not created by CreateSectionSimple", index)
	data.warnMismatched(op, index)

	if s.Descriptor() == vertex.DescriptorOf[vertex.GenericDualUV]() {
		UpdateSection(m, index, data.dualUV(), data.Triangles, UpdateOptions{})
		return
	}
	UpdateSection(m, index, data.generic(), data.Triangles, UpdateOptions{})
}

func (d *SimpleSection) generic() []vertex.Generic {
	n := len(d.Positions)
	if n == 0 {
		return nil
	}
	out := make([]vertex.Generic, n)
	for i, p := range d.Positions {
		out[i] = vertex.Generic{
			Position: p,
			Normal:   pick(d.Normals, i, n, math.Vec3{Z: 1}),
			Tangent:  pick(d.Tangents, i, n, vertex.DefaultTangent),
			Color:    pick(d.Colors, i, n, vertex.White),
			UV0:      pick(d.UV0, i, n, math.Vec2{}),
		}
	}
	return out
}

func (d *SimpleSection) dualUV() []vertex.GenericDualUV {
	base := d.generic()
	if base == nil {
		return nil
	}
	n := len(base)
	out := make([]vertex.GenericDualUV, n)
	for i, v := range base {
		out[i] = vertex.GenericDualUV{
			Position: v.Position,
			Normal:   v.Normal,
			Tangent:  v.Tangent,
			Color:    v.Color,
			UV0:      v.UV0,
			UV1:      pick(d.UV1, i, n, math.Vec2{}),
		}
	}
	return out
}

func (d *SimpleSection) warnMismatched(op string, index int) {
	n := len(d.Positions)
	for _, a := range []struct {
		name string
		len  int
	}{
		{"normals", len(d.Normals)},
		{"tangents", len(d.Tangents)},
		{"colors", len(d.Colors)},
		{"uv0", len(d.UV0)},
		{"uv1", len(d.UV1)},
	} {
		if a.len != 0 && a.len != n {
			logger.Warn("attribute array length mismatch, ignored",
				zap.String("op", op),
				zap.Int("section", index),
				zap.String("attribute", a.name),
				zap.Int("len", a.len),
				zap.Int("positions", n))
		}
	}
}

// pick returns s[i] when s has exactly n elements, else def.
func pick[T any](s []T, i, n int, def T) T {
	if len(s) == n {
		return s[i]
	}
	return def
}
