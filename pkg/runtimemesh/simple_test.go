package runtimemesh

import (
	"testing"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

func simpleQuad() SimpleSection {
	return SimpleSection{
		Positions: []math.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}, {1, 0, 1}},
		Triangles: []uint32{0, 2, 1, 1, 2, 3},
		Colors:    []vertex.RGBA8{{R: 1}, {R: 2}, {R: 3}, {R: 4}},
	}
}

func TestCreateSectionSimple(t *testing.T) {
	tests := []struct {
		name string
		uv1  []math.Vec2
		want vertex.Descriptor
	}{
		{"single uv", nil, vertex.DescriptorOf[vertex.Generic]()},
		{"dual uv", make([]math.Vec2, 4), vertex.DescriptorOf[vertex.GenericDualUV]()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestMesh(t)
			data := simpleQuad()
			data.UV1 = tt.uv1
			m.CreateSectionSimple(0, data, true, FrequencyInfrequent)

			s := m.Section(0)
			if s.Descriptor() != tt.want {
				t.Errorf("Descriptor() = %s, want %s", s.Descriptor(), tt.want)
			}
			if !s.IsLegacyType() || !s.IsCollisionEnabled() {
				t.Error("legacy or collision flag missing")
			}
			if s.UpdateFrequency() != FrequencyInfrequent {
				t.Errorf("UpdateFrequency() = %s", s.UpdateFrequency())
			}
		})
	}
}

func TestSimpleDefaultsAndMismatch(t *testing.T) {
	logs := observeLogs(t)
	m, _, _ := newTestMesh(t)
	data := simpleQuad()
	data.Normals = []math.Vec3{{X: 1}}
	m.CreateSectionSimple(0, data, false, FrequencyAverage)

	if logs.FilterMessage("attribute array length mismatch, ignored").Len() != 1 {
		t.Error("mismatched normals not reported")
	}
	v := SectionVertices[vertex.Generic](m, 0)
	if v[0].Normal != (math.Vec3{Z: 1}) {
		t.Errorf("Normal = %+v, want default", v[0].Normal)
	}
	if v[2].Color.R != 3 {
		t.Errorf("Color = %+v", v[2].Color)
	}
	if v[1].Tangent != vertex.DefaultTangent {
		t.Errorf("Tangent = %+v", v[1].Tangent)
	}
}

func TestUpdateSectionSimple(t *testing.T) {
	observeLogs(t)
	m, _, _ := newTestMesh(t)
	m.CreateSectionSimple(0, simpleQuad(), false, FrequencyAverage)

	data := simpleQuad()
	data.Triangles = nil
	for i := range data.Positions {
		data.Positions[i].Y = 2
	}
	m.UpdateSectionSimple(0, data)

	if got := m.SectionBounds(0); got != box(0, 2, 0, 1, 2, 1) {
		t.Errorf("SectionBounds() = %+v", got)
	}
	if len(m.SectionIndices(0)) != 6 {
		t.Error("nil triangles should keep the triangle list")
	}

	verts, tris := cube()
	CreateSection(m, 1, verts, tris, SectionOptions{})
	expectPrecondition(t, func() { m.UpdateSectionSimple(1, data) })
}
