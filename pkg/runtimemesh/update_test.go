package runtimemesh

import (
	"slices"
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

func TestDualBufferPositionOnlyUpdate(t *testing.T) {
	m, proxy, _ := newTestMesh(t)
	positions, attrs, tris := quadDual(0)
	CreateSectionDualBuffer(m, 0, positions, attrs, tris, SectionOptions{})
	before := m.Section(0).VertexBytes()
	proxy.reset()

	moved := []math.Vec3{{0, 2, 0}, {1, 2, 0}, {0, 2, 1}, {1, 2, 1}}
	UpdateSectionDualBuffer[vertex.Attributes](m, 0, moved, nil, nil, UpdateOptions{})

	if !slices.Equal(m.Section(0).VertexBytes(), before) {
		t.Error("attribute buffer changed on a position-only update")
	}
	if !slices.Equal(m.SectionPositions(0), moved) {
		t.Error("positions not updated")
	}
	if got := m.SectionBounds(0); got != box(0, 2, 0, 1, 2, 1) {
		t.Errorf("SectionBounds() = %+v", got)
	}

	ev := proxy.last()
	if ev.kind != "updated" || ev.changed != ChangedPositions|ChangedBounds {
		t.Errorf("proxy event = %s %s, want updated positions|bounds", ev.kind, ev.changed)
	}
	if ev.snap.Vertices != nil || ev.snap.Indices != nil {
		t.Error("snapshot should carry only the changed buffer")
	}
	if len(ev.snap.Positions) != 4 {
		t.Errorf("snapshot positions = %d, want 4", len(ev.snap.Positions))
	}
}

func TestDualBufferAttributeLengthMismatch(t *testing.T) {
	logs := observeLogs(t)
	m, proxy, _ := newTestMesh(t)
	positions, attrs, tris := quadDual(0)
	CreateSectionDualBuffer(m, 0, positions, attrs, tris, SectionOptions{})
	beforeVerts := m.Section(0).VertexBytes()
	beforePos := slices.Clone(m.SectionPositions(0))
	proxy.reset()

	UpdateSection(m, 0, make([]vertex.Attributes, 6), nil, UpdateOptions{})

	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Errorf("error logs = %d, want 1", logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	}
	if !slices.Equal(m.Section(0).VertexBytes(), beforeVerts) {
		t.Error("attribute buffer changed by a rejected update")
	}
	if !slices.Equal(m.SectionPositions(0), beforePos) {
		t.Error("position buffer changed by a rejected update")
	}
	if len(proxy.events) != 0 {
		t.Errorf("rejected update notified proxy %d times", len(proxy.events))
	}
}

func TestDualBufferCountInvariant(t *testing.T) {
	tests := []struct {
		name      string
		positions int
		vertices  int
		wantCount int
	}{
		{"both grow", 8, 8, 8},
		{"positions only mismatch", 6, 0, 4},
		{"attributes only mismatch", 0, 6, 4},
		{"both differ", 6, 5, 4},
		{"same size", 4, 4, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observeLogs(t)
			m, _, _ := newTestMesh(t)
			positions, attrs, tris := quadDual(0)
			CreateSectionDualBuffer(m, 0, positions, attrs, tris, SectionOptions{})

			var p []math.Vec3
			if tt.positions > 0 {
				p = make([]math.Vec3, tt.positions)
			}
			var v []vertex.Attributes
			if tt.vertices > 0 {
				v = make([]vertex.Attributes, tt.vertices)
			}
			UpdateSectionDualBuffer(m, 0, p, v, nil, UpdateOptions{})

			s := m.Section(0)
			if len(s.Positions()) != s.VertexCount() {
				t.Fatalf("positions = %d, vertices = %d", len(s.Positions()), s.VertexCount())
			}
			if s.VertexCount() != tt.wantCount {
				t.Errorf("VertexCount() = %d, want %d", s.VertexCount(), tt.wantCount)
			}
		})
	}
}

func TestPartialUpdates(t *testing.T) {
	m, proxy, _ := newTestMesh(t)
	verts, tris := cube()
	CreateSection(m, 0, verts, tris, SectionOptions{})
	bounds := m.SectionBounds(0)

	flipped := slices.Clone(tris)
	slices.Reverse(flipped)
	m.UpdateSectionTriangles(0, flipped, 0)

	if !slices.Equal(SectionVertices[vertex.Generic](m, 0), verts) {
		t.Error("triangle update changed vertices")
	}
	if m.SectionBounds(0) != bounds {
		t.Error("triangle update changed bounds")
	}
	if ev := proxy.last(); ev.changed != ChangedIndices {
		t.Errorf("changed = %s, want indices", ev.changed)
	}

	scaled := slices.Clone(verts)
	for i := range scaled {
		scaled[i].Position = scaled[i].Position.Scale(2)
	}
	UpdateSection(m, 0, scaled, nil, UpdateOptions{})

	if !slices.Equal(m.SectionIndices(0), flipped) {
		t.Error("vertex update changed triangles")
	}
	if got := m.SectionBounds(0); got != box(0, 0, 0, 2, 2, 2) {
		t.Errorf("SectionBounds() = %+v", got)
	}
	want := ChangedVertices | ChangedPositions | ChangedBounds
	if ev := proxy.last(); ev.changed != want {
		t.Errorf("changed = %s, want %s", ev.changed, want)
	}
}

func TestUpdateSingleNotificationPerCall(t *testing.T) {
	m, proxy, _ := newTestMesh(t)
	positions, attrs, tris := quadDual(0)
	CreateSectionDualBuffer(m, 0, positions, attrs, tris, SectionOptions{})
	proxy.reset()

	p2, a2, t2 := quadDual(1)
	UpdateSectionDualBuffer(m, 0, p2, a2, t2, UpdateOptions{})

	if len(proxy.events) != 1 {
		t.Fatalf("proxy events = %d, want 1", len(proxy.events))
	}
	want := ChangedPositions | ChangedVertices | ChangedIndices | ChangedBounds
	if got := proxy.last().changed; got != want {
		t.Errorf("changed = %s, want %s", got, want)
	}
	if len(proxy.bounds) != 1 {
		t.Errorf("bounds updates = %d, want 1", len(proxy.bounds))
	}
}

func TestEmptyBufferIsNoOp(t *testing.T) {
	logs := observeLogs(t)
	m, proxy, _ := newTestMesh(t)
	verts, tris := cube()
	CreateSection(m, 0, verts, tris, SectionOptions{})
	proxy.reset()

	UpdateSection(m, 0, []vertex.Generic{}, []uint32{}, UpdateOptions{})

	if n := logs.FilterMessage("empty buffer ignored").Len(); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
	if len(proxy.events) != 0 {
		t.Errorf("no-op update notified proxy %d times", len(proxy.events))
	}
	if m.Section(0).VertexCount() != 8 {
		t.Error("empty update changed the vertex buffer")
	}
}

func TestDualBufferOnlyCallsAreFatal(t *testing.T) {
	observeLogs(t)
	m, _, _ := newTestMesh(t)
	verts, tris := cube()
	CreateSection(m, 0, verts, tris, SectionOptions{})

	expectPrecondition(t, func() {
		UpdateSectionDualBuffer(m, 0, []math.Vec3{{}}, []vertex.Generic{{}}, nil, UpdateOptions{})
	})
	expectPrecondition(t, func() { m.UpdateSectionPositionsImmediate(0, nil, nil) })
	expectPrecondition(t, func() { m.BeginSectionPositionUpdate(0) })
}

func TestPositionFastPaths(t *testing.T) {
	logs := observeLogs(t)
	m, proxy, _ := newTestMesh(t)
	positions, attrs, tris := quadDual(0)
	CreateSectionDualBuffer(m, 0, positions, attrs, tris, SectionOptions{UpdateFrequency: FrequencyFrequent})
	proxy.reset()

	m.UpdateSectionPositionsImmediate(0, make([]math.Vec3, 3), nil)
	if logs.FilterLevelExact(zapcore.ErrorLevel).Len() != 1 {
		t.Error("length mismatch should log an error")
	}
	if len(proxy.events) != 0 {
		t.Error("rejected immediate update reached the proxy")
	}

	raised := []math.Vec3{{0, 3, 0}, {1, 3, 0}, {0, 3, 1}, {1, 3, 1}}
	m.UpdateSectionPositionsImmediate(0, raised, nil)
	if got := m.SectionBounds(0); got != box(0, 3, 0, 1, 3, 1) {
		t.Errorf("SectionBounds() = %+v", got)
	}

	live := m.BeginSectionPositionUpdate(0)
	for i := range live {
		live[i].Y = -1
	}
	m.EndSectionPositionUpdate(0, nil)
	if got := m.SectionBounds(0); got != box(0, -1, 0, 1, -1, 1) {
		t.Errorf("SectionBounds() after in-place edit = %+v", got)
	}
	if ev := proxy.last(); ev.changed != ChangedPositions|ChangedBounds {
		t.Errorf("changed = %s", ev.changed)
	}
}

func TestUpdateFrequencyText(t *testing.T) {
	tests := []struct {
		in   string
		want UpdateFrequency
		err  bool
	}{
		{"infrequent", FrequencyInfrequent, false},
		{"Average", FrequencyAverage, false},
		{"frequent", FrequencyFrequent, false},
		{"", FrequencyAverage, false},
		{"often", FrequencyAverage, true},
	}
	for _, tt := range tests {
		var f UpdateFrequency
		err := f.UnmarshalText([]byte(tt.in))
		if (err != nil) != tt.err {
			t.Errorf("UnmarshalText(%q) error = %v", tt.in, err)
			continue
		}
		if !tt.err && f != tt.want {
			t.Errorf("UnmarshalText(%q) = %s, want %s", tt.in, f, tt.want)
		}
	}
}
