package upload

import (
	"testing"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

func TestQueueMergesUpdates(t *testing.T) {
	q := NewQueue()
	q.OnSectionUpdated(2, runtimemesh.ChangedVertices, &runtimemesh.SectionSnapshot{Vertices: []byte{1}})
	q.OnSectionUpdated(2, runtimemesh.ChangedPositions, &runtimemesh.SectionSnapshot{
		DualBuffer: true,
		Positions:  []math.Vec3{{X: 1}},
	})
	q.OnSectionUpdated(2, runtimemesh.ChangedVertices, &runtimemesh.SectionSnapshot{Vertices: []byte{9}})

	ops, _, _ := q.Drain()
	if len(ops) != 1 {
		t.Fatalf("expected 1 op, got %d", len(ops))
	}
	op := ops[0]
	if op.Changed != runtimemesh.ChangedVertices|runtimemesh.ChangedPositions {
		t.Errorf("expected vertices|positions, got %s", op.Changed)
	}
	if op.Snap.Vertices[0] != 9 {
		t.Errorf("expected newest vertices, got %v", op.Snap.Vertices)
	}
	if len(op.Snap.Positions) != 1 {
		t.Error("positions from the earlier update were lost")
	}
	if q.Len() != 0 {
		t.Error("Drain should empty the queue")
	}
}

func TestQueueCreateAbsorbsUpdates(t *testing.T) {
	q := NewQueue()
	q.OnSectionCreated(0, &runtimemesh.SectionSnapshot{Vertices: []byte{1}, Indices: []uint32{0, 1, 2}, Visible: true})
	q.OnSectionUpdated(0, runtimemesh.ChangedIndices, &runtimemesh.SectionSnapshot{Indices: []uint32{2, 1, 0}, Visible: true})
	q.OnSectionPropertiesChanged(0, false, true)

	ops, _, _ := q.Drain()
	op := ops[0]
	if !op.Create || op.Changed != 0 {
		t.Errorf("expected a plain create, got create=%v changed=%s", op.Create, op.Changed)
	}
	if op.Snap.Indices[0] != 2 || op.Snap.Vertices[0] != 1 {
		t.Error("create snapshot should carry newest indices and original vertices")
	}
	if op.Snap.Visible {
		t.Error("visibility change lost")
	}
}

func TestQueueRemoveAndRecreate(t *testing.T) {
	q := NewQueue()
	q.OnSectionUpdated(1, runtimemesh.ChangedIndices, &runtimemesh.SectionSnapshot{Indices: []uint32{0, 1, 2}})
	q.OnSectionRemoved(1)
	q.OnSectionPropertiesChanged(1, true, true)

	ops, _, _ := q.Drain()
	if !ops[0].Remove || ops[0].Snap != nil || ops[0].Properties {
		t.Errorf("expected a bare remove, got %+v", ops[0])
	}

	q.OnSectionRemoved(1)
	q.OnSectionCreated(1, &runtimemesh.SectionSnapshot{})
	ops, _, _ = q.Drain()
	if ops[0].Remove || !ops[0].Create {
		t.Errorf("create after remove should win, got %+v", ops[0])
	}
}

func TestQueueDrainOrderAndBounds(t *testing.T) {
	q := NewQueue()
	for _, i := range []int{5, 1, 3} {
		q.OnSectionPropertiesChanged(i, false, false)
	}
	want := math.NewBox3(math.Vec3{}, math.Vec3{X: 1, Y: 1, Z: 1})
	q.OnLocalBoundsChanged(want)

	ops, bounds, changed := q.Drain()
	if ops[0].Index != 1 || ops[1].Index != 3 || ops[2].Index != 5 {
		t.Errorf("ops not in index order: %d %d %d", ops[0].Index, ops[1].Index, ops[2].Index)
	}
	if !changed || bounds != want {
		t.Errorf("bounds = %+v (changed %v)", bounds, changed)
	}
	if _, _, changed = q.Drain(); changed {
		t.Error("bounds reported twice")
	}
}

func TestPlanBuffer(t *testing.T) {
	tests := []struct {
		name      string
		freq      runtimemesh.UpdateFrequency
		allocated int
		incoming  []byte
		want      Mode
	}{
		{"unchanged", runtimemesh.FrequencyFrequent, 8, nil, Keep},
		{"same size dynamic", runtimemesh.FrequencyFrequent, 4, make([]byte, 4), Patch},
		{"same size average", runtimemesh.FrequencyAverage, 4, make([]byte, 4), Patch},
		{"same size static", runtimemesh.FrequencyInfrequent, 4, make([]byte, 4), Recreate},
		{"grown", runtimemesh.FrequencyFrequent, 4, make([]byte, 8), Recreate},
		{"shrunk", runtimemesh.FrequencyAverage, 8, make([]byte, 4), Recreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlanBuffer(tt.freq, tt.allocated, tt.incoming); got != tt.want {
				t.Errorf("PlanBuffer() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQueueWithMesh(t *testing.T) {
	q := NewQueue()
	m := runtimemesh.New(runtimemesh.Options{Proxy: q})
	defer m.Close()

	positions := []math.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 0, 1}}
	attrs := make([]vertex.Attributes, 3)
	runtimemesh.CreateSectionDualBuffer(m, 0, positions, attrs, []uint32{0, 1, 2}, runtimemesh.SectionOptions{
		UpdateFrequency: runtimemesh.FrequencyFrequent,
	})
	ops, _, _ := q.Drain()
	created := ops[0].Snap

	sizes := Sizes{
		Positions: len(Vec3Bytes(created.Positions)),
		Vertices:  len(created.Vertices),
		Indices:   len(Uint32Bytes(created.Indices)),
	}
	m.UpdateSectionPositionsImmediate(0, []math.Vec3{{0, 1, 0}, {1, 1, 0}, {0, 1, 1}}, nil)

	ops, bounds, changed := q.Drain()
	plan := PlanOp(&ops[0], sizes)
	if plan != (Plan{Positions: Patch, Vertices: Keep, Indices: Keep}) {
		t.Errorf("unexpected plan %+v", plan)
	}
	if !changed || bounds.Min.Y != 1 {
		t.Errorf("bounds not forwarded: %+v", bounds)
	}
}

func TestLedgerCountsModes(t *testing.T) {
	l := NewLedger()
	pos := []math.Vec3{{}, {X: 1}, {Z: 1}}
	l.Apply([]Op{{
		Index:  0,
		Create: true,
		Snap: &runtimemesh.SectionSnapshot{
			DualBuffer:      true,
			Positions:       pos,
			Vertices:        make([]byte, 12),
			Indices:         []uint32{0, 1, 2},
			UpdateFrequency: runtimemesh.FrequencyFrequent,
		},
	}})
	if l.Sections() != 1 || l.Creates != 1 {
		t.Fatalf("expected 1 section created, got %d/%d", l.Sections(), l.Creates)
	}
	if got := l.Count(Recreate); got != 3 {
		t.Errorf("create should allocate 3 buffers, got %d", got)
	}

	l.Apply([]Op{{
		Index:   0,
		Changed: runtimemesh.ChangedPositions,
		Snap:    &runtimemesh.SectionSnapshot{Positions: pos, UpdateFrequency: runtimemesh.FrequencyFrequent},
	}})
	if got := l.Count(Patch); got != 1 {
		t.Errorf("same-size position update should patch, got %d patches", got)
	}
	if got := l.Count(Keep); got != 2 {
		t.Errorf("untouched buffers should be kept, got %d", got)
	}

	l.Apply([]Op{{Index: 7, Changed: runtimemesh.ChangedIndices, Snap: &runtimemesh.SectionSnapshot{Indices: []uint32{0}}}})
	if l.Sections() != 1 {
		t.Error("updates for unknown sections must be ignored")
	}

	l.Apply([]Op{{Index: 0, Remove: true}})
	if l.Sections() != 0 || l.Removes != 1 {
		t.Errorf("expected section removed, got %d sections, %d removes", l.Sections(), l.Removes)
	}
	sz, ok := l.Sizes(0)
	if ok || sz != (Sizes{}) {
		t.Error("removed section should have no sizes")
	}
}
