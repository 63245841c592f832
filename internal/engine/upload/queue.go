// Package upload coalesces render proxy notifications between frames and
// decides how each GPU buffer is refreshed.
//
// The mesh notifies a Queue from its owner goroutine. The render thread
// drains it once per frame and gets at most one Op per section holding
// the newest copy of every buffer that changed.
package upload

import (
	"sort"
	"sync"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

// Op is the pending GPU work for one section.
type Op struct {
	Index  int
	Create bool
	Remove bool

	// Changed and Snap describe an update. For a create Snap carries every
	// buffer and Changed is zero.
	Changed runtimemesh.ChangeFlags
	Snap    *runtimemesh.SectionSnapshot

	// Properties is set when only visibility or shadow flags changed.
	Properties  bool
	Visible     bool
	CastsShadow bool
}

// Queue implements runtimemesh.RenderProxy and runtimemesh.BoundsListener.
type Queue struct {
	mu          sync.Mutex
	ops         map[int]*Op
	bounds      math.Box3
	boundsDirty bool
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{ops: make(map[int]*Op)}
}

// OnSectionCreated replaces whatever was pending for index.
func (q *Queue) OnSectionCreated(index int, snap *runtimemesh.SectionSnapshot) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops[index] = &Op{Index: index, Create: true, Snap: snap}
}

// OnSectionUpdated merges the update into any pending op for index.
func (q *Queue) OnSectionUpdated(index int, changed runtimemesh.ChangeFlags, snap *runtimemesh.SectionSnapshot) {
	q.mu.Lock()
	defer q.mu.Unlock()

	op, ok := q.ops[index]
	if !ok || op.Remove {
		q.ops[index] = &Op{Index: index, Changed: changed, Snap: snap}
		return
	}
	if op.Snap == nil {
		// Only properties were pending; they are carried by the snapshot.
		op.Properties = false
		op.Changed = changed
		op.Snap = snap
		return
	}
	if !op.Create {
		op.Changed |= changed
	}
	op.Snap = mergeSnapshot(op.Snap, snap)
}

// OnSectionRemoved drops pending work for index and queues its removal.
func (q *Queue) OnSectionRemoved(index int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.ops[index] = &Op{Index: index, Remove: true}
}

// OnSectionPropertiesChanged records visibility and shadow flags.
func (q *Queue) OnSectionPropertiesChanged(index int, visible, castsShadow bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	op, ok := q.ops[index]
	switch {
	case !ok:
		q.ops[index] = &Op{Index: index, Properties: true, Visible: visible, CastsShadow: castsShadow}
	case op.Remove:
	case op.Snap != nil:
		op.Snap.Visible = visible
		op.Snap.CastsShadow = castsShadow
	default:
		op.Visible = visible
		op.CastsShadow = castsShadow
	}
}

// OnLocalBoundsChanged records the mesh bounds for the next drain.
func (q *Queue) OnLocalBoundsChanged(b math.Box3) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.bounds = b
	q.boundsDirty = true
}

// Len returns the number of sections with pending work.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.ops)
}

// Drain returns the pending ops in index order and empties the queue.
// bounds is valid only when boundsChanged is set.
func (q *Queue) Drain() (ops []Op, bounds math.Box3, boundsChanged bool) {
	q.mu.Lock()
	pending := q.ops
	bounds, boundsChanged = q.bounds, q.boundsDirty
	q.ops = make(map[int]*Op, len(pending))
	q.boundsDirty = false
	q.mu.Unlock()

	ops = make([]Op, 0, len(pending))
	for _, op := range pending {
		ops = append(ops, *op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i].Index < ops[j].Index })
	return ops, bounds, boundsChanged
}

// mergeSnapshot overlays the buffers present in next onto prev.
func mergeSnapshot(prev, next *runtimemesh.SectionSnapshot) *runtimemesh.SectionSnapshot {
	out := *next
	if out.Positions == nil {
		out.Positions = prev.Positions
	}
	if out.Vertices == nil {
		out.Vertices = prev.Vertices
	}
	if out.Indices == nil {
		out.Indices = prev.Indices
	}
	return &out
}
