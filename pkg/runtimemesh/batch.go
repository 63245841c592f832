package runtimemesh

import (
	"sort"

	"github.com/Faultbox/runtimemesh/internal/logger"
)

// pendingSync is the deferred proxy work for one section index. fresh
// marks a slot that was empty when the batch first touched it, so the
// proxy has never seen a section there.
type pendingSync struct {
	fresh      bool
	created    bool
	removed    bool
	changed    ChangeFlags
	properties bool
}

type batchState struct {
	depth     int
	pending   map[int]*pendingSync
	bounds    bool
	collision bool
}

func (b *batchState) active() bool { return b.depth > 0 }

// entry returns the pending record for index. live reports whether the
// proxy knows a section at index; it only matters for the first touch.
func (b *batchState) entry(index int, live bool) *pendingSync {
	if b.pending == nil {
		b.pending = make(map[int]*pendingSync)
	}
	p, ok := b.pending[index]
	if !ok {
		p = &pendingSync{fresh: !live}
		b.pending[index] = p
	}
	return p
}

// BeginBatchUpdates defers proxy, bounds and collision work until the
// matching EndBatchUpdates. Batches nest.
func (m *Mesh) BeginBatchUpdates() {
	m.batch.depth++
}

// EndBatchUpdates closes one batch level. Closing the outermost level
// sends at most one proxy sync per touched section, recomputes bounds once and
// marks collision dirty once.
func (m *Mesh) EndBatchUpdates() {
	if m.batch.depth == 0 {
		logger.Error("EndBatchUpdates called without BeginBatchUpdates")
		return
	}
	m.batch.depth--
	if m.batch.depth > 0 {
		return
	}

	pending := m.batch.pending
	bounds, dirty := m.batch.bounds, m.batch.collision
	m.batch = batchState{}

	indices := make([]int, 0, len(pending))
	for i := range pending {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	for _, i := range indices {
		p := pending[i]
		s, ok := m.sections.get(i)
		switch {
		case !ok:
			if p.removed && !p.fresh {
				m.proxy.OnSectionRemoved(i)
			}
			continue
		case p.created:
			m.proxy.OnSectionCreated(i, snapshot(s, 0, true))
			continue
		case p.changed != 0:
			m.proxy.OnSectionUpdated(i, p.changed, snapshot(s, p.changed, false))
		}
		if p.properties && p.changed == 0 {
			m.proxy.OnSectionPropertiesChanged(i, s.IsVisible(), s.CastsShadow())
		}
	}

	if bounds {
		m.updateLocalBounds()
	}
	if dirty {
		m.markCollisionDirty()
	}
}

// IsBatching reports whether a batch is open.
func (m *Mesh) IsBatching() bool { return m.batch.active() }
