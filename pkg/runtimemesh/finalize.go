package runtimemesh

// finalizeCreate publishes a freshly created section. prev is the section
// the create replaced, or nil.
func (m *Mesh) finalizeCreate(index int, prev Section) {
	s, _ := m.sections.get(index)
	replacedCollision := prev != nil && prev.IsCollisionEnabled()
	dirty := replacedCollision || (s.IsCollisionEnabled() && len(s.Indices()) > 0)

	if m.batch.active() {
		p := m.batch.entry(index, prev != nil)
		p.created = true
		p.removed = false
		p.changed = 0
		p.properties = false
		m.batch.bounds = true
		m.batch.collision = m.batch.collision || dirty
		return
	}

	m.proxy.OnSectionCreated(index, snapshot(s, 0, true))
	m.updateLocalBounds()
	if dirty {
		m.markCollisionDirty()
	}
}

// finalizeUpdate publishes an in-place update. It is called once per API
// call with every buffer the call changed.
func (m *Mesh) finalizeUpdate(index int, changed ChangeFlags) {
	if changed == 0 {
		return
	}
	s, _ := m.sections.get(index)
	dirty := s.IsCollisionEnabled() && changed&(ChangedPositions|ChangedIndices) != 0

	if m.batch.active() {
		p := m.batch.entry(index, true)
		if !p.created {
			p.changed |= changed
		}
		m.batch.bounds = m.batch.bounds || changed.Has(ChangedBounds)
		m.batch.collision = m.batch.collision || dirty
		return
	}

	m.proxy.OnSectionUpdated(index, changed, snapshot(s, changed, false))
	if changed.Has(ChangedBounds) {
		m.updateLocalBounds()
	}
	if dirty {
		m.markCollisionDirty()
	}
}

// finalizeRemove publishes a cleared slot.
func (m *Mesh) finalizeRemove(index int, hadCollision bool) {
	if m.batch.active() {
		p := m.batch.entry(index, true)
		p.removed = true
		p.created = false
		p.changed = 0
		p.properties = false
		m.batch.bounds = true
		m.batch.collision = m.batch.collision || hadCollision
		return
	}

	m.proxy.OnSectionRemoved(index)
	m.updateLocalBounds()
	if hadCollision {
		m.markCollisionDirty()
	}
}

// finalizeProperties publishes a visibility or shadow change.
func (m *Mesh) finalizeProperties(index int) {
	if m.batch.active() {
		m.batch.entry(index, true).properties = true
		return
	}
	s, _ := m.sections.get(index)
	m.proxy.OnSectionPropertiesChanged(index, s.IsVisible(), s.CastsShadow())
}
