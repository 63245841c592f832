package runtimemesh

// ClearSection empties the slot at index. Indices of other sections are
// unchanged. Clearing an empty or out-of-range slot does nothing.
func (m *Mesh) ClearSection(index int) {
	checkf(index >= 0, "ClearSection", "negative section index %d", index)
	s, ok := m.sections.clear(index)
	if !ok {
		return
	}
	m.finalizeRemove(index, s.IsCollisionEnabled())
}

// ClearAllSections removes every section and shrinks the table to zero.
func (m *Mesh) ClearAllSections() {
	var occupied []int
	var hadCollision bool
	m.sections.each(func(i int, s Section) {
		occupied = append(occupied, i)
		hadCollision = hadCollision || s.IsCollisionEnabled()
	})
	m.sections.reset()

	m.BeginBatchUpdates()
	for _, i := range occupied {
		m.finalizeRemove(i, hadCollision)
	}
	m.EndBatchUpdates()
}

// SetSectionVisible shows or hides the section at index.
func (m *Mesh) SetSectionVisible(index int, visible bool) {
	st := m.mustSection("SetSectionVisible", index).state()
	if st.visible == visible {
		return
	}
	st.visible = visible
	m.finalizeProperties(index)
}

// IsSectionVisible reports whether the section at index is drawn.
func (m *Mesh) IsSectionVisible(index int) bool {
	return m.mustSection("IsSectionVisible", index).IsVisible()
}

// SetSectionCastsShadow toggles shadow casting for the section at index.
func (m *Mesh) SetSectionCastsShadow(index int, castsShadow bool) {
	st := m.mustSection("SetSectionCastsShadow", index).state()
	if st.castsShadow == castsShadow {
		return
	}
	st.castsShadow = castsShadow
	m.finalizeProperties(index)
}

// IsSectionCastingShadow reports whether the section at index casts shadows.
func (m *Mesh) IsSectionCastingShadow(index int) bool {
	return m.mustSection("IsSectionCastingShadow", index).CastsShadow()
}

// SetSectionCollisionEnabled adds or removes the section at index from
// the collision cook.
func (m *Mesh) SetSectionCollisionEnabled(index int, enabled bool) {
	st := m.mustSection("SetSectionCollisionEnabled", index).state()
	if st.collision == enabled {
		return
	}
	st.collision = enabled
	if len(st.indices) > 0 {
		m.markCollisionDirty()
	}
}

// IsSectionCollisionEnabled reports whether the section at index feeds the
// collision cook.
func (m *Mesh) IsSectionCollisionEnabled(index int) bool {
	return m.mustSection("IsSectionCollisionEnabled", index).IsCollisionEnabled()
}
