package editor

// SelectionConsistent reports whether every selected ID is in the store.
func (m *Model) SelectionConsistent() bool {
	for id := range m.selection {
		if !m.store.Has(id) {
			return false
		}
	}
	return true
}
