package runtimemesh

// table is a sparse, index-addressed slot array. The zero value of T marks
// an empty slot. Clearing a slot never shrinks the table.
type table[T comparable] struct {
	slots []T
}

func (t *table[T]) len() int { return len(t.slots) }

// ensure grows the table so index is addressable.
func (t *table[T]) ensure(index int) {
	if index < len(t.slots) {
		return
	}
	t.slots = append(t.slots, make([]T, index+1-len(t.slots))...)
}

// set stores v at index and returns the previous occupant.
func (t *table[T]) set(index int, v T) T {
	t.ensure(index)
	prev := t.slots[index]
	t.slots[index] = v
	return prev
}

func (t *table[T]) get(index int) (T, bool) {
	var zero T
	if index < 0 || index >= len(t.slots) || t.slots[index] == zero {
		return zero, false
	}
	return t.slots[index], true
}

// clear empties the slot at index and returns what was there.
func (t *table[T]) clear(index int) (T, bool) {
	v, ok := t.get(index)
	if ok {
		var zero T
		t.slots[index] = zero
	}
	return v, ok
}

func (t *table[T]) reset() {
	t.slots = nil
}

// firstFree returns the lowest empty index, or len when none is empty.
func (t *table[T]) firstFree() int {
	var zero T
	for i, v := range t.slots {
		if v == zero {
			return i
		}
	}
	return len(t.slots)
}

// each calls fn for every occupied slot in index order.
func (t *table[T]) each(fn func(index int, v T)) {
	var zero T
	for i, v := range t.slots {
		if v != zero {
			fn(i, v)
		}
	}
}
