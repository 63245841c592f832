package runtimemesh

import (
	"fmt"
	"strings"
)

// UpdateFrequency hints how often a section changes so the render backend
// can pick a static or dynamic buffer. The zero value is FrequencyAverage.
type UpdateFrequency int

// Update frequencies.
const (
	FrequencyAverage UpdateFrequency = iota
	FrequencyInfrequent
	FrequencyFrequent
)

// String implements fmt.Stringer.
func (f UpdateFrequency) String() string {
	switch f {
	case FrequencyAverage:
		return "average"
	case FrequencyInfrequent:
		return "infrequent"
	case FrequencyFrequent:
		return "frequent"
	default:
		return fmt.Sprintf("UpdateFrequency(%d)", int(f))
	}
}

// ParseUpdateFrequency parses "infrequent", "average" or "frequent".
func ParseUpdateFrequency(s string) (UpdateFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "average":
		return FrequencyAverage, nil
	case "infrequent":
		return FrequencyInfrequent, nil
	case "frequent":
		return FrequencyFrequent, nil
	}
	return FrequencyAverage, fmt.Errorf("unknown update frequency %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (f UpdateFrequency) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *UpdateFrequency) UnmarshalText(text []byte) error {
	v, err := ParseUpdateFrequency(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// ChangeFlags summarizes which parts of a section a single call changed.
type ChangeFlags uint8

// Change flags.
const (
	ChangedPositions ChangeFlags = 1 << iota
	ChangedVertices
	ChangedIndices
	ChangedBounds
)

// Has reports whether all bits of other are set.
func (c ChangeFlags) Has(other ChangeFlags) bool {
	return c&other == other
}

// String implements fmt.Stringer.
func (c ChangeFlags) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, f := range []struct {
		flag ChangeFlags
		name string
	}{
		{ChangedPositions, "positions"},
		{ChangedVertices, "vertices"},
		{ChangedIndices, "indices"},
		{ChangedBounds, "bounds"},
	} {
		if c.Has(f.flag) {
			parts = append(parts, f.name)
		}
	}
	return strings.Join(parts, "|")
}

// UpdateFlags modify how create and update calls treat caller buffers.
type UpdateFlags uint8

// Update flags.
const (
	// MoveArrays hands ownership of the caller's slices to the section
	// instead of copying them. The caller must not touch them afterwards.
	MoveArrays UpdateFlags = 1 << iota
)

// Has reports whether all bits of other are set.
func (f UpdateFlags) Has(other UpdateFlags) bool {
	return f&other == other
}
