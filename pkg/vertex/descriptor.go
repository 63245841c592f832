// Package vertex describes vertex attribute layouts at runtime so mesh
// sections can store heterogeneous vertex types behind one interface and
// still check every update against the layout chosen at creation.
package vertex

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// Semantic specifies the intended use of a vertex attribute.
type Semantic uint32

// Semantics, in canonical memory order.
const (
	Position Semantic = 1 << iota
	Normal
	Tangent
	Color
	TexCoord0
	TexCoord1

	MaxSemantic = iota
)

// Size returns the byte size of one attribute of this semantic.
func (s Semantic) Size() uintptr {
	switch s {
	case Position, Normal:
		return 12
	case Tangent:
		return 16
	case Color:
		return 4
	case TexCoord0, TexCoord1:
		return 8
	default:
		panic("invalid Semantic value")
	}
}

// String implements fmt.Stringer.
func (s Semantic) String() string {
	switch s {
	case Position:
		return "Position"
	case Normal:
		return "Normal"
	case Tangent:
		return "Tangent"
	case Color:
		return "Color"
	case TexCoord0:
		return "TexCoord0"
	case TexCoord1:
		return "TexCoord1"
	}
	var names []string
	for i := 0; i < MaxSemantic; i++ {
		if bit := Semantic(1) << i; s&bit != 0 {
			names = append(names, bit.String())
		}
	}
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, "|")
}

// Has reports whether all bits of other are set in s.
func (s Semantic) Has(other Semantic) bool {
	return s&other == other
}

// Descriptor is the identity token of a vertex layout. Two descriptors
// are the same layout iff they compare equal.
type Descriptor struct {
	Name      string
	Semantics Semantic
	Stride    uintptr
}

// String implements fmt.Stringer.
func (d Descriptor) String() string {
	return fmt.Sprintf("%s{%s, stride=%d}", d.Name, d.Semantics, d.Stride)
}

// HasPosition reports whether vertices of this layout carry a position.
func (d Descriptor) HasPosition() bool {
	return d.Semantics.Has(Position)
}

// Attribute is one element of a descriptor's canonical layout.
type Attribute struct {
	Semantic Semantic
	Offset   uintptr
}

// Layout returns the attributes in canonical order with byte offsets.
// Vertex types must declare their fields in this order.
func (d Descriptor) Layout() []Attribute {
	var attrs []Attribute
	var offset uintptr
	for i := 0; i < MaxSemantic; i++ {
		s := Semantic(1) << i
		if !d.Semantics.Has(s) {
			continue
		}
		attrs = append(attrs, Attribute{Semantic: s, Offset: offset})
		offset += s.Size()
	}
	return attrs
}

// Type is implemented by plain-data vertex structs. Descriptor must be
// callable on the zero value.
type Type interface {
	Descriptor() Descriptor
}

// DescriptorOf returns the descriptor of vertex type V.
func DescriptorOf[V Type]() Descriptor {
	var v V
	return v.Descriptor()
}

// Describe builds a descriptor for V from its semantics, deriving the
// stride from the Go type's size.
func Describe[V any](name string, semantics Semantic) Descriptor {
	var v V
	return Descriptor{Name: name, Semantics: semantics, Stride: unsafe.Sizeof(v)}
}

// PositionOf returns the position of v. V's descriptor must include
// Position, which the canonical layout places at offset zero.
func PositionOf[V Type](v *V) math.Vec3 {
	return *(*math.Vec3)(unsafe.Pointer(v))
}

// Positions extracts the positions of data, or nil when V carries none.
func Positions[V Type](data []V) []math.Vec3 {
	if !DescriptorOf[V]().HasPosition() {
		return nil
	}
	out := make([]math.Vec3, len(data))
	for i := range data {
		out[i] = PositionOf(&data[i])
	}
	return out
}

// Bounds scans data for the box around its positions. It returns the
// invalid zero box when V carries no position or data is empty.
func Bounds[V Type](data []V) math.Box3 {
	var b math.Box3
	if !DescriptorOf[V]().HasPosition() {
		return b
	}
	for i := range data {
		b = b.ExpandPoint(PositionOf(&data[i]))
	}
	return b
}

// Bytes returns a copy of data's memory. V must not contain pointers.
func Bytes[V any](data []V) []byte {
	if len(data) == 0 {
		return nil
	}
	size := int(unsafe.Sizeof(data[0]))
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), len(data)*size)
	out := make([]byte, len(raw))
	copy(out, raw)
	return out
}
