package upload

import "github.com/Faultbox/runtimemesh/pkg/runtimemesh"

// Mode says how one GPU buffer is refreshed.
type Mode int

// Buffer refresh modes.
const (
	Keep Mode = iota
	Patch
	Recreate
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case Keep:
		return "keep"
	case Patch:
		return "patch"
	case Recreate:
		return "recreate"
	default:
		return "unknown"
	}
}

// PlanBuffer picks the refresh mode for a buffer currently holding
// allocated bytes that receives incoming bytes. A nil incoming buffer is
// unchanged. Static buffers and size changes are reallocated; dynamic
// buffers of the same size are patched in place.
func PlanBuffer(freq runtimemesh.UpdateFrequency, allocated int, incoming []byte) Mode {
	switch {
	case incoming == nil:
		return Keep
	case len(incoming) != allocated:
		return Recreate
	case freq == runtimemesh.FrequencyInfrequent:
		return Recreate
	default:
		return Patch
	}
}

// Plan is the refresh mode of every buffer of one section.
type Plan struct {
	Positions Mode
	Vertices  Mode
	Indices   Mode
}

// Sizes are the byte sizes of a section's allocated GPU buffers.
type Sizes struct {
	Positions int
	Vertices  int
	Indices   int
}

// PlanOp builds the plan for op against the buffers currently allocated
// for its section.
func PlanOp(op *Op, current Sizes) Plan {
	if op.Create {
		return Plan{Positions: Recreate, Vertices: Recreate, Indices: Recreate}
	}
	if op.Snap == nil {
		return Plan{}
	}
	freq := op.Snap.UpdateFrequency
	return Plan{
		Positions: PlanBuffer(freq, current.Positions, Vec3Bytes(op.Snap.Positions)),
		Vertices:  PlanBuffer(freq, current.Vertices, op.Snap.Vertices),
		Indices:   PlanBuffer(freq, current.Indices, Uint32Bytes(op.Snap.Indices)),
	}
}
