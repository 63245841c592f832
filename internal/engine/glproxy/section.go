package glproxy

import (
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/runtimemesh/internal/engine/upload"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

// Attribute locations by semantic.
var attribLocation = map[vertex.Semantic]uint32{
	vertex.Position:  0,
	vertex.Normal:    1,
	vertex.Tangent:   2,
	vertex.Color:     3,
	vertex.TexCoord0: 4,
	vertex.TexCoord1: 5,
}

// usage maps an update frequency to a GL buffer usage hint.
func usage(f runtimemesh.UpdateFrequency) uint32 {
	switch f {
	case runtimemesh.FrequencyInfrequent:
		return gl.STATIC_DRAW
	case runtimemesh.FrequencyFrequent:
		return gl.STREAM_DRAW
	default:
		return gl.DYNAMIC_DRAW
	}
}

// gpuSection holds the GL objects of one mesh section.
type gpuSection struct {
	vao       uint32
	positions uint32
	vertices  uint32
	indices   uint32
	sizes     upload.Sizes

	desc        vertex.Descriptor
	dual        bool
	freq        runtimemesh.UpdateFrequency
	indexCount  int32
	visible     bool
	castsShadow bool
}

func newGPUSection(snap *runtimemesh.SectionSnapshot) *gpuSection {
	s := &gpuSection{
		desc: snap.Descriptor,
		dual: snap.DualBuffer,
		freq: snap.UpdateFrequency,
	}
	gl.GenVertexArrays(1, &s.vao)
	gl.GenBuffers(1, &s.vertices)
	gl.GenBuffers(1, &s.indices)
	if s.dual {
		gl.GenBuffers(1, &s.positions)
	}
	s.setProperties(snap.Visible, snap.CastsShadow)
	return s
}

func (s *gpuSection) setProperties(visible, castsShadow bool) {
	s.visible = visible
	s.castsShadow = castsShadow
}

// apply uploads the buffers in snap according to plan.
func (s *gpuSection) apply(snap *runtimemesh.SectionSnapshot, plan upload.Plan, stats *Stats) {
	s.freq = snap.UpdateFrequency
	s.setProperties(snap.Visible, snap.CastsShadow)

	gl.BindVertexArray(s.vao)
	if s.dual {
		s.sizes.Positions = s.upload(gl.ARRAY_BUFFER, s.positions, upload.Vec3Bytes(snap.Positions), plan.Positions, s.sizes.Positions, stats)
	}
	s.sizes.Vertices = s.upload(gl.ARRAY_BUFFER, s.vertices, snap.Vertices, plan.Vertices, s.sizes.Vertices, stats)
	s.sizes.Indices = s.upload(gl.ELEMENT_ARRAY_BUFFER, s.indices, upload.Uint32Bytes(snap.Indices), plan.Indices, s.sizes.Indices, stats)
	if snap.Indices != nil {
		s.indexCount = int32(len(snap.Indices))
	}
	if plan.Vertices == upload.Recreate || plan.Positions == upload.Recreate {
		s.bindAttributes()
	}
	gl.BindVertexArray(0)
}

func (s *gpuSection) upload(target, buffer uint32, data []byte, mode upload.Mode, size int, stats *Stats) int {
	switch mode {
	case upload.Recreate:
		gl.BindBuffer(target, buffer)
		gl.BufferData(target, len(data), ptr(data), usage(s.freq))
		stats.Recreates++
		return len(data)
	case upload.Patch:
		gl.BindBuffer(target, buffer)
		gl.BufferSubData(target, 0, len(data), ptr(data))
		stats.Patches++
	}
	return size
}

// bindAttributes points the vertex array at the section's buffers using
// the descriptor's canonical layout.
func (s *gpuSection) bindAttributes() {
	if s.dual {
		gl.BindBuffer(gl.ARRAY_BUFFER, s.positions)
		gl.EnableVertexAttribArray(attribLocation[vertex.Position])
		gl.VertexAttribPointerWithOffset(attribLocation[vertex.Position], 3, gl.FLOAT, false, 12, 0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, s.vertices)
	stride := int32(s.desc.Stride)
	for _, a := range s.desc.Layout() {
		loc := attribLocation[a.Semantic]
		gl.EnableVertexAttribArray(loc)
		switch a.Semantic {
		case vertex.Position, vertex.Normal:
			gl.VertexAttribPointerWithOffset(loc, 3, gl.FLOAT, false, stride, a.Offset)
		case vertex.Tangent:
			gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, stride, a.Offset)
		case vertex.Color:
			gl.VertexAttribPointerWithOffset(loc, 4, gl.UNSIGNED_BYTE, true, stride, a.Offset)
		case vertex.TexCoord0, vertex.TexCoord1:
			gl.VertexAttribPointerWithOffset(loc, 2, gl.FLOAT, false, stride, a.Offset)
		}
	}
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, s.indices)
}

func (s *gpuSection) draw() {
	if !s.visible || s.indexCount == 0 {
		return
	}
	gl.BindVertexArray(s.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, s.indexCount, gl.UNSIGNED_INT, 0)
}

func (s *gpuSection) destroy() {
	gl.DeleteVertexArrays(1, &s.vao)
	buffers := []uint32{s.vertices, s.indices}
	if s.dual {
		buffers = append(buffers, s.positions)
	}
	gl.DeleteBuffers(int32(len(buffers)), &buffers[0])
}

func ptr(data []byte) unsafe.Pointer {
	if len(data) == 0 {
		return nil
	}
	return unsafe.Pointer(&data[0])
}
