// Package glproxy is an OpenGL backend for runtime meshes. The mesh
// notifies the renderer's queue; Flush uploads the queued snapshots on
// the GL thread and Draw renders the visible sections.
package glproxy

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/engine/upload"
	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/math"
)

// Stats counts GPU buffer work since the renderer was created.
type Stats struct {
	Creates   int
	Removes   int
	Recreates int
	Patches   int
}

// Renderer owns the GL resources of one mesh.
type Renderer struct {
	queue    *upload.Queue
	sections map[int]*gpuSection
	bounds   math.Box3

	program     uint32
	locViewProj int32
	locLightDir int32
	locAmbient  int32

	lineProgram  uint32
	locLineVP    int32
	locLineColor int32
	lineVAO      uint32
	lineVBO      uint32

	LightDir  math.Vec3
	Ambient   float32
	Wireframe bool

	stats Stats
}

// New compiles the shaders. It must be called with a current GL context.
func New() (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("gl init: %w", err)
	}
	logger.Info("OpenGL initialized", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	r := &Renderer{
		queue:    upload.NewQueue(),
		sections: make(map[int]*gpuSection),
		LightDir: math.Vec3{X: -0.4, Y: -1, Z: -0.3}.Normalize(),
		Ambient:  0.3,
	}

	program, err := compileProgram(meshVertexShader, meshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	r.program = program
	r.locViewProj = uniform(program, "uViewProj")
	r.locLightDir = uniform(program, "uLightDir")
	r.locAmbient = uniform(program, "uAmbient")

	lineProgram, err := compileProgram(lineVertexShader, lineFragmentShader)
	if err != nil {
		gl.DeleteProgram(program)
		return nil, fmt.Errorf("line shader: %w", err)
	}
	r.lineProgram = lineProgram
	r.locLineVP = uniform(lineProgram, "uViewProj")
	r.locLineColor = uniform(lineProgram, "uColor")

	gl.GenVertexArrays(1, &r.lineVAO)
	gl.GenBuffers(1, &r.lineVBO)
	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 12, 0)
	gl.BindVertexArray(0)

	gl.Enable(gl.DEPTH_TEST)
	gl.Enable(gl.CULL_FACE)

	return r, nil
}

// Queue returns the render proxy to hand to runtimemesh.Options.
func (r *Renderer) Queue() *upload.Queue { return r.queue }

// LocalBounds returns the mesh bounds as of the last Flush.
func (r *Renderer) LocalBounds() math.Box3 { return r.bounds }

// Stats returns a copy of the GPU counters.
func (r *Renderer) Stats() Stats { return r.stats }

// Flush applies every queued section change.
func (r *Renderer) Flush() {
	ops, bounds, boundsChanged := r.queue.Drain()
	if boundsChanged {
		r.bounds = bounds
	}

	for i := range ops {
		op := &ops[i]
		s := r.sections[op.Index]

		switch {
		case op.Remove:
			if s != nil {
				s.destroy()
				delete(r.sections, op.Index)
				r.stats.Removes++
			}

		case op.Create:
			if s != nil {
				s.destroy()
			}
			s = newGPUSection(op.Snap)
			r.sections[op.Index] = s
			s.apply(op.Snap, upload.PlanOp(op, s.sizes), &r.stats)
			r.stats.Creates++

		case s == nil:
			logger.Warn("update for unknown section", zap.Int("section", op.Index))

		case op.Snap != nil:
			s.apply(op.Snap, upload.PlanOp(op, s.sizes), &r.stats)

		case op.Properties:
			s.setProperties(op.Visible, op.CastsShadow)
		}
	}
}

// BeginFrame sets the viewport and clears the color and depth buffers.
func (r *Renderer) BeginFrame(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	gl.ClearColor(0.12, 0.13, 0.16, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// ReadPixels reads the back buffer as bottom-up RGBA.
func (r *Renderer) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}

// Draw renders all visible sections.
func (r *Renderer) Draw(viewProj math.Mat4) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locLightDir, r.LightDir.X, r.LightDir.Y, r.LightDir.Z)
	gl.Uniform1f(r.locAmbient, r.Ambient)

	if r.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	for _, s := range r.sections {
		s.draw()
	}
	gl.BindVertexArray(0)
}

// DrawLines renders line segments given as xyz pairs.
func (r *Renderer) DrawLines(viewProj math.Mat4, lines []float32, color math.Vec3) {
	if len(lines) == 0 {
		return
	}
	gl.UseProgram(r.lineProgram)
	gl.UniformMatrix4fv(r.locLineVP, 1, false, viewProj.Ptr())
	gl.Uniform3f(r.locLineColor, color.X, color.Y, color.Z)

	gl.BindVertexArray(r.lineVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.lineVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(lines)*4, gl.Ptr(lines), gl.STREAM_DRAW)
	gl.DrawArrays(gl.LINES, 0, int32(len(lines)/3))
	gl.BindVertexArray(0)
}

// Destroy releases all GL resources.
func (r *Renderer) Destroy() {
	for i, s := range r.sections {
		s.destroy()
		delete(r.sections, i)
	}
	gl.DeleteVertexArrays(1, &r.lineVAO)
	gl.DeleteBuffers(1, &r.lineVBO)
	gl.DeleteProgram(r.lineProgram)
	gl.DeleteProgram(r.program)
}
