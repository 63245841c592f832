// Package viewer implements the interactive mesh viewer loop.
package viewer

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/runtimemesh/internal/config"
	"github.com/Faultbox/runtimemesh/internal/engine/camera"
	"github.com/Faultbox/runtimemesh/internal/engine/debug"
	"github.com/Faultbox/runtimemesh/internal/engine/glproxy"
	"github.com/Faultbox/runtimemesh/internal/engine/input"
	"github.com/Faultbox/runtimemesh/internal/engine/lighting"
	"github.com/Faultbox/runtimemesh/internal/engine/picking"
	"github.com/Faultbox/runtimemesh/internal/engine/window"
	"github.com/Faultbox/runtimemesh/internal/heightfield"
	"github.com/Faultbox/runtimemesh/internal/logger"
	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
)

var (
	sectionBoxColor = math.Vec3{X: 0.9, Y: 0.8, Z: 0.2}
	meshBoxColor    = math.Vec3{X: 0.9, Y: 0.3, Z: 0.3}
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool
	paused  bool
	clock   float64
	fitted  bool

	window      *window.Window
	renderer    *glproxy.Renderer
	input       *input.Input
	camera      *camera.OrbitCamera
	screenshots *debug.Screenshots

	mesh    *runtimemesh.Mesh
	field   *heightfield.Field
	watcher *config.Watcher
}

// New creates the window, the GL backend and the mesh.
func New(cfg *config.Config) (*Viewer, error) {
	logger.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("sections", cfg.Mesh.Sections),
		zap.Int("grid", cfg.Mesh.GridSize),
	)

	v := &Viewer{
		cfg:         cfg,
		input:       input.New(),
		camera:      camera.NewOrbitCamera(),
		screenshots: debug.NewScreenshots("screenshots", "runtimemesh"),
	}

	// Create window (this also creates OpenGL context)
	var err error
	v.window, err = window.New(window.FromGraphics("Runtime Mesh Viewer", cfg.Graphics))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	v.renderer, err = glproxy.New()
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	v.renderer.Wireframe = cfg.Graphics.Wireframe
	v.renderer.LightDir = lighting.SunDirection(cfg.Graphics.SunAzimuth, cfg.Graphics.SunElevation)

	v.mesh = runtimemesh.New(cfg.MeshOptions(v.renderer.Queue()))
	v.field = heightfield.New(v.mesh, heightfield.LayoutFrom(cfg))
	v.field.Build(0)

	if path := config.Resolve(); path != "" {
		if v.watcher, err = config.Watch(path); err != nil {
			logger.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	logger.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop.
func (v *Viewer) Run() error {
	v.running = true

	// Timing
	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting main loop")

	for v.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleInput()
		v.pollConfig()

		// 2. Frame boundary, then edit the mesh
		v.mesh.OnFrameStart()
		if !v.paused {
			v.clock += dt
			v.field.Animate(v.clock)
		}

		// 3. Upload and render
		v.render()

		// 4. Present (swap buffers)
		v.window.SwapBuffers()

		// FPS counter
		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			stats := v.mesh.Stats()
			gpu := v.renderer.Stats()
			v.window.SetTitle(fmt.Sprintf("Runtime Mesh Viewer - %d fps", frameCount))
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
				zap.Int("cooks", stats.Cooks),
				zap.Int("patches", gpu.Patches),
				zap.Int("recreates", gpu.Recreates),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}

		if limit := v.cfg.Graphics.FPSLimit; limit > 0 {
			if rest := time.Second/time.Duration(limit) - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

func (v *Viewer) handleInput() {
	for _, event := range v.input.Events() {
		if event.Type == input.EventMouseDown && event.Button == sdl.BUTTON_RIGHT {
			v.toggleSectionAt(event.MouseX, event.MouseY)
			continue
		}
		if event.Type != input.EventKeyDown {
			continue
		}
		switch event.Key {
		case sdl.SCANCODE_ESCAPE:
			v.running = false
		case sdl.SCANCODE_SPACE:
			v.paused = !v.paused
		case sdl.SCANCODE_F:
			v.renderer.Wireframe = !v.renderer.Wireframe
		case sdl.SCANCODE_B:
			v.cfg.Graphics.ShowBounds = !v.cfg.Graphics.ShowBounds
		case sdl.SCANCODE_R:
			v.rebuild()
		case sdl.SCANCODE_F12:
			v.screenshot()
		}
	}

	if dx, dy := v.input.Drag(); dx != 0 || dy != 0 {
		v.camera.HandleDrag(dx, dy)
	}
	if w := v.input.Wheel(); w != 0 {
		v.camera.HandleZoom(w)
	}
}

// pollConfig applies a reloaded config. Display settings change in place;
// a different mesh layout rebuilds the field.
func (v *Viewer) pollConfig() {
	if v.watcher == nil {
		return
	}
	var next *config.Config
	select {
	case next = <-v.watcher.Updates():
	default:
		return
	}

	v.renderer.Wireframe = next.Graphics.Wireframe
	v.renderer.LightDir = lighting.SunDirection(next.Graphics.SunAzimuth, next.Graphics.SunElevation)
	v.cfg.Graphics.Wireframe = next.Graphics.Wireframe
	v.cfg.Graphics.ShowBounds = next.Graphics.ShowBounds
	v.cfg.Graphics.FPSLimit = next.Graphics.FPSLimit
	v.cfg.Graphics.SunAzimuth = next.Graphics.SunAzimuth
	v.cfg.Graphics.SunElevation = next.Graphics.SunElevation

	if next.Mesh != v.cfg.Mesh || next.Collision.Enabled != v.cfg.Collision.Enabled {
		v.cfg.Mesh = next.Mesh
		v.cfg.Collision.Enabled = next.Collision.Enabled
		v.field = heightfield.New(v.mesh, heightfield.LayoutFrom(v.cfg))
		v.rebuild()
		v.fitted = false
	}
	v.mesh.SetUseComplexAsSimpleCollision(next.Collision.UseComplexAsSimple)
}

// toggleSectionAt hides or shows the section under the cursor.
func (v *Viewer) toggleSectionAt(x, y int) {
	inv, ok := v.camera.ViewProjection(v.window.AspectRatio()).Inverse()
	if !ok {
		return
	}
	w, h := v.window.WindowSize()
	ray := picking.ScreenToRay(float32(x), float32(y), float32(w), float32(h), inv)
	res, ok := picking.PickSection(v.mesh, ray)
	if !ok {
		return
	}
	visible := !v.mesh.IsSectionVisible(res.Section)
	v.mesh.SetSectionVisible(res.Section, visible)
	logger.Info("section toggled",
		zap.Int("section", res.Section),
		zap.Bool("visible", visible),
		zap.Bool("exact", res.Exact),
	)
}

// rebuild clears every section and creates them again.
func (v *Viewer) rebuild() {
	logger.Info("rebuilding sections")
	v.mesh.BeginBatchUpdates()
	v.mesh.ClearAllSections()
	v.field.Build(v.clock)
	v.mesh.EndBatchUpdates()
}

func (v *Viewer) render() {
	v.renderer.Flush()
	if !v.fitted && v.renderer.LocalBounds().IsValid() {
		v.camera.FitToBounds(v.renderer.LocalBounds())
		v.fitted = true
	}

	w, h := v.window.Size()
	v.renderer.BeginFrame(w, h)
	vp := v.camera.ViewProjection(v.window.AspectRatio())
	v.renderer.Draw(vp)

	if v.cfg.Graphics.ShowBounds {
		boxes := make([]math.Box3, 0, v.mesh.NumSections())
		for i := 0; i < v.mesh.NumSections(); i++ {
			if v.mesh.SectionExists(i) {
				boxes = append(boxes, v.mesh.SectionBounds(i))
			}
		}
		v.renderer.DrawLines(vp, debug.BoxesLines(boxes, 0), sectionBoxColor)
		v.renderer.DrawLines(vp, debug.BoxLines(v.renderer.LocalBounds(), 0.05), meshBoxColor)
	}
}

func (v *Viewer) screenshot() {
	w, h := v.window.Size()
	path, err := v.screenshots.Save(v.renderer.ReadPixels(w, h), w, h)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// Close releases the mesh, GL resources and the window.
func (v *Viewer) Close() {
	logger.Info("closing viewer")

	if v.watcher != nil {
		v.watcher.Close()
	}
	if v.mesh != nil {
		v.mesh.Close()
	}
	if v.renderer != nil {
		v.renderer.Destroy()
	}
	if v.window != nil {
		v.window.Close()
	}
}
