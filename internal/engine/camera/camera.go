// Package camera provides an orbit camera for inspecting a mesh.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	// Center point to orbit around
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	FovY float32 // radians
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        20.0,
		RotationX:       0.5,
		RotationY:       0.0,
		MinDistance:     0.5,
		MaxDistance:     500.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FovY:            math32.Pi / 4,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	x := c.Distance * math32.Cos(c.RotationX) * math32.Sin(c.RotationY)
	y := c.Distance * math32.Sin(c.RotationX)
	z := c.Distance * math32.Cos(c.RotationX) * math32.Cos(c.RotationY)

	return c.Center.Add(math.Vec3{X: x, Y: y, Z: z})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	up := math.Vec3{X: 0, Y: 1, Z: 0}
	return math.LookAt(c.Position(), c.Center, up)
}

// ViewProjection returns projection * view for the given aspect ratio.
// The clip planes follow the orbit distance.
func (c *OrbitCamera) ViewProjection(aspect float32) math.Mat4 {
	near := max(c.Distance*0.01, 0.01)
	far := c.Distance * 10
	return math.Perspective(c.FovY, aspect, near, far).Mul(c.ViewMatrix())
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX += deltaY * c.DragSensitivity
	c.RotationX = clamp(c.RotationX, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on b and backs off until the whole box
// fits the vertical field of view. Invalid boxes are ignored.
func (c *OrbitCamera) FitToBounds(b math.Box3) {
	if !b.IsValid() {
		return
	}
	c.Center = b.Center()

	radius := b.Extent().Length()
	dist := radius / math32.Sin(c.FovY/2)
	c.Distance = clamp(dist, c.MinDistance, c.MaxDistance)
}

func clamp(v, lo, hi float32) float32 {
	return min(max(v, lo), hi)
}
