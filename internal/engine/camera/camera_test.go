package camera

import (
	"testing"

	"github.com/Faultbox/runtimemesh/pkg/math"
)

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	b := math.NewBox3(math.Vec3{X: -2, Y: 0, Z: -2}, math.Vec3{X: 2, Y: 1, Z: 2})
	c.FitToBounds(b)

	if c.Center != (math.Vec3{Y: 0.5}) {
		t.Errorf("expected center at box center, got %+v", c.Center)
	}
	if c.Distance <= b.Extent().Length() {
		t.Errorf("distance %v does not clear the box", c.Distance)
	}

	before := *c
	c.FitToBounds(math.Box3{})
	if *c != before {
		t.Error("invalid box should leave the camera unchanged")
	}
}

func TestZoomAndPitchClamp(t *testing.T) {
	c := NewOrbitCamera()
	for i := 0; i < 100; i++ {
		c.HandleZoom(1)
		c.HandleDrag(0, 100)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", c.MinDistance, c.Distance)
	}
	if c.RotationX != c.MaxPitch {
		t.Errorf("expected pitch clamped to %v, got %v", c.MaxPitch, c.RotationX)
	}
}
