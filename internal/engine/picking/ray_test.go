package picking

import (
	"testing"

	"github.com/Faultbox/runtimemesh/pkg/math"
	"github.com/Faultbox/runtimemesh/pkg/runtimemesh"
	"github.com/Faultbox/runtimemesh/pkg/vertex"
)

func TestScreenToRayCenter(t *testing.T) {
	eye := math.Vec3{Y: 10}
	vp := math.Perspective(1, 1, 0.1, 100).Mul(math.LookAt(eye, math.Vec3{}, math.Vec3{Z: -1}))
	inv, ok := vp.Inverse()
	if !ok {
		t.Fatal("matrix should be invertible")
	}

	r := ScreenToRay(50, 50, 100, 100, inv)
	if r.Direction.Y > -0.999 {
		t.Errorf("center ray should point straight down, got %v", r.Direction)
	}
	if d := r.Origin.Sub(eye).Length(); d > 0.2 {
		t.Errorf("ray should start at the near plane, got %v", r.Origin)
	}
}

func TestIntersectBox(t *testing.T) {
	box := math.NewBox3(math.Vec3{X: -1, Y: -1, Z: -1}, math.Vec3{X: 1, Y: 1, Z: 1})
	tests := []struct {
		name  string
		ray   Ray
		hit   bool
		wantT float32
	}{
		{"hit from above", Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: -1}}, true, 4},
		{"miss beside", Ray{Origin: math.Vec3{X: 3, Y: 5}, Direction: math.Vec3{Y: -1}}, false, 0},
		{"behind origin", Ray{Origin: math.Vec3{Y: 5}, Direction: math.Vec3{Y: 1}}, false, 0},
		{"inside exits", Ray{Origin: math.Vec3{}, Direction: math.Vec3{X: 1}}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, hit := tt.ray.IntersectBox(box)
			if hit != tt.hit {
				t.Fatalf("hit = %v, want %v", hit, tt.hit)
			}
			if hit && got != tt.wantT {
				t.Errorf("t = %v, want %v", got, tt.wantT)
			}
		})
	}

	if _, hit := (Ray{Direction: math.Vec3{Y: -1}}).IntersectBox(math.Box3{}); hit {
		t.Error("invalid box should never be hit")
	}
}

func quadAt(x float32) []vertex.Generic {
	return []vertex.Generic{
		{Position: math.Vec3{X: x, Z: 0}},
		{Position: math.Vec3{X: x, Z: 1}},
		{Position: math.Vec3{X: x + 1, Z: 0}},
		{Position: math.Vec3{X: x + 1, Z: 1}},
	}
}

func TestPickSection(t *testing.T) {
	m := runtimemesh.New(runtimemesh.Options{})
	defer m.Close()

	tris := []uint32{0, 1, 2, 2, 1, 3}
	runtimemesh.CreateSection(m, 0, quadAt(0), tris, runtimemesh.SectionOptions{CreateCollision: true})
	runtimemesh.CreateSection(m, 1, quadAt(2), tris, runtimemesh.SectionOptions{})

	down := math.Vec3{Y: -1}

	// Before the bake only section boxes are available.
	res, ok := PickSection(m, Ray{Origin: math.Vec3{X: 2.5, Y: 5, Z: 0.5}, Direction: down})
	if !ok || res.Section != 1 || res.Exact {
		t.Fatalf("expected box pick of section 1, got %+v ok=%v", res, ok)
	}

	m.OnFrameStart()
	res, ok = PickSection(m, Ray{Origin: math.Vec3{X: 0.5, Y: 5, Z: 0.5}, Direction: down})
	if !ok || res.Section != 0 || !res.Exact {
		t.Fatalf("expected exact pick of section 0, got %+v ok=%v", res, ok)
	}
	if res.Distance < 4.999 || res.Distance > 5.001 {
		t.Errorf("distance = %v, want 5", res.Distance)
	}

	if _, ok := PickSection(m, Ray{Origin: math.Vec3{X: 9, Y: 5}, Direction: down}); ok {
		t.Error("ray past every section should miss")
	}
}

func TestPickSectionIgnoresCollisionOnlyHits(t *testing.T) {
	m := runtimemesh.New(runtimemesh.Options{})
	defer m.Close()

	tris := []uint32{0, 1, 2, 2, 1, 3}
	runtimemesh.CreateSection(m, 0, quadAt(4), tris, runtimemesh.SectionOptions{})
	// A collision-only floor under section 0's slot index.
	m.SetCollisionSection(0, []math.Vec3{{X: 0, Y: 1}, {X: 0, Y: 1, Z: 1}, {X: 1, Y: 1}, {X: 1, Y: 1, Z: 1}}, tris)
	m.OnFrameStart()

	res, ok := PickSection(m, Ray{Origin: math.Vec3{X: 0.5, Y: 5, Z: 0.5}, Direction: math.Vec3{Y: -1}})
	if ok {
		t.Errorf("collision-only geometry picked as section %d", res.Section)
	}
}
